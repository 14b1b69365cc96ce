package sight

import "context"

// BookingsClient provides access to inspection booking operations.
type BookingsClient interface {
	// List fetches one page of bookings.
	List(ctx context.Context, opts *BookingListOptions) (*ListResponse[Record], error)
	// Get fetches a single booking by ID.
	Get(ctx context.Context, bookingID string) (Record, error)
	// ListAll fetches every matching booking across all pages.
	ListAll(ctx context.Context, opts *BookingListOptions, pager *PaginationOptions) ([]Record, error)
	// Stream delivers matching bookings page by page without blocking for
	// the whole collection.
	Stream(ctx context.Context, opts *BookingListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// ProductsClient provides access to the product catalog.
type ProductsClient interface {
	// List fetches the product collection. The endpoint takes no parameters.
	List(ctx context.Context) (*ListResponse[Record], error)
}

// PurchaseOrdersClient provides access to purchase order operations.
type PurchaseOrdersClient interface {
	List(ctx context.Context, opts *PurchaseOrderListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, poNumber string) (Record, error)
	Create(ctx context.Context, purchaseOrder Record) (Record, error)
	Update(ctx context.Context, poNumber string, purchaseOrder Record) (Record, error)
	Delete(ctx context.Context, poNumber string) (Record, error)
	// ExecuteAction runs a named workflow action, PurchaseOrderActionUpdate
	// or PurchaseOrderActionDelete, against a purchase order.
	ExecuteAction(ctx context.Context, poNumber, action string) (Record, error)
	ListAll(ctx context.Context, opts *PurchaseOrderListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *PurchaseOrderListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// ReportsClient provides access to inspection report operations.
type ReportsClient interface {
	List(ctx context.Context, opts *ReportListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, reportID string) (Record, error)
	ListAll(ctx context.Context, opts *ReportListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *ReportListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// AnalyticsClient provides access to analytics endpoints.
type AnalyticsClient interface {
	// ListFactoryRiskProfiles fetches one page of factory risk profiles.
	// The service requires the date window options.
	ListFactoryRiskProfiles(ctx context.Context, opts *FactoryRiskProfileListOptions) (*ListResponse[Record], error)
	// GetFactoryRiskProfile fetches the risk profile of a single factory.
	GetFactoryRiskProfile(ctx context.Context, factoryID string, opts *FactoryRiskProfileOptions) (Record, error)
	ListAllFactoryRiskProfiles(ctx context.Context, opts *FactoryRiskProfileListOptions, pager *PaginationOptions) ([]Record, error)
	StreamFactoryRiskProfiles(ctx context.Context, opts *FactoryRiskProfileListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// AssignmentsClient provides access to inspection assignment operations.
type AssignmentsClient interface {
	List(ctx context.Context, opts *AssignmentListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, assignmentID string) (Record, error)
	ListAll(ctx context.Context, opts *AssignmentListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *AssignmentListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// BrandsClient provides access to brand operations.
type BrandsClient interface {
	List(ctx context.Context, opts *BrandListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, brandID string) (Record, error)
	Update(ctx context.Context, brandID string, brand Record) (Record, error)
	Delete(ctx context.Context, brandID string) (Record, error)
	ListAll(ctx context.Context, opts *BrandListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *BrandListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// CAPAsClient provides access to corrective action plans.
type CAPAsClient interface {
	// Get fetches the corrective action plan attached to a report.
	Get(ctx context.Context, reportID string) (Record, error)
}

// FilesClient provides access to file handling endpoints.
type FilesClient interface {
	// CreateUploadSession opens a file upload session and returns its
	// descriptor.
	CreateUploadSession(ctx context.Context, session Record) (Record, error)
}

// LabTestReportsClient provides access to laboratory test report operations.
type LabTestReportsClient interface {
	List(ctx context.Context, opts *LabTestReportListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, reportID string) (Record, error)
	Create(ctx context.Context, report Record) (Record, error)
	Update(ctx context.Context, reportID string, report Record) (Record, error)
	Delete(ctx context.Context, reportID string) (Record, error)
	ListAll(ctx context.Context, opts *LabTestReportListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *LabTestReportListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// MeasurementChartsClient provides access to measurement charts, which are
// keyed by style rather than by their own IDs.
type MeasurementChartsClient interface {
	Get(ctx context.Context, styleID string) (Record, error)
	Create(ctx context.Context, styleID string, chart Record) (Record, error)
	Update(ctx context.Context, styleID string, chart Record) (Record, error)
}

// MetadataClient provides access to namespaced metadata items. The service
// exposes the MetadataNamespaceAnalytics and MetadataNamespaceInspection
// namespaces.
type MetadataClient interface {
	List(ctx context.Context, namespace string, opts *MetadataListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, namespace, uid string) (Record, error)
	Create(ctx context.Context, namespace string, item Record) (Record, error)
	Update(ctx context.Context, namespace, uid string, item Record) (Record, error)
	Delete(ctx context.Context, namespace, uid string) (Record, error)
	ListAll(ctx context.Context, namespace string, opts *MetadataListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, namespace string, opts *MetadataListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// OrganizationsClient provides access to organization operations.
type OrganizationsClient interface {
	List(ctx context.Context, opts *OrganizationListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, organizationID string) (Record, error)
	Create(ctx context.Context, organization Record) (Record, error)
	Update(ctx context.Context, organizationID string, organization Record) (Record, error)
	Delete(ctx context.Context, organizationID string) (Record, error)
	ListAll(ctx context.Context, opts *OrganizationListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *OrganizationListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}

// TimeAndActionsClient provides access to time and action calendars.
type TimeAndActionsClient interface {
	List(ctx context.Context, opts *TimeAndActionListOptions) (*ListResponse[Record], error)
	Get(ctx context.Context, timeAndActionID string) (Record, error)
	// UpdateMilestones replaces the milestone plan of a calendar.
	UpdateMilestones(ctx context.Context, timeAndActionID string, milestones Record) (Record, error)
	// GetProductionStatus fetches production status at the PO or item level.
	GetProductionStatus(ctx context.Context, timeAndActionID string, opts *ProductionStatusOptions) (Record, error)
	// UpdateProductionStatus updates the calendar's production status.
	UpdateProductionStatus(ctx context.Context, timeAndActionID string, status Record) (Record, error)
	ListAll(ctx context.Context, opts *TimeAndActionListOptions, pager *PaginationOptions) ([]Record, error)
	Stream(ctx context.Context, opts *TimeAndActionListOptions, pager *PaginationOptions) <-chan PageResult[Record]
}
