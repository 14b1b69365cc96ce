package sight

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams builds the query string for Sight collection endpoints. The
// service pages every collection with offset and limit, so ToValues always
// emits both; everything else is included only when set.
type QueryParams struct {
	Offset  int
	Limit   int
	Order   string
	Filters map[string][]string
}

// NewQueryParams creates a QueryParams with defaults: the first page at the
// service's standard page size.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithOffset sets the record offset to start the page at.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithOrder sets the sort order, e.g. "created_date:desc".
func (q *QueryParams) WithOrder(order string) *QueryParams {
	q.Order = order

	return q
}

// WithFilter appends values to a filter parameter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the parameters to url.Values. Offset is always emitted,
// a non-positive limit falls back to DefaultPageSize, and limits above
// MaxPageSize are clamped to it, matching what the service accepts.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	values.Set("offset", strconv.Itoa(q.Offset))
	values.Set("limit", strconv.Itoa(normalizeLimit(q.Limit)))

	if q.Order != "" {
		values.Set("order", q.Order)
	}

	for key, filterValues := range q.Filters {
		if len(filterValues) > 0 {
			values.Set(key, strings.Join(filterValues, ","))
		}
	}

	return values
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

func (q *QueryParams) withOptionalFilter(key, value string) *QueryParams {
	if value != "" {
		q.WithFilter(key, value)
	}

	return q
}

// ListOptions carries the paging controls shared by every collection
// endpoint. A zero value requests the first page at the default page size.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int
	// Limit is the page size. Zero means DefaultPageSize; the service caps
	// pages at MaxPageSize.
	Limit int
	// Order overrides the endpoint's default sort order.
	Order string
}

func (o ListOptions) queryParams(defaultOrder string) *QueryParams {
	order := o.Order
	if order == "" {
		order = defaultOrder
	}

	return NewQueryParams().
		WithOffset(o.Offset).
		WithLimit(o.Limit).
		WithOrder(order)
}

// BookingListOptions filters booking list calls.
type BookingListOptions struct {
	ListOptions

	// Status filters by booking status.
	Status string
	// ToOrganizationID filters bookings addressed to one organization.
	ToOrganizationID string
	// CreatedFrom and CreatedTo bound the creation date, ISO 8601.
	CreatedFrom string
	CreatedTo   string
	// UpdatedFrom and UpdatedTo bound the last update date, ISO 8601.
	UpdatedFrom string
	UpdatedTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *BookingListOptions) ToValues() url.Values {
	if o == nil {
		o = &BookingListOptions{}
	}

	return o.queryParams(OrderCreatedDateDesc).
		withOptionalFilter("status", o.Status).
		withOptionalFilter("to_organization_id", o.ToOrganizationID).
		withOptionalFilter("created_from", o.CreatedFrom).
		withOptionalFilter("created_to", o.CreatedTo).
		withOptionalFilter("updated_from", o.UpdatedFrom).
		withOptionalFilter("updated_to", o.UpdatedTo).
		ToValues()
}

// PurchaseOrderListOptions filters purchase order list calls.
type PurchaseOrderListOptions struct {
	ListOptions

	// PONumber filters by purchase order number.
	PONumber string
	// OPONumber filters by original purchase order number.
	OPONumber string
	// DeliveryDateFrom and DeliveryDateTo bound the delivery date, ISO 8601.
	DeliveryDateFrom string
	DeliveryDateTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *PurchaseOrderListOptions) ToValues() url.Values {
	if o == nil {
		o = &PurchaseOrderListOptions{}
	}

	return o.queryParams("").
		withOptionalFilter("po_number", o.PONumber).
		withOptionalFilter("opo_number", o.OPONumber).
		withOptionalFilter("delivery_date_from", o.DeliveryDateFrom).
		withOptionalFilter("delivery_date_to", o.DeliveryDateTo).
		ToValues()
}

// ReportListOptions filters inspection report list calls.
type ReportListOptions struct {
	ListOptions

	// Status filters by report status: in-progress, pending or completed.
	Status string
	// CAPAStatus filters by corrective action plan status.
	CAPAStatus string
	// StyleID filters by style identifier.
	StyleID string
	// InspectionDateFrom and InspectionDateTo bound the inspection date.
	InspectionDateFrom string
	InspectionDateTo   string
	// CreatedFrom and CreatedTo bound the creation date, ISO 8601.
	CreatedFrom string
	CreatedTo   string
	// UpdatedFrom and UpdatedTo bound the last update date, ISO 8601.
	UpdatedFrom string
	UpdatedTo   string
	// SystemUpdatedFrom and SystemUpdatedTo bound the system update date.
	SystemUpdatedFrom string
	SystemUpdatedTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *ReportListOptions) ToValues() url.Values {
	if o == nil {
		o = &ReportListOptions{}
	}

	return o.queryParams(OrderCreatedDateDesc).
		withOptionalFilter("status", o.Status).
		withOptionalFilter("capa_status", o.CAPAStatus).
		withOptionalFilter("style_id", o.StyleID).
		withOptionalFilter("inspection_date_from", o.InspectionDateFrom).
		withOptionalFilter("inspection_date_to", o.InspectionDateTo).
		withOptionalFilter("created_from", o.CreatedFrom).
		withOptionalFilter("created_to", o.CreatedTo).
		withOptionalFilter("updated_from", o.UpdatedFrom).
		withOptionalFilter("updated_to", o.UpdatedTo).
		withOptionalFilter("system_updated_from", o.SystemUpdatedFrom).
		withOptionalFilter("system_updated_to", o.SystemUpdatedTo).
		ToValues()
}

// FactoryRiskProfileListOptions filters factory risk profile list calls.
// DateFrom and DateTo are required by the service.
type FactoryRiskProfileListOptions struct {
	ListOptions

	// DateFrom and DateTo bound the analytics window, ISO 8601. Required.
	DateFrom string
	DateTo   string
	// DateType selects which date the window applies to.
	DateType string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *FactoryRiskProfileListOptions) ToValues() url.Values {
	if o == nil {
		o = &FactoryRiskProfileListOptions{}
	}

	return o.queryParams("").
		withOptionalFilter("date_from", o.DateFrom).
		withOptionalFilter("date_to", o.DateTo).
		withOptionalFilter("date_type", o.DateType).
		ToValues()
}

// FactoryRiskProfileOptions narrows a single factory risk profile request.
type FactoryRiskProfileOptions struct {
	// DateFrom and DateTo bound the analytics window, ISO 8601.
	DateFrom string
	DateTo   string
	// ClientID scopes the profile to one client organization.
	ClientID string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *FactoryRiskProfileOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	setNonEmpty(values, "date_from", o.DateFrom)
	setNonEmpty(values, "date_to", o.DateTo)
	setNonEmpty(values, "client_id", o.ClientID)

	return values
}

// AssignmentListOptions filters assignment list calls.
type AssignmentListOptions struct {
	ListOptions

	// AssignmentStatus filters by assignment status.
	AssignmentStatus string
	// ExecutorOrganization filters by the organization executing the
	// inspection.
	ExecutorOrganization string
	// FactoryCity and FactoryCountry filter by factory location.
	FactoryCity    string
	FactoryCountry string
	// AssignmentCreatedFrom and AssignmentCreatedTo bound the creation date.
	AssignmentCreatedFrom string
	AssignmentCreatedTo   string
	// AssignmentUpdatedFrom and AssignmentUpdatedTo bound the update date.
	AssignmentUpdatedFrom string
	AssignmentUpdatedTo   string
	// ExpectedInspectionDateFrom and ExpectedInspectionDateTo bound the
	// planned inspection date.
	ExpectedInspectionDateFrom string
	ExpectedInspectionDateTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *AssignmentListOptions) ToValues() url.Values {
	if o == nil {
		o = &AssignmentListOptions{}
	}

	return o.queryParams(OrderAssignmentCreatedDateDesc).
		withOptionalFilter("assignment_status", o.AssignmentStatus).
		withOptionalFilter("executor_organization", o.ExecutorOrganization).
		withOptionalFilter("factory_city", o.FactoryCity).
		withOptionalFilter("factory_country", o.FactoryCountry).
		withOptionalFilter("assignment_created_from", o.AssignmentCreatedFrom).
		withOptionalFilter("assignment_created_to", o.AssignmentCreatedTo).
		withOptionalFilter("assignment_updated_from", o.AssignmentUpdatedFrom).
		withOptionalFilter("assignment_updated_to", o.AssignmentUpdatedTo).
		withOptionalFilter("expected_inspection_date_from", o.ExpectedInspectionDateFrom).
		withOptionalFilter("expected_inspection_date_to", o.ExpectedInspectionDateTo).
		ToValues()
}

// BrandListOptions pages brand list calls.
type BrandListOptions struct {
	ListOptions
}

// ToValues converts the options to the endpoint's query parameters.
func (o *BrandListOptions) ToValues() url.Values {
	if o == nil {
		o = &BrandListOptions{}
	}

	return o.queryParams("").ToValues()
}

// LabTestReportListOptions pages lab test report list calls.
type LabTestReportListOptions struct {
	ListOptions
}

// ToValues converts the options to the endpoint's query parameters.
func (o *LabTestReportListOptions) ToValues() url.Values {
	if o == nil {
		o = &LabTestReportListOptions{}
	}

	return o.queryParams("").ToValues()
}

// MetadataListOptions filters metadata list calls within a namespace.
type MetadataListOptions struct {
	ListOptions

	// CreatedFrom and CreatedTo bound the creation date, ISO 8601.
	CreatedFrom string
	CreatedTo   string
	// UpdatedFrom and UpdatedTo bound the last update date, ISO 8601.
	UpdatedFrom string
	UpdatedTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *MetadataListOptions) ToValues() url.Values {
	if o == nil {
		o = &MetadataListOptions{}
	}

	return o.queryParams(OrderCreatedDateDesc).
		withOptionalFilter("created_from", o.CreatedFrom).
		withOptionalFilter("created_to", o.CreatedTo).
		withOptionalFilter("updated_from", o.UpdatedFrom).
		withOptionalFilter("updated_to", o.UpdatedTo).
		ToValues()
}

// OrganizationListOptions filters organization list calls.
type OrganizationListOptions struct {
	ListOptions

	// Name filters organizations by name.
	Name string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *OrganizationListOptions) ToValues() url.Values {
	if o == nil {
		o = &OrganizationListOptions{}
	}

	return o.queryParams("").
		withOptionalFilter("name", o.Name).
		ToValues()
}

// TimeAndActionListOptions filters time and action list calls.
type TimeAndActionListOptions struct {
	ListOptions

	// PONumber filters by purchase order number.
	PONumber string
	// Status filters by time and action status.
	Status string
	// CreatedFrom and CreatedTo bound the creation date, ISO 8601.
	CreatedFrom string
	CreatedTo   string
	// UpdatedFrom and UpdatedTo bound the last update date, ISO 8601.
	UpdatedFrom string
	UpdatedTo   string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *TimeAndActionListOptions) ToValues() url.Values {
	if o == nil {
		o = &TimeAndActionListOptions{}
	}

	return o.queryParams("").
		withOptionalFilter("po_number", o.PONumber).
		withOptionalFilter("status", o.Status).
		withOptionalFilter("created_from", o.CreatedFrom).
		withOptionalFilter("created_to", o.CreatedTo).
		withOptionalFilter("updated_from", o.UpdatedFrom).
		withOptionalFilter("updated_to", o.UpdatedTo).
		ToValues()
}

// ProductionStatusOptions selects the aggregation level for a time and
// action production status request.
type ProductionStatusOptions struct {
	// Level is poLevel or itemLevel. The service's query key for this one is
	// camelCase.
	Level string
}

// ToValues converts the options to the endpoint's query parameters.
func (o *ProductionStatusOptions) ToValues() url.Values {
	values := url.Values{}
	if o == nil {
		return values
	}

	setNonEmpty(values, "productionStatusLevel", o.Level)

	return values
}

func setNonEmpty(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
