package sight

// Record is a single resource object as returned by the Sight API. The
// service does not publish response schemas, so records pass through as
// decoded JSON and callers pick out the fields they need.
type Record = map[string]any

// ListResponse is the envelope every collection endpoint returns: the
// records for one page plus the total number of records matching the query
// across all pages.
type ListResponse[T any] struct {
	Data  []T `json:"data" yaml:"data"`
	Total int `json:"total" yaml:"total"`
}

// PageResult carries one page from a streaming fetch. Exactly one of Items
// or Err is meaningful; a non-nil Err ends the stream.
type PageResult[T any] struct {
	// Offset is the record offset this page was requested at.
	Offset int
	// Items holds the page's records in server order.
	Items []T
	// Total echoes the collection size the server reported for this page.
	Total int
	// Err is the failure that ended the fetch, if any.
	Err error
}

// Environment selects one of the Sight deployments.
type Environment string

const (
	// EnvironmentProduction is the live deployment.
	EnvironmentProduction Environment = "production"
	// EnvironmentPreproduction is the pre-release deployment.
	EnvironmentPreproduction Environment = "preproduction"
	// EnvironmentStaging is the staging deployment.
	EnvironmentStaging Environment = "staging"
)

// Base API URLs per environment.
const (
	ProductionBaseURL    = "https://sight.inspectorio.com/api/v1"
	PreproductionBaseURL = "https://sight.pre.inspectorio.com/api/v1"
	StagingBaseURL       = "https://sight.stg.inspectorio.com/api/v1"
)

// BaseURLForEnvironment maps an environment name to its API base URL.
func BaseURLForEnvironment(env Environment) (string, error) {
	switch env {
	case EnvironmentProduction:
		return ProductionBaseURL, nil
	case EnvironmentPreproduction:
		return PreproductionBaseURL, nil
	case EnvironmentStaging:
		return StagingBaseURL, nil
	default:
		return "", ErrUnknownEnvironment
	}
}

// Booking statuses.
const (
	BookingStatusNew       = "NEW"
	BookingStatusWaived    = "WAIVED"
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusRejected  = "REJECTED"
	BookingStatusMerged    = "MERGED"
	BookingStatusCanceled  = "CANCELED"
)

// Report statuses.
const (
	ReportStatusInProgress = "in-progress"
	ReportStatusPending    = "pending"
	ReportStatusCompleted  = "completed"
)

// CAPA statuses reports can be filtered by.
const (
	CAPAStatusWaitingForResponse   = "Waiting for Response"
	CAPAStatusSubmitted            = "Submitted"
	CAPAStatusSubmittedByReviewer  = "Submitted by Reviewer"
	CAPAStatusRejected             = "Rejected"
	CAPAStatusReinspectionSolved   = "Re-inspection Requested (Solved)"
	CAPAStatusReinspectionUnsolved = "Re-inspection Requested (Unsolved)"
	CAPAStatusApproved             = "Approved"
)

// Assignment statuses.
const (
	AssignmentStatusNew         = "NEW"
	AssignmentStatusPreAssigned = "PRE-ASSIGNED"
	AssignmentStatusAssigned    = "ASSIGNED"
	AssignmentStatusReleased    = "RELEASED"
	AssignmentStatusInProgress  = "IN-PROGRESS"
	AssignmentStatusCompleted   = "COMPLETED"
	AssignmentStatusAborted     = "ABORTED"
)

// Time and action statuses.
const (
	TimeAndActionStatusUpcoming   = "UPCOMING"
	TimeAndActionStatusNew        = "NEW"
	TimeAndActionStatusInProgress = "IN-PROGRESS"
	TimeAndActionStatusCanceled   = "CANCELED"
	TimeAndActionStatusAborted    = "ABORTED"
	TimeAndActionStatusCompleted  = "COMPLETED"
)

// Purchase order actions.
const (
	PurchaseOrderActionUpdate = "update"
	PurchaseOrderActionDelete = "delete"
)

// Metadata namespaces.
const (
	MetadataNamespaceAnalytics  = "analytics"
	MetadataNamespaceInspection = "inspection"
)

// Production status levels for time and action production status queries.
const (
	ProductionStatusPOLevel   = "poLevel"
	ProductionStatusItemLevel = "itemLevel"
)

// Sort orders the service accepts on its list endpoints.
const (
	OrderCreatedDateDesc           = "created_date:desc"
	OrderAssignmentCreatedDateDesc = "assignment_created_date:desc"
)
