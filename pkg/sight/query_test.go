package sight_test

import (
	"net/url"
	"testing"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *sight.QueryParams
		expected url.Values
	}{
		{
			name:   "empty params use paging defaults",
			params: sight.NewQueryParams(),
			expected: url.Values{
				"offset": []string{"0"},
				"limit":  []string{"10"},
			},
		},
		{
			name:   "with pagination",
			params: sight.NewQueryParams().WithOffset(50).WithLimit(50),
			expected: url.Values{
				"offset": []string{"50"},
				"limit":  []string{"50"},
			},
		},
		{
			name:   "limit above maximum is clamped",
			params: sight.NewQueryParams().WithLimit(500),
			expected: url.Values{
				"offset": []string{"0"},
				"limit":  []string{"100"},
			},
		},
		{
			name:   "with ordering",
			params: sight.NewQueryParams().WithOrder("created_date:desc"),
			expected: url.Values{
				"offset": []string{"0"},
				"limit":  []string{"10"},
				"order":  []string{"created_date:desc"},
			},
		},
		{
			name:   "with filter",
			params: sight.NewQueryParams().WithFilter("status", "NEW"),
			expected: url.Values{
				"offset": []string{"0"},
				"limit":  []string{"10"},
				"status": []string{"NEW"},
			},
		},
		{
			name:   "multi-value filters are comma separated",
			params: sight.NewQueryParams().WithFilter("status", "NEW", "CONFIRMED"),
			expected: url.Values{
				"offset": []string{"0"},
				"limit":  []string{"10"},
				"status": []string{"NEW,CONFIRMED"},
			},
		},
		{
			name: "with all options",
			params: sight.NewQueryParams().
				WithOffset(20).
				WithLimit(20).
				WithOrder("updated_date:desc").
				WithFilter("status", "CONFIRMED").
				WithFilter("to_organization_id", "ORG-1"),
			expected: url.Values{
				"offset":             []string{"20"},
				"limit":              []string{"20"},
				"order":              []string{"updated_date:desc"},
				"status":             []string{"CONFIRMED"},
				"to_organization_id": []string{"ORG-1"},
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, testCase.params.ToValues())
		})
	}
}

func TestBookingListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.BookingListOptions{
		ListOptions: sight.ListOptions{
			Offset: 10,
			Limit:  25,
		},
		Status:           sight.BookingStatusConfirmed,
		ToOrganizationID: "ORG-7",
		CreatedFrom:      "2024-01-01",
		CreatedTo:        "2024-06-30",
	}

	values := opts.ToValues()

	assert.Equal(t, "10", values.Get("offset"))
	assert.Equal(t, "25", values.Get("limit"))
	assert.Equal(t, "CONFIRMED", values.Get("status"))
	assert.Equal(t, "ORG-7", values.Get("to_organization_id"))
	assert.Equal(t, "2024-01-01", values.Get("created_from"))
	assert.Equal(t, "2024-06-30", values.Get("created_to"))
	assert.Empty(t, values.Get("updated_from"))
}

func TestBookingListOptions_DefaultOrder(t *testing.T) {
	t.Parallel()

	// Bookings list newest first unless the caller overrides the order
	values := (&sight.BookingListOptions{}).ToValues()
	assert.Equal(t, "created_date:desc", values.Get("order"))

	custom := &sight.BookingListOptions{
		ListOptions: sight.ListOptions{Order: "created_date:asc"},
	}
	assert.Equal(t, "created_date:asc", custom.ToValues().Get("order"))
}

func TestBookingListOptions_NilReceiver(t *testing.T) {
	t.Parallel()

	var opts *sight.BookingListOptions

	values := opts.ToValues()
	assert.Equal(t, "0", values.Get("offset"))
	assert.Equal(t, "10", values.Get("limit"))
}

func TestPurchaseOrderListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.PurchaseOrderListOptions{
		PONumber:         "PO-1001",
		OPONumber:        "OPO-7",
		DeliveryDateFrom: "2024-03-01",
		DeliveryDateTo:   "2024-03-31",
	}

	values := opts.ToValues()

	assert.Equal(t, "PO-1001", values.Get("po_number"))
	assert.Equal(t, "OPO-7", values.Get("opo_number"))
	assert.Equal(t, "2024-03-01", values.Get("delivery_date_from"))
	assert.Equal(t, "2024-03-31", values.Get("delivery_date_to"))
	assert.Empty(t, values.Get("order"), "purchase orders have no default order")
}

func TestReportListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.ReportListOptions{
		Status:             sight.ReportStatusCompleted,
		CAPAStatus:         sight.CAPAStatusSubmitted,
		StyleID:            "ST-9",
		InspectionDateFrom: "2024-02-01",
	}

	values := opts.ToValues()

	assert.Equal(t, "completed", values.Get("status"))
	assert.Equal(t, "Submitted", values.Get("capa_status"))
	assert.Equal(t, "ST-9", values.Get("style_id"))
	assert.Equal(t, "2024-02-01", values.Get("inspection_date_from"))
	assert.Equal(t, "created_date:desc", values.Get("order"))
}

func TestFactoryRiskProfileListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.FactoryRiskProfileListOptions{
		DateFrom: "2024-01-01",
		DateTo:   "2024-12-31",
		DateType: "inspection_date",
	}

	values := opts.ToValues()

	assert.Equal(t, "2024-01-01", values.Get("date_from"))
	assert.Equal(t, "2024-12-31", values.Get("date_to"))
	assert.Equal(t, "inspection_date", values.Get("date_type"))
}

func TestFactoryRiskProfileOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.FactoryRiskProfileOptions{
		DateFrom: "2024-01-01",
		DateTo:   "2024-12-31",
		ClientID: "CL-5",
	}

	values := opts.ToValues()

	assert.Equal(t, "2024-01-01", values.Get("date_from"))
	assert.Equal(t, "2024-12-31", values.Get("date_to"))
	assert.Equal(t, "CL-5", values.Get("client_id"))

	// Single-profile requests carry no paging parameters
	assert.Empty(t, values.Get("offset"))
	assert.Empty(t, values.Get("limit"))

	var nilOpts *sight.FactoryRiskProfileOptions
	assert.Empty(t, nilOpts.ToValues())
}

func TestAssignmentListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.AssignmentListOptions{
		AssignmentStatus:           sight.AssignmentStatusNew,
		ExecutorOrganization:       "ORG-3",
		FactoryCountry:             "VN",
		ExpectedInspectionDateFrom: "2024-05-01",
	}

	values := opts.ToValues()

	assert.Equal(t, "NEW", values.Get("assignment_status"))
	assert.Equal(t, "ORG-3", values.Get("executor_organization"))
	assert.Equal(t, "VN", values.Get("factory_country"))
	assert.Equal(t, "2024-05-01", values.Get("expected_inspection_date_from"))
	assert.Equal(t, "assignment_created_date:desc", values.Get("order"))
}

func TestMetadataListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.MetadataListOptions{
		CreatedFrom: "2024-01-01",
		UpdatedTo:   "2024-02-01",
	}

	values := opts.ToValues()

	assert.Equal(t, "2024-01-01", values.Get("created_from"))
	assert.Equal(t, "2024-02-01", values.Get("updated_to"))
}

func TestOrganizationListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.OrganizationListOptions{Name: "Acme Textiles"}

	values := opts.ToValues()
	assert.Equal(t, "Acme Textiles", values.Get("name"))
}

func TestTimeAndActionListOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.TimeAndActionListOptions{
		PONumber: "PO-1001",
		Status:   sight.TimeAndActionStatusInProgress,
	}

	values := opts.ToValues()

	assert.Equal(t, "PO-1001", values.Get("po_number"))
	assert.Equal(t, "IN-PROGRESS", values.Get("status"))
}

func TestProductionStatusOptions_ToValues(t *testing.T) {
	t.Parallel()

	opts := &sight.ProductionStatusOptions{Level: sight.ProductionStatusPOLevel}

	values := opts.ToValues()
	assert.Equal(t, "poLevel", values.Get("productionStatusLevel"))

	var nilOpts *sight.ProductionStatusOptions
	assert.Empty(t, nilOpts.ToValues())
}
