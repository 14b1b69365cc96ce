package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspectorio-io/sight-go/pkg/sight"
)

func TestAssignmentsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/assignments", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)

		query := request.URL.Query()
		assert.Equal(t, sight.OrderAssignmentCreatedDateDesc, query.Get("order"))
		assert.Equal(t, sight.AssignmentStatusAssigned, query.Get("assignment_status"))
		assert.Equal(t, "Hanoi", query.Get("factory_city"))
		assert.Equal(t, "VN", query.Get("factory_country"))
		assert.Equal(t, "2026-01-01", query.Get("expected_inspection_date_from"))

		WriteJSON(t, writer, http.StatusOK, RecordPage(1,
			sight.Record{"assignmentId": "asg-1", "assignmentStatus": "ASSIGNED"},
		))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	list, err := client.Assignments().List(context.Background(), &sight.AssignmentListOptions{
		AssignmentStatus:           sight.AssignmentStatusAssigned,
		FactoryCity:                "Hanoi",
		FactoryCountry:             "VN",
		ExpectedInspectionDateFrom: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "asg-1", list.Data[0]["assignmentId"])
}

func TestAssignmentsClient_List_OrderOverride(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "assignment_created_date:asc", request.URL.Query().Get("order"))

		WriteJSON(t, writer, http.StatusOK, RecordPage(0))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	_, err := client.Assignments().List(context.Background(), &sight.AssignmentListOptions{
		ListOptions: sight.ListOptions{Order: "assignment_created_date:asc"},
	})
	require.NoError(t, err)
}

func TestAssignmentsClient_Get(t *testing.T) {
	t.Parallel()

	RunRecordTests(t, []TestRecordOperation{
		{
			Name:     "fetches an assignment by ID",
			Method:   http.MethodGet,
			Path:     "/assignments/asg-9",
			Response: sight.Record{"assignmentId": "asg-9"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Assignments().Get(ctx, "asg-9")
			},
		},
		{
			Name:       "surfaces service errors",
			Method:     http.MethodGet,
			Path:       "/assignments/asg-gone",
			StatusCode: http.StatusNotFound,
			Response:   map[string]string{"errorCode": "NOT_FOUND", "message": "assignment does not exist"},
			WantErr:    true,
			ErrMessage: "getting assignment",
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Assignments().Get(ctx, "asg-gone")
			},
		},
	})
}

func TestAssignmentsClient_ListAll(t *testing.T) {
	t.Parallel()

	var requests []string

	server := httptest.NewServer(PagedHandler(t, "/assignments", 45, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	records, err := client.Assignments().ListAll(context.Background(), nil, &sight.PaginationOptions{PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, records, 45)
	assert.Len(t, requests, 3)
}

func TestAssignmentsClient_Stream(t *testing.T) {
	t.Parallel()

	var requests []string

	server := httptest.NewServer(PagedHandler(t, "/assignments", 12, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	var count int

	for page := range client.Assignments().Stream(context.Background(), nil, &sight.PaginationOptions{PageSize: 10}) {
		require.NoError(t, page.Err)

		count += len(page.Items)
	}

	assert.Equal(t, 12, count)
}
