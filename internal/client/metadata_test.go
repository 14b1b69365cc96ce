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

func TestMetadataClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/metadata/analytics", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "2026-01-01", request.URL.Query().Get("created_from"))

		WriteJSON(t, writer, http.StatusOK, RecordPage(1,
			sight.Record{"uid": "md-1", "key": "defect-taxonomy"},
		))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	list, err := client.Metadata().List(context.Background(), sight.MetadataNamespaceAnalytics, &sight.MetadataListOptions{
		CreatedFrom: "2026-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "md-1", list.Data[0]["uid"])
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestMetadataClient_CRUD(t *testing.T) {
	t.Parallel()

	RunRecordTests(t, []TestRecordOperation{
		{
			Name:     "fetches an item from a namespace",
			Method:   http.MethodGet,
			Path:     "/metadata/inspection/md-7",
			Response: sight.Record{"uid": "md-7", "key": "aql-level"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Metadata().Get(ctx, sight.MetadataNamespaceInspection, "md-7")
			},
		},
		{
			Name:   "creates an item in a namespace",
			Method: http.MethodPost,
			Path:   "/metadata/analytics",
			WantBody: map[string]interface{}{
				"key":   "defect-taxonomy",
				"value": "v2",
			},
			Response: sight.Record{"uid": "md-8"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Metadata().Create(ctx, sight.MetadataNamespaceAnalytics, sight.Record{
					"key":   "defect-taxonomy",
					"value": "v2",
				})
			},
		},
		{
			Name:   "updates an item in a namespace",
			Method: http.MethodPut,
			Path:   "/metadata/analytics/md-8",
			WantBody: map[string]interface{}{
				"value": "v3",
			},
			Response: sight.Record{"uid": "md-8", "value": "v3"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Metadata().Update(ctx, sight.MetadataNamespaceAnalytics, "md-8", sight.Record{"value": "v3"})
			},
		},
		{
			Name:     "deletes an item from a namespace",
			Method:   http.MethodDelete,
			Path:     "/metadata/analytics/md-8",
			Response: sight.Record{"deleted": true},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Metadata().Delete(ctx, sight.MetadataNamespaceAnalytics, "md-8")
			},
		},
		{
			Name:       "names the namespace in errors",
			Method:     http.MethodGet,
			Path:       "/metadata/inspection/md-gone",
			StatusCode: http.StatusNotFound,
			Response:   map[string]string{"errorCode": "NOT_FOUND", "message": "item does not exist"},
			WantErr:    true,
			ErrMessage: "getting inspection metadata",
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Metadata().Get(ctx, sight.MetadataNamespaceInspection, "md-gone")
			},
		},
	})
}

func TestMetadataClient_ListAll(t *testing.T) {
	t.Parallel()

	var requests []string

	// Every page goes to the same namespace path.
	server := httptest.NewServer(PagedHandler(t, "/metadata/analytics", 25, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	records, err := client.Metadata().ListAll(context.Background(), sight.MetadataNamespaceAnalytics, nil, &sight.PaginationOptions{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, records, 25)
	assert.Len(t, requests, 3)
}

func TestMetadataClient_Stream(t *testing.T) {
	t.Parallel()

	var requests []string

	server := httptest.NewServer(PagedHandler(t, "/metadata/inspection", 9, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	var count int

	for page := range client.Metadata().Stream(context.Background(), sight.MetadataNamespaceInspection, nil, nil) {
		require.NoError(t, page.Err)

		count += len(page.Items)
	}

	assert.Equal(t, 9, count)
}
