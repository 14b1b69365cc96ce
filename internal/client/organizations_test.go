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

func TestOrganizationsClient_List(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/organizations", request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "Acme Apparel", request.URL.Query().Get("name"))

		WriteJSON(t, writer, http.StatusOK, RecordPage(1,
			sight.Record{"organizationId": "org-1", "name": "Acme Apparel"},
		))
	}))
	defer server.Close()

	client := NewTestClient(server.URL)

	list, err := client.Organizations().List(context.Background(), &sight.OrganizationListOptions{
		Name: "Acme Apparel",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "org-1", list.Data[0]["organizationId"])
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestOrganizationsClient_CRUD(t *testing.T) {
	t.Parallel()

	RunRecordTests(t, []TestRecordOperation{
		{
			Name:     "fetches an organization",
			Method:   http.MethodGet,
			Path:     "/organizations/org-1",
			Response: sight.Record{"organizationId": "org-1", "name": "Acme Apparel"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Organizations().Get(ctx, "org-1")
			},
		},
		{
			Name:   "creates an organization",
			Method: http.MethodPost,
			Path:   "/organizations",
			WantBody: map[string]interface{}{
				"name":    "New Factory Ltd",
				"country": "VN",
			},
			Response: sight.Record{"organizationId": "org-2"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Organizations().Create(ctx, sight.Record{
					"name":    "New Factory Ltd",
					"country": "VN",
				})
			},
		},
		{
			Name:   "updates an organization",
			Method: http.MethodPut,
			Path:   "/organizations/org-2",
			WantBody: map[string]interface{}{
				"name": "New Factory Limited",
			},
			Response: sight.Record{"organizationId": "org-2", "name": "New Factory Limited"},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Organizations().Update(ctx, "org-2", sight.Record{"name": "New Factory Limited"})
			},
		},
		{
			Name:     "deletes an organization",
			Method:   http.MethodDelete,
			Path:     "/organizations/org-2",
			Response: sight.Record{"deleted": true},
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Organizations().Delete(ctx, "org-2")
			},
		},
		{
			Name:       "surfaces duplicate names",
			Method:     http.MethodPost,
			Path:       "/organizations",
			StatusCode: http.StatusConflict,
			Response:   map[string]string{"errorCode": "CONFLICT", "message": "name already taken"},
			WantErr:    true,
			ErrMessage: "creating organization",
			Call: func(ctx context.Context, client *Client) (sight.Record, error) {
				return client.Organizations().Create(ctx, sight.Record{"name": "Acme Apparel"})
			},
		},
	})
}

func TestOrganizationsClient_ListAll(t *testing.T) {
	t.Parallel()

	var requests []string

	server := httptest.NewServer(PagedHandler(t, "/organizations", 60, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	records, err := client.Organizations().ListAll(context.Background(), nil, &sight.PaginationOptions{PageSize: 25})
	require.NoError(t, err)
	assert.Len(t, records, 60)
	assert.Len(t, requests, 3)
}

func TestOrganizationsClient_Stream(t *testing.T) {
	t.Parallel()

	var requests []string

	server := httptest.NewServer(PagedHandler(t, "/organizations", 18, &requests))
	defer server.Close()

	client := NewTestClient(server.URL)

	var count int

	for page := range client.Organizations().Stream(context.Background(), nil, nil) {
		require.NoError(t, page.Err)

		count += len(page.Items)
	}

	assert.Equal(t, 18, count)
}
