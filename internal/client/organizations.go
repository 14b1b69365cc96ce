package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// OrganizationsClient implements sight.OrganizationsClient.
type OrganizationsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewOrganizationsClient creates a new organizations client.
func NewOrganizationsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *OrganizationsClient {
	return &OrganizationsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.OrganizationsClient.List.
func (c *OrganizationsClient) List(ctx context.Context, opts *sight.OrganizationListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/organizations", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	return decodeList(resp, "organizations list")
}

// Get implements sight.OrganizationsClient.Get.
func (c *OrganizationsClient) Get(ctx context.Context, organizationID string) (sight.Record, error) {
	path := "/organizations/" + organizationID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting organization: %w", err)
	}

	return decodeRecord(resp, "organization")
}

// Create implements sight.OrganizationsClient.Create.
func (c *OrganizationsClient) Create(ctx context.Context, organization sight.Record) (sight.Record, error) {
	resp, err := c.httpClient.Post(ctx, "/organizations", organization)
	if err != nil {
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	return decodeRecord(resp, "organization")
}

// Update implements sight.OrganizationsClient.Update.
func (c *OrganizationsClient) Update(ctx context.Context, organizationID string, organization sight.Record) (sight.Record, error) {
	path := "/organizations/" + organizationID

	resp, err := c.httpClient.Put(ctx, path, organization)
	if err != nil {
		return nil, fmt.Errorf("updating organization: %w", err)
	}

	return decodeRecord(resp, "organization")
}

// Delete implements sight.OrganizationsClient.Delete.
func (c *OrganizationsClient) Delete(ctx context.Context, organizationID string) (sight.Record, error) {
	path := "/organizations/" + organizationID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting organization: %w", err)
	}

	return decodeRecord(resp, "organization")
}

// ListAll implements sight.OrganizationsClient.ListAll.
func (c *OrganizationsClient) ListAll(ctx context.Context, opts *sight.OrganizationListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.OrganizationsClient.Stream.
func (c *OrganizationsClient) Stream(ctx context.Context, opts *sight.OrganizationListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *OrganizationsClient) listPage(opts *sight.OrganizationListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.OrganizationListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
