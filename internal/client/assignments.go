package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// AssignmentsClient implements sight.AssignmentsClient.
type AssignmentsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewAssignmentsClient creates a new assignments client.
func NewAssignmentsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *AssignmentsClient {
	return &AssignmentsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.AssignmentsClient.List.
func (c *AssignmentsClient) List(ctx context.Context, opts *sight.AssignmentListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/assignments", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}

	return decodeList(resp, "assignments list")
}

// Get implements sight.AssignmentsClient.Get.
func (c *AssignmentsClient) Get(ctx context.Context, assignmentID string) (sight.Record, error) {
	path := "/assignments/" + assignmentID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting assignment: %w", err)
	}

	return decodeRecord(resp, "assignment")
}

// ListAll implements sight.AssignmentsClient.ListAll.
func (c *AssignmentsClient) ListAll(ctx context.Context, opts *sight.AssignmentListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.AssignmentsClient.Stream.
func (c *AssignmentsClient) Stream(ctx context.Context, opts *sight.AssignmentListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *AssignmentsClient) listPage(opts *sight.AssignmentListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.AssignmentListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
