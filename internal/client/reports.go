package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// ReportsClient implements sight.ReportsClient.
type ReportsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewReportsClient creates a new reports client.
func NewReportsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *ReportsClient {
	return &ReportsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.ReportsClient.List.
func (c *ReportsClient) List(ctx context.Context, opts *sight.ReportListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/reports", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	return decodeList(resp, "reports list")
}

// Get implements sight.ReportsClient.Get.
func (c *ReportsClient) Get(ctx context.Context, reportID string) (sight.Record, error) {
	path := "/reports/" + reportID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}

	return decodeRecord(resp, "report")
}

// ListAll implements sight.ReportsClient.ListAll.
func (c *ReportsClient) ListAll(ctx context.Context, opts *sight.ReportListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.ReportsClient.Stream.
func (c *ReportsClient) Stream(ctx context.Context, opts *sight.ReportListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *ReportsClient) listPage(opts *sight.ReportListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.ReportListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
