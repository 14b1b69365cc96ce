package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// LabTestReportsClient implements sight.LabTestReportsClient.
type LabTestReportsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewLabTestReportsClient creates a new lab test reports client.
func NewLabTestReportsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *LabTestReportsClient {
	return &LabTestReportsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.LabTestReportsClient.List.
func (c *LabTestReportsClient) List(ctx context.Context, opts *sight.LabTestReportListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/lab-test-reports", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing lab test reports: %w", err)
	}

	return decodeList(resp, "lab test reports list")
}

// Get implements sight.LabTestReportsClient.Get.
func (c *LabTestReportsClient) Get(ctx context.Context, reportID string) (sight.Record, error) {
	path := "/lab-test-reports/" + reportID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting lab test report: %w", err)
	}

	return decodeRecord(resp, "lab test report")
}

// Create implements sight.LabTestReportsClient.Create.
func (c *LabTestReportsClient) Create(ctx context.Context, report sight.Record) (sight.Record, error) {
	resp, err := c.httpClient.Post(ctx, "/lab-test-reports", report)
	if err != nil {
		return nil, fmt.Errorf("creating lab test report: %w", err)
	}

	return decodeRecord(resp, "lab test report")
}

// Update implements sight.LabTestReportsClient.Update.
func (c *LabTestReportsClient) Update(ctx context.Context, reportID string, report sight.Record) (sight.Record, error) {
	path := "/lab-test-reports/" + reportID

	resp, err := c.httpClient.Put(ctx, path, report)
	if err != nil {
		return nil, fmt.Errorf("updating lab test report: %w", err)
	}

	return decodeRecord(resp, "lab test report")
}

// Delete implements sight.LabTestReportsClient.Delete.
func (c *LabTestReportsClient) Delete(ctx context.Context, reportID string) (sight.Record, error) {
	path := "/lab-test-reports/" + reportID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting lab test report: %w", err)
	}

	return decodeRecord(resp, "lab test report")
}

// ListAll implements sight.LabTestReportsClient.ListAll.
func (c *LabTestReportsClient) ListAll(ctx context.Context, opts *sight.LabTestReportListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.LabTestReportsClient.Stream.
func (c *LabTestReportsClient) Stream(ctx context.Context, opts *sight.LabTestReportListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *LabTestReportsClient) listPage(opts *sight.LabTestReportListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.LabTestReportListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
