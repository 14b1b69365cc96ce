package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// TimeAndActionsClient implements sight.TimeAndActionsClient.
type TimeAndActionsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewTimeAndActionsClient creates a new time and actions client.
func NewTimeAndActionsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *TimeAndActionsClient {
	return &TimeAndActionsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.TimeAndActionsClient.List.
func (c *TimeAndActionsClient) List(ctx context.Context, opts *sight.TimeAndActionListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/time-and-actions", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing time and actions: %w", err)
	}

	return decodeList(resp, "time and actions list")
}

// Get implements sight.TimeAndActionsClient.Get.
func (c *TimeAndActionsClient) Get(ctx context.Context, timeAndActionID string) (sight.Record, error) {
	path := "/time-and-actions/" + timeAndActionID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting time and action: %w", err)
	}

	return decodeRecord(resp, "time and action")
}

// UpdateMilestones implements sight.TimeAndActionsClient.UpdateMilestones.
func (c *TimeAndActionsClient) UpdateMilestones(ctx context.Context, timeAndActionID string, milestones sight.Record) (sight.Record, error) {
	path := "/time-and-actions/" + timeAndActionID + "/milestones"

	resp, err := c.httpClient.Put(ctx, path, milestones)
	if err != nil {
		return nil, fmt.Errorf("updating time and action milestones: %w", err)
	}

	return decodeRecord(resp, "time and action milestones")
}

// GetProductionStatus implements sight.TimeAndActionsClient.GetProductionStatus.
func (c *TimeAndActionsClient) GetProductionStatus(ctx context.Context, timeAndActionID string, opts *sight.ProductionStatusOptions) (sight.Record, error) {
	path := "/time-and-actions/" + timeAndActionID + "/production-status"

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting production status: %w", err)
	}

	return decodeRecord(resp, "production status")
}

// UpdateProductionStatus implements sight.TimeAndActionsClient.UpdateProductionStatus.
func (c *TimeAndActionsClient) UpdateProductionStatus(ctx context.Context, timeAndActionID string, status sight.Record) (sight.Record, error) {
	path := "/time-and-actions/" + timeAndActionID + "/production-status"

	resp, err := c.httpClient.Put(ctx, path, status)
	if err != nil {
		return nil, fmt.Errorf("updating production status: %w", err)
	}

	return decodeRecord(resp, "production status")
}

// ListAll implements sight.TimeAndActionsClient.ListAll.
func (c *TimeAndActionsClient) ListAll(ctx context.Context, opts *sight.TimeAndActionListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.TimeAndActionsClient.Stream.
func (c *TimeAndActionsClient) Stream(ctx context.Context, opts *sight.TimeAndActionListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *TimeAndActionsClient) listPage(opts *sight.TimeAndActionListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.TimeAndActionListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
