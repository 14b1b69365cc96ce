package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// AnalyticsClient implements sight.AnalyticsClient.
type AnalyticsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewAnalyticsClient creates a new analytics client.
func NewAnalyticsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *AnalyticsClient {
	return &AnalyticsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// ListFactoryRiskProfiles implements sight.AnalyticsClient.ListFactoryRiskProfiles.
func (c *AnalyticsClient) ListFactoryRiskProfiles(ctx context.Context, opts *sight.FactoryRiskProfileListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/analytics/factory-risk-profile", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing factory risk profiles: %w", err)
	}

	return decodeList(resp, "factory risk profiles list")
}

// GetFactoryRiskProfile implements sight.AnalyticsClient.GetFactoryRiskProfile.
func (c *AnalyticsClient) GetFactoryRiskProfile(ctx context.Context, factoryID string, opts *sight.FactoryRiskProfileOptions) (sight.Record, error) {
	path := "/analytics/factory-risk-profile/" + factoryID

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("getting factory risk profile: %w", err)
	}

	return decodeRecord(resp, "factory risk profile")
}

// ListAllFactoryRiskProfiles implements sight.AnalyticsClient.ListAllFactoryRiskProfiles.
func (c *AnalyticsClient) ListAllFactoryRiskProfiles(ctx context.Context, opts *sight.FactoryRiskProfileListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// StreamFactoryRiskProfiles implements sight.AnalyticsClient.StreamFactoryRiskProfiles.
func (c *AnalyticsClient) StreamFactoryRiskProfiles(ctx context.Context, opts *sight.FactoryRiskProfileListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *AnalyticsClient) listPage(opts *sight.FactoryRiskProfileListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.FactoryRiskProfileListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.ListFactoryRiskProfiles(ctx, &pageOpts)
	}
}
