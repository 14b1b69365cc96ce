package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// BrandsClient implements sight.BrandsClient.
type BrandsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewBrandsClient creates a new brands client.
func NewBrandsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *BrandsClient {
	return &BrandsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.BrandsClient.List.
func (c *BrandsClient) List(ctx context.Context, opts *sight.BrandListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/brands", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing brands: %w", err)
	}

	return decodeList(resp, "brands list")
}

// Get implements sight.BrandsClient.Get.
func (c *BrandsClient) Get(ctx context.Context, brandID string) (sight.Record, error) {
	path := "/brands/" + brandID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting brand: %w", err)
	}

	return decodeRecord(resp, "brand")
}

// Update implements sight.BrandsClient.Update.
func (c *BrandsClient) Update(ctx context.Context, brandID string, brand sight.Record) (sight.Record, error) {
	path := "/brands/" + brandID

	resp, err := c.httpClient.Put(ctx, path, brand)
	if err != nil {
		return nil, fmt.Errorf("updating brand: %w", err)
	}

	return decodeRecord(resp, "brand")
}

// Delete implements sight.BrandsClient.Delete.
func (c *BrandsClient) Delete(ctx context.Context, brandID string) (sight.Record, error) {
	path := "/brands/" + brandID

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting brand: %w", err)
	}

	return decodeRecord(resp, "brand")
}

// ListAll implements sight.BrandsClient.ListAll.
func (c *BrandsClient) ListAll(ctx context.Context, opts *sight.BrandListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.BrandsClient.Stream.
func (c *BrandsClient) Stream(ctx context.Context, opts *sight.BrandListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *BrandsClient) listPage(opts *sight.BrandListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.BrandListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
