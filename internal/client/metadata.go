package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// MetadataClient implements sight.MetadataClient.
type MetadataClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewMetadataClient creates a new metadata client.
func NewMetadataClient(httpClient *http.Client, pagination *sight.PaginationOptions) *MetadataClient {
	return &MetadataClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.MetadataClient.List.
func (c *MetadataClient) List(ctx context.Context, namespace string, opts *sight.MetadataListOptions) (*sight.ListResponse[sight.Record], error) {
	path := "/metadata/" + namespace

	resp, err := c.httpClient.Get(ctx, path, opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s metadata: %w", namespace, err)
	}

	return decodeList(resp, "metadata list")
}

// Get implements sight.MetadataClient.Get.
func (c *MetadataClient) Get(ctx context.Context, namespace, uid string) (sight.Record, error) {
	path := "/metadata/" + namespace + "/" + uid

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s metadata: %w", namespace, err)
	}

	return decodeRecord(resp, "metadata item")
}

// Create implements sight.MetadataClient.Create.
func (c *MetadataClient) Create(ctx context.Context, namespace string, item sight.Record) (sight.Record, error) {
	path := "/metadata/" + namespace

	resp, err := c.httpClient.Post(ctx, path, item)
	if err != nil {
		return nil, fmt.Errorf("creating %s metadata: %w", namespace, err)
	}

	return decodeRecord(resp, "metadata item")
}

// Update implements sight.MetadataClient.Update.
func (c *MetadataClient) Update(ctx context.Context, namespace, uid string, item sight.Record) (sight.Record, error) {
	path := "/metadata/" + namespace + "/" + uid

	resp, err := c.httpClient.Put(ctx, path, item)
	if err != nil {
		return nil, fmt.Errorf("updating %s metadata: %w", namespace, err)
	}

	return decodeRecord(resp, "metadata item")
}

// Delete implements sight.MetadataClient.Delete.
func (c *MetadataClient) Delete(ctx context.Context, namespace, uid string) (sight.Record, error) {
	path := "/metadata/" + namespace + "/" + uid

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting %s metadata: %w", namespace, err)
	}

	return decodeRecord(resp, "metadata item")
}

// ListAll implements sight.MetadataClient.ListAll.
func (c *MetadataClient) ListAll(ctx context.Context, namespace string, opts *sight.MetadataListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(namespace, opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.MetadataClient.Stream.
func (c *MetadataClient) Stream(ctx context.Context, namespace string, opts *sight.MetadataListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(namespace, opts), withClientDefaults(c.pagination, pager))
}

func (c *MetadataClient) listPage(namespace string, opts *sight.MetadataListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.MetadataListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, namespace, &pageOpts)
	}
}
