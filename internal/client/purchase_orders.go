package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// PurchaseOrdersClient implements sight.PurchaseOrdersClient.
type PurchaseOrdersClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewPurchaseOrdersClient creates a new purchase orders client.
func NewPurchaseOrdersClient(httpClient *http.Client, pagination *sight.PaginationOptions) *PurchaseOrdersClient {
	return &PurchaseOrdersClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.PurchaseOrdersClient.List.
func (c *PurchaseOrdersClient) List(ctx context.Context, opts *sight.PurchaseOrderListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/purchase-orders", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing purchase orders: %w", err)
	}

	return decodeList(resp, "purchase orders list")
}

// Get implements sight.PurchaseOrdersClient.Get.
func (c *PurchaseOrdersClient) Get(ctx context.Context, poNumber string) (sight.Record, error) {
	path := "/purchase-orders/" + poNumber

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting purchase order: %w", err)
	}

	return decodeRecord(resp, "purchase order")
}

// Create implements sight.PurchaseOrdersClient.Create.
func (c *PurchaseOrdersClient) Create(ctx context.Context, purchaseOrder sight.Record) (sight.Record, error) {
	resp, err := c.httpClient.Post(ctx, "/purchase-orders", purchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("creating purchase order: %w", err)
	}

	return decodeRecord(resp, "purchase order")
}

// Update implements sight.PurchaseOrdersClient.Update.
func (c *PurchaseOrdersClient) Update(ctx context.Context, poNumber string, purchaseOrder sight.Record) (sight.Record, error) {
	path := "/purchase-orders/" + poNumber

	resp, err := c.httpClient.Put(ctx, path, purchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("updating purchase order: %w", err)
	}

	return decodeRecord(resp, "purchase order")
}

// Delete implements sight.PurchaseOrdersClient.Delete.
func (c *PurchaseOrdersClient) Delete(ctx context.Context, poNumber string) (sight.Record, error) {
	path := "/purchase-orders/" + poNumber

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting purchase order: %w", err)
	}

	return decodeRecord(resp, "purchase order")
}

// ExecuteAction implements sight.PurchaseOrdersClient.ExecuteAction.
func (c *PurchaseOrdersClient) ExecuteAction(ctx context.Context, poNumber, action string) (sight.Record, error) {
	path := "/purchase-orders/" + poNumber + "/actions/" + action

	resp, err := c.httpClient.Post(ctx, path, sight.Record{"action": action})
	if err != nil {
		return nil, fmt.Errorf("executing purchase order action %s: %w", action, err)
	}

	return decodeRecord(resp, "purchase order action")
}

// ListAll implements sight.PurchaseOrdersClient.ListAll.
func (c *PurchaseOrdersClient) ListAll(ctx context.Context, opts *sight.PurchaseOrderListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.PurchaseOrdersClient.Stream.
func (c *PurchaseOrdersClient) Stream(ctx context.Context, opts *sight.PurchaseOrderListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

func (c *PurchaseOrdersClient) listPage(opts *sight.PurchaseOrderListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.PurchaseOrderListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
