package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// ProductsClient implements sight.ProductsClient.
type ProductsClient struct {
	httpClient *http.Client
}

// NewProductsClient creates a new products client.
func NewProductsClient(httpClient *http.Client) *ProductsClient {
	return &ProductsClient{
		httpClient: httpClient,
	}
}

// List implements sight.ProductsClient.List.
//
// The endpoint returns the whole catalog in one response and accepts no
// query parameters.
func (c *ProductsClient) List(ctx context.Context) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/products", nil)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return decodeList(resp, "products list")
}
