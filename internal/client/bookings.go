package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// BookingsClient implements sight.BookingsClient.
type BookingsClient struct {
	httpClient *http.Client
	pagination *sight.PaginationOptions
}

// NewBookingsClient creates a new bookings client.
func NewBookingsClient(httpClient *http.Client, pagination *sight.PaginationOptions) *BookingsClient {
	return &BookingsClient{
		httpClient: httpClient,
		pagination: pagination,
	}
}

// List implements sight.BookingsClient.List.
func (c *BookingsClient) List(ctx context.Context, opts *sight.BookingListOptions) (*sight.ListResponse[sight.Record], error) {
	resp, err := c.httpClient.Get(ctx, "/bookings", opts.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	return decodeList(resp, "bookings list")
}

// Get implements sight.BookingsClient.Get.
func (c *BookingsClient) Get(ctx context.Context, bookingID string) (sight.Record, error) {
	path := "/bookings/" + bookingID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}

	return decodeRecord(resp, "booking")
}

// ListAll implements sight.BookingsClient.ListAll.
func (c *BookingsClient) ListAll(ctx context.Context, opts *sight.BookingListOptions, pager *sight.PaginationOptions) ([]sight.Record, error) {
	return sight.FetchAllPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// Stream implements sight.BookingsClient.Stream.
func (c *BookingsClient) Stream(ctx context.Context, opts *sight.BookingListOptions, pager *sight.PaginationOptions) <-chan sight.PageResult[sight.Record] {
	return sight.StreamPages(ctx, c.listPage(opts), withClientDefaults(c.pagination, pager))
}

// listPage adapts List to the shared page fetcher, so the blocking and
// streaming aggregators issue identical requests.
func (c *BookingsClient) listPage(opts *sight.BookingListOptions) sight.PageFunc[sight.Record] {
	return func(ctx context.Context, offset, limit int) (*sight.ListResponse[sight.Record], error) {
		pageOpts := sight.BookingListOptions{}
		if opts != nil {
			pageOpts = *opts
		}

		pageOpts.Offset = offset
		pageOpts.Limit = limit

		return c.List(ctx, &pageOpts)
	}
}
