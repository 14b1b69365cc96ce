package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// MeasurementChartsClient implements sight.MeasurementChartsClient.
type MeasurementChartsClient struct {
	httpClient *http.Client
}

// NewMeasurementChartsClient creates a new measurement charts client.
func NewMeasurementChartsClient(httpClient *http.Client) *MeasurementChartsClient {
	return &MeasurementChartsClient{
		httpClient: httpClient,
	}
}

// Get implements sight.MeasurementChartsClient.Get.
func (c *MeasurementChartsClient) Get(ctx context.Context, styleID string) (sight.Record, error) {
	path := "/measurement-charts/" + styleID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting measurement chart: %w", err)
	}

	return decodeRecord(resp, "measurement chart")
}

// Create implements sight.MeasurementChartsClient.Create.
func (c *MeasurementChartsClient) Create(ctx context.Context, styleID string, chart sight.Record) (sight.Record, error) {
	path := "/measurement-charts/" + styleID

	resp, err := c.httpClient.Post(ctx, path, chart)
	if err != nil {
		return nil, fmt.Errorf("creating measurement chart: %w", err)
	}

	return decodeRecord(resp, "measurement chart")
}

// Update implements sight.MeasurementChartsClient.Update.
func (c *MeasurementChartsClient) Update(ctx context.Context, styleID string, chart sight.Record) (sight.Record, error) {
	path := "/measurement-charts/" + styleID

	resp, err := c.httpClient.Put(ctx, path, chart)
	if err != nil {
		return nil, fmt.Errorf("updating measurement chart: %w", err)
	}

	return decodeRecord(resp, "measurement chart")
}
