package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// CAPAsClient implements sight.CAPAsClient.
type CAPAsClient struct {
	httpClient *http.Client
}

// NewCAPAsClient creates a new CAPAs client.
func NewCAPAsClient(httpClient *http.Client) *CAPAsClient {
	return &CAPAsClient{
		httpClient: httpClient,
	}
}

// Get implements sight.CAPAsClient.Get.
//
// CAPA plans are keyed by the report they were raised against, so the
// identifier here is a report ID rather than a CAPA ID.
func (c *CAPAsClient) Get(ctx context.Context, reportID string) (sight.Record, error) {
	path := "/capas/" + reportID

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting capa: %w", err)
	}

	return decodeRecord(resp, "capa")
}
