package client

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// FilesClient implements sight.FilesClient.
type FilesClient struct {
	httpClient *http.Client
}

// NewFilesClient creates a new files client.
func NewFilesClient(httpClient *http.Client) *FilesClient {
	return &FilesClient{
		httpClient: httpClient,
	}
}

// CreateUploadSession implements sight.FilesClient.CreateUploadSession.
func (c *FilesClient) CreateUploadSession(ctx context.Context, session sight.Record) (sight.Record, error) {
	resp, err := c.httpClient.Post(ctx, "/file-upload-session", session)
	if err != nil {
		return nil, fmt.Errorf("creating file upload session: %w", err)
	}

	return decodeRecord(resp, "file upload session")
}
