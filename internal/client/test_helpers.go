package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// Test static errors.
var (
	ErrTestSomeError = errors.New("some error")
)

// NewTestClient creates a client wired to the given base URL without
// authentication, which is what most resource tests want.
func NewTestClient(baseURL string) *Client {
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		pagination: &sight.PaginationOptions{},
	}

	client.initializeResourceClients()

	return client
}

// WriteJSON answers with the given status and JSON body.
func WriteJSON(t *testing.T, writer http.ResponseWriter, status int, body interface{}) {
	t.Helper()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)

	err := json.NewEncoder(writer).Encode(body)
	require.NoError(t, err)
}

// WriteAPIError answers with the service's error envelope.
func WriteAPIError(t *testing.T, writer http.ResponseWriter, status int, code, message string) {
	t.Helper()

	WriteJSON(t, writer, status, map[string]string{
		"errorCode": code,
		"message":   message,
	})
}

// RecordPage builds a collection envelope holding the given records.
func RecordPage(total int, records ...sight.Record) sight.ListResponse[sight.Record] {
	if records == nil {
		records = []sight.Record{}
	}

	return sight.ListResponse[sight.Record]{Data: records, Total: total}
}

// NumberedRecords builds n records with sequential IDs starting at from,
// for paging tests.
func NumberedRecords(from, n int) []sight.Record {
	records := make([]sight.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, sight.Record{"id": strconv.Itoa(from + i)})
	}

	return records
}

// PagedHandler serves a collection of total records in offset/limit slices
// and records the query string of every request it saw, for fetch-all and
// streaming tests. Page fetches arrive concurrently, hence the lock.
func PagedHandler(t *testing.T, wantPath string, total int, requests *[]string) http.HandlerFunc {
	t.Helper()

	var mu sync.Mutex

	return func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, wantPath, request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)

		offset, err := strconv.Atoi(request.URL.Query().Get("offset"))
		require.NoError(t, err)
		limit, err := strconv.Atoi(request.URL.Query().Get("limit"))
		require.NoError(t, err)

		mu.Lock()
		*requests = append(*requests, request.URL.RawQuery)
		mu.Unlock()

		count := total - offset
		if count < 0 {
			count = 0
		}

		if count > limit {
			count = limit
		}

		WriteJSON(t, writer, http.StatusOK, RecordPage(total, NumberedRecords(offset, count)...))
	}
}

// TestRecordOperation describes one single-record call against a stub
// endpoint.
type TestRecordOperation struct {
	Name       string
	Method     string
	Path       string
	StatusCode int
	Response   interface{}
	WantBody   map[string]interface{}
	WantErr    bool
	ErrMessage string
	Call       func(context.Context, *Client) (sight.Record, error)
}

// RunRecordTests runs single-record operations against a stub server,
// checking the request line and, when WantBody is set, the request body.
func RunRecordTests(t *testing.T, tests []TestRecordOperation) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.Method, request.Method)
				assert.Equal(t, testCase.Path, request.URL.Path)

				if testCase.WantBody != nil {
					var body map[string]interface{}

					err := json.NewDecoder(request.Body).Decode(&body)
					require.NoError(t, err)
					assert.Equal(t, testCase.WantBody, body)
				}

				status := testCase.StatusCode
				if status == 0 {
					status = http.StatusOK
				}

				if testCase.Response == nil {
					writer.WriteHeader(status)

					return
				}

				WriteJSON(t, writer, status, testCase.Response)
			}))
			defer server.Close()

			client := NewTestClient(server.URL)

			record, err := testCase.Call(context.Background(), client)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}

				assert.Nil(t, record)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, record)
		})
	}
}
