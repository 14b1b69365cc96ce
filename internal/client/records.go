package client

import (
	"encoding/json"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/http"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// decodeRecord decodes a single-object response. The service publishes no
// response schemas, so objects pass through as decoded JSON. Some writes
// answer with an empty body, which decodes to an empty record rather than
// an error.
func decodeRecord(resp *http.Response, what string) (sight.Record, error) {
	if len(resp.Body) == 0 {
		return sight.Record{}, nil
	}

	var record sight.Record

	err := json.Unmarshal(resp.Body, &record)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return record, nil
}

// decodeList decodes a collection envelope. An empty body is an empty page.
func decodeList(resp *http.Response, what string) (*sight.ListResponse[sight.Record], error) {
	list := &sight.ListResponse[sight.Record]{Data: []sight.Record{}}

	if len(resp.Body) == 0 {
		return list, nil
	}

	err := json.Unmarshal(resp.Body, list)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", what, err)
	}

	return list, nil
}

// withClientDefaults fills pagination options the caller left unset with
// the client-level defaults from the config.
func withClientDefaults(defaults, pager *sight.PaginationOptions) *sight.PaginationOptions {
	merged := sight.PaginationOptions{}
	if pager != nil {
		merged = *pager
	}

	if merged.MaxConcurrency == 0 && defaults != nil {
		merged.MaxConcurrency = defaults.MaxConcurrency
	}

	return &merged
}
