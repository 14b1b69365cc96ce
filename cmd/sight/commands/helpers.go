package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// YAML formatting.
	defaultYAMLIndent = 2

	// Values without data render as a dash in tables.
	emptyCell = "-"
)

// Common static errors used throughout the commands package.
var (
	ErrAPIEndpointRequired        = errors.New("API endpoint is required")
	ErrNotAuthenticated           = errors.New("not authenticated")
	ErrAPINotFound                = errors.New("API not found")
	ErrAPIAlreadyExists           = errors.New("API already exists")
	ErrNoAPIsConfigured           = errors.New("no APIs configured")
	ErrCurrentAPINotFound         = errors.New("current API not found")
	ErrNoAPIEndpointConfigured    = errors.New("no API endpoint configured")
	ErrCannotDeleteOnlyAPI        = errors.New("cannot delete the only configured API")
	ErrNoHostInURL                = errors.New("no host specified in URL")
	ErrUnknownConfigKey           = errors.New("unknown configuration key")
	ErrTokenCannotBeSet           = errors.New("token fields cannot be managed via config")
	ErrPayloadRequired            = errors.New("request payload is required (use --data or --from-file)")
	ErrPayloadConflict            = errors.New("only one of --data and --from-file may be used")
	ErrPayloadNotObject           = errors.New("failed to parse payload as a JSON or YAML object")
	ErrUnknownPurchaseOrderAction = errors.New("action must be 'update' or 'delete'")
)

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// outputRecords renders a record collection in the configured output format.
// Table output shows the given columns; JSON and YAML emit the raw records.
func outputRecords(records []sight.Record, columns []string, total int, allPages bool) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(records)
	case OutputFormatYAML:
		return StandardYAMLRenderer(records)
	default:
		return renderRecordsTable(records, columns, total, allPages)
	}
}

func renderRecordsTable(records []sight.Record, columns []string, total int, allPages bool) error {
	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No results found\n")

		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)

	headers := make([]any, len(columns))
	for i, column := range columns {
		headers[i] = columnTitle(column)
	}

	table.Header(headers...)

	for _, record := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = formatRecordValue(record[column])
		}

		_ = table.Append(row)
	}

	_ = table.Render()

	if !allPages && total > len(records) {
		_, _ = fmt.Fprintf(os.Stdout, "\nShowing %d of %d results. Use --all to fetch every page.\n", len(records), total)
	}

	return nil
}

// outputRecord renders a single record in the configured output format.
func outputRecord(record sight.Record) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(record)
	case OutputFormatYAML:
		return StandardYAMLRenderer(record)
	default:
		return renderRecordDetailsTable(record)
	}
}

func renderRecordDetailsTable(record sight.Record) error {
	if len(record) == 0 {
		_, _ = os.Stdout.WriteString("No data\n")

		return nil
	}

	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	for _, key := range keys {
		_ = table.Append(columnTitle(key), formatRecordValue(record[key]))
	}

	_ = table.Render()

	return nil
}

// columnInitialisms maps key fragments that render as initialisms instead of
// title-cased words.
var columnInitialisms = map[string]string{
	"id":   "ID",
	"uid":  "UID",
	"po":   "PO",
	"opo":  "OPO",
	"capa": "CAPA",
	"url":  "URL",
}

// columnTitle turns a snake_case record key into a table heading, e.g.
// "po_number" becomes "PO Number".
func columnTitle(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if initialism, ok := columnInitialisms[part]; ok {
			parts[i] = initialism

			continue
		}

		if part == "" {
			continue
		}

		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}

	return strings.Join(parts, " ")
}

// formatRecordValue renders one record field for table output. Scalars print
// directly; nested objects and arrays collapse to compact JSON.
func formatRecordValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return emptyCell
	case string:
		if typed == "" {
			return emptyCell
		}

		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return fmt.Sprintf("%v", typed)
		}

		return string(encoded)
	}
}

// readRecordPayload parses a request body from an inline --data value or a
// --from-file path. Files may hold JSON or YAML.
func readRecordPayload(data, fromFile string) (sight.Record, error) {
	if data != "" && fromFile != "" {
		return nil, ErrPayloadConflict
	}

	var raw []byte

	switch {
	case data != "":
		raw = []byte(data)
	case fromFile != "":
		content, err := os.ReadFile(filepath.Clean(fromFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}

		raw = content
	default:
		return nil, ErrPayloadRequired
	}

	return parseRecord(raw)
}

func parseRecord(raw []byte) (sight.Record, error) {
	var record sight.Record

	// Try to parse as JSON first
	err := json.Unmarshal(raw, &record)
	if err == nil {
		return record, nil
	}

	// Try to parse as YAML
	err = yaml.Unmarshal(raw, &record)
	if err == nil && record != nil {
		return record, nil
	}

	return nil, ErrPayloadNotObject
}

// confirmDeletion prompts before a destructive operation unless force is
// set. It returns true when the operation should proceed.
func confirmDeletion(entityType, name string, force bool) bool {
	if force {
		return true
	}

	_, _ = fmt.Fprintf(os.Stdout, "Really delete %s '%s'? (y/N): ", entityType, name)

	var response string

	_, _ = fmt.Scanln(&response)

	return response == "y" || response == "Y"
}
