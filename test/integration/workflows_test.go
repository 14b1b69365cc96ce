//go:build integration
// +build integration

package integration

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLIWorkflow_LoginAndListResources tests the login journey a new user
// walks through: authenticate, inspect the saved target, list resources,
// log out, and see authenticated commands fail afterwards.
func TestCLIWorkflow_LoginAndListResources(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	if config.Username == "" {
		t.Skip("SIGHT_USERNAME not set, skipping login workflow test")
	}

	runner := NewCommandRunner(config, t)

	// 1. Log in against the test endpoint
	require.NoError(t, runner.Login())

	// 2. The target shows up in the config
	stdout, stderr, err := runner.Run("config", "show")
	require.NoError(t, err, "Failed to show config: %s", stderr)
	assert.Contains(t, stdout, config.Endpoint)

	// 3. List organizations with the stored session
	stdout, stderr, err = runner.Run("organizations", "list")
	require.NoError(t, err, "Failed to list organizations: %s", stderr)
	assert.Contains(t, stdout, "Name")

	// 4. List bookings
	stdout, stderr, err = runner.Run("bookings", "list", "--limit", "5")
	require.NoError(t, err, "Failed to list bookings: %s", stderr)

	// 5. Log out drops the session
	stdout, stderr, err = runner.Run("logout")
	require.NoError(t, err, "Failed to log out: %s", stderr)
	assert.Contains(t, stdout, "Successfully logged out")

	// 6. Authenticated commands now fail
	_, stderr, err = runner.Run("bookings", "list")
	assert.Error(t, err, "Expected bookings list to fail after logout")
	assert.Contains(t, stderr, "not authenticated")
}

// TestCLIWorkflow_OutputFormats tests all output formats work correctly
func TestCLIWorkflow_OutputFormats(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	if config.Username == "" {
		t.Skip("SIGHT_USERNAME not set, skipping output format test")
	}

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	formats := []string{"table", "json", "yaml"}

	for _, format := range formats {
		t.Run(fmt.Sprintf("organizations_%s_format", format), func(t *testing.T) {
			stdout, stderr, err := runner.Run("organizations", "list",
				"--limit", "5", "--output", format)
			require.NoError(t, err, "Failed to list organizations with %s format: %s", format, stderr)

			switch format {
			case "json":
				AssertJSONOutput(t, stdout)
			case "yaml":
				AssertYAMLOutput(t, stdout)
			case "table":
				assert.Contains(t, stdout, "Name")
			}
		})
	}

	// Version works without authentication and in every format
	for _, format := range formats {
		t.Run(fmt.Sprintf("version_%s_format", format), func(t *testing.T) {
			stdout, stderr, err := runner.Run("version", "--output", format)
			require.NoError(t, err, "Failed to get version with %s format: %s", format, stderr)
			assert.NotEmpty(t, stdout)
		})
	}
}

// TestCLIWorkflow_APIManagement tests managing multiple named API targets
func TestCLIWorkflow_APIManagement(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	// 1. Add the test endpoint under a name
	stdout, stderr, err := runner.Run("apis", "add", "primary", config.Endpoint)
	require.NoError(t, err, "Failed to add API: %s", stderr)
	assert.Contains(t, stdout, "primary")

	// 2. Add a second target and switch between them
	stdout, stderr, err = runner.Run("apis", "add", "secondary", "https://sight.secondary.example/api/v1")
	require.NoError(t, err, "Failed to add second API: %s", stderr)

	stdout, stderr, err = runner.Run("apis", "target", "secondary")
	require.NoError(t, err, "Failed to target API: %s", stderr)

	stdout, stderr, err = runner.Run("apis", "list")
	require.NoError(t, err, "Failed to list APIs: %s", stderr)
	assert.Contains(t, stdout, "primary")
	assert.Contains(t, stdout, "secondary")

	// 3. Adding a duplicate name fails
	_, stderr, err = runner.Run("apis", "add", "primary", config.Endpoint)
	assert.Error(t, err, "Expected duplicate API add to fail")

	// 4. Delete the second target; the remaining one becomes current
	stdout, stderr, err = runner.Run("apis", "delete", "secondary")
	require.NoError(t, err, "Failed to delete API: %s", stderr)

	stdout, stderr, err = runner.Run("apis", "list")
	require.NoError(t, err, "Failed to list APIs after delete: %s", stderr)
	assert.NotContains(t, stdout, "secondary")
}

// TestCLIWorkflow_ErrorScenarios tests error handling in real scenarios
func TestCLIWorkflow_ErrorScenarios(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	// Add a target but do not authenticate
	_, stderr, err := runner.Run("apis", "add", "unauth", config.Endpoint)
	require.NoError(t, err, "Failed to add API: %s", stderr)

	testCases := []struct {
		name        string
		args        []string
		expectError bool
		errorText   string
	}{
		{
			name:        "list bookings without auth",
			args:        []string{"bookings", "list"},
			expectError: true,
			errorText:   "not authenticated",
		},
		{
			name:        "get report without auth",
			args:        []string{"reports", "get", "some-report-id"},
			expectError: true,
			errorText:   "not authenticated",
		},
		{
			name:        "unknown purchase order action",
			args:        []string{"purchase-orders", "action", "PO-123", "approve"},
			expectError: true,
			errorText:   "action must be",
		},
		{
			name:        "unknown config key",
			args:        []string{"config", "set", "no-such-key", "value"},
			expectError: true,
			errorText:   "unknown configuration key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, err := runner.Run(tc.args...)
			if tc.expectError {
				assert.Error(t, err, "Expected error for: %s", tc.name)
				if tc.errorText != "" {
					assert.Contains(t, stderr, tc.errorText, "Expected specific error text")
				}
			} else {
				assert.NoError(t, err, "Unexpected error for: %s\nStderr: %s", tc.name, stderr)
			}
		})
	}
}

// TestCLIWorkflow_PaginationAndFiltering tests list commands with paging and
// filter flags against live data
func TestCLIWorkflow_PaginationAndFiltering(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	if config.Username == "" {
		t.Skip("SIGHT_USERNAME not set, skipping pagination test")
	}

	runner := NewCommandRunner(config, t)
	require.NoError(t, runner.Login())

	// Bookings with a page size
	stdout, stderr, err := runner.Run("bookings", "list", "--limit", "5")
	require.NoError(t, err, "Failed to list bookings with pagination: %s", stderr)

	// Bookings filtered by status
	stdout, stderr, err = runner.Run("bookings", "list", "--status", "NEW", "--limit", "5")
	require.NoError(t, err, "Failed to list bookings with filter: %s", stderr)

	// Reports filtered by status
	stdout, stderr, err = runner.Run("reports", "list", "--status", "completed", "--limit", "5")
	require.NoError(t, err, "Failed to list reports with filter: %s", stderr)

	// Purchase orders across every page
	stdout, stderr, err = runner.Run("purchase-orders", "list", "--all")
	require.NoError(t, err, "Failed to list all purchase orders: %s", stderr)
	assert.NotContains(t, stdout, "Use --all to fetch every page")

	// Products are a single unpaged listing
	stdout, stderr, err = runner.Run("products", "list")
	require.NoError(t, err, "Failed to list products: %s", stderr)
}

// TestCLIWorkflow_ConfigManagement tests config set/unset/show round trips
func TestCLIWorkflow_ConfigManagement(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)
	config.SkipIfMissingBinary(t)

	runner := NewCommandRunner(config, t)

	_, stderr, err := runner.Run("apis", "add", "cfg-test", config.Endpoint)
	require.NoError(t, err, "Failed to add API: %s", stderr)

	// Set and read back a global key
	stdout, stderr, err := runner.Run("config", "set", "output", "json")
	require.NoError(t, err, "Failed to set output: %s", stderr)

	stdout, stderr, err = runner.Run("config", "show", "--output", "json")
	require.NoError(t, err, "Failed to show config: %s", stderr)
	AssertJSONOutput(t, stdout)
	assert.Contains(t, stdout, "json")

	// Token fields are managed by login, not by config set
	_, stderr, err = runner.Run("config", "set", "token", "sneaky-token")
	assert.Error(t, err, "Expected setting token via config to fail")
	assert.Contains(t, stderr, "login")

	// Unset restores the default
	_, stderr, err = runner.Run("config", "unset", "output")
	require.NoError(t, err, "Failed to unset output: %s", stderr)
}
