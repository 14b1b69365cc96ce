//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/inspectorio-io/sight-go/pkg/sightclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	Endpoint  string
	Username  string
	Password  string
	Token     string
	SightPath string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		Endpoint:  os.Getenv("SIGHT_ENDPOINT"),
		Username:  os.Getenv("SIGHT_USERNAME"),
		Password:  os.Getenv("SIGHT_PASSWORD"),
		Token:     os.Getenv("SIGHT_TOKEN"),
		SightPath: getSightPath(),
		Verbose:   os.Getenv("SIGHT_VERBOSE") == "true",
	}
}

// getSightPath determines the path to the sight binary
func getSightPath() string {
	if path := os.Getenv("SIGHT_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../sight",
		"./sight",
		"../sight",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "sight" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.Endpoint == "" {
		t.Skip("SIGHT_ENDPOINT not set, skipping integration test")
	}

	if config.Token == "" && (config.Username == "" || config.Password == "") {
		t.Skip("SIGHT_TOKEN or SIGHT_USERNAME/SIGHT_PASSWORD not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips test if the CLI binary cannot be found
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	if strings.ContainsRune(config.SightPath, os.PathSeparator) {
		if _, err := os.Stat(config.SightPath); os.IsNotExist(err) {
			t.Skipf("sight binary not found at %s, skipping integration test", config.SightPath)
		}

		return
	}

	if _, err := exec.LookPath(config.SightPath); err != nil {
		t.Skip("sight binary not found in PATH, skipping integration test")
	}
}

// NewSDKClient builds a Sight client from the test configuration
func (config *TestConfig) NewSDKClient(ctx context.Context) (sight.Client, error) {
	client, err := sightclient.New(ctx, &sight.Config{
		BaseURL:     config.Endpoint,
		Username:    config.Username,
		Password:    config.Password,
		AccessToken: config.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create test client: %w", err)
	}

	return client, nil
}

// CommandRunner provides utilities for running sight commands. Each runner
// gets its own config file so tests cannot interfere with the developer's
// ~/.sight configuration or with each other.
type CommandRunner struct {
	config     *TestConfig
	t          *testing.T
	configFile string
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config:     config,
		t:          t,
		configFile: t.TempDir() + "/config.yml",
	}
}

// Run executes a sight command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a sight command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.SightPath, args...)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.SightPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// Login authenticates the runner's config file against the test endpoint
func (runner *CommandRunner) Login() error {
	_, stderr, err := runner.Run("login",
		"--api", runner.config.Endpoint,
		"--username", runner.config.Username,
		"--password", runner.config.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %s", stderr)
	}

	return nil
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	var args []string

	switch resourceType {
	case "purchase-order":
		args = []string{"purchase-orders", "delete", name, "--force"}
	case "lab-test-report":
		args = []string{"lab-test-reports", "delete", name, "--force"}
	case "organization":
		args = []string{"organizations", "delete", name, "--force"}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)

		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}

	t.Errorf("Output does not appear to be YAML: %s", output)
}
