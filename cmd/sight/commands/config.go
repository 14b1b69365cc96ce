package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/inspectorio-io/sight-go/internal/auth"
	"github.com/inspectorio-io/sight-go/internal/client"
	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/inspectorio-io/sight-go/pkg/sightclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration.
type Config struct {
	// Multi-API configuration
	APIs       map[string]*APIConfig `json:"apis,omitempty"        yaml:"apis,omitempty"`
	CurrentAPI string                `json:"current_api,omitempty" yaml:"current_api,omitempty"`

	// Global settings
	Output  string `json:"output"   yaml:"output"`
	NoColor bool   `json:"no_color" yaml:"no_color"`
}

// APIConfig represents configuration for a single Sight deployment. The
// password is never stored; only the session token the service issued for
// it.
type APIConfig struct {
	Endpoint          string     `json:"endpoint"                    yaml:"endpoint"`
	Token             string     `json:"token,omitempty"             yaml:"token,omitempty"`
	TokenObtainedAt   *time.Time `json:"token_obtained_at,omitempty" yaml:"token_obtained_at,omitempty"`
	Username          string     `json:"username,omitempty"          yaml:"username,omitempty"`
	SkipSSLValidation bool       `json:"skip_ssl_validation"         yaml:"skip_ssl_validation"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage Sight CLI configuration including APIs and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, show only that API's configuration
			if apiFlag != "" {
				return showAPISpecificConfig(config, apiFlag)
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(config)
			case OutputFormatYAML:
				return StandardYAMLRenderer(config)
			default:
				return displayConfigTable(config)
			}
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "show configuration for specific API")

	return cmd
}

func newConfigSetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			// If --api flag is provided, set API-specific configuration
			if apiFlag != "" {
				return setAPISpecificConfig(config, apiFlag, key, value)
			}

			// Otherwise set global configuration
			return setGlobalConfig(config, key, value)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigUnsetCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value (global or API-specific)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			// If --api flag is provided, unset API-specific configuration
			if apiFlag != "" {
				return unsetAPISpecificConfig(config, apiFlag, key)
			}

			// Otherwise unset global configuration
			return unsetGlobalConfig(config, key)
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "target specific API for configuration")

	return cmd
}

func newConfigClearCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove all configuration settings (global or API-specific)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			// If --api flag is provided, clear only that API's configuration
			if apiFlag != "" {
				return clearAPISpecificConfig(config, apiFlag)
			}

			// Otherwise clear all configuration
			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				home, _ := os.UserHomeDir()
				configFile = filepath.Join(home, ".sight", "config.yml")
			}

			err := os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult("Cleared", "all configuration", "", "")
		},
	}

	cmd.Flags().StringVar(&apiFlag, "api", "", "clear configuration for specific API only")

	return cmd
}

func loadConfig() *Config {
	config := &Config{
		// Global settings
		Output:  viper.GetString("output"),
		NoColor: viper.GetBool("no_color"),

		// Initialize APIs map
		APIs: make(map[string]*APIConfig),
	}

	loadAPIConfigurations(config)

	return config
}

// loadAPIConfigurations loads the per-API configuration from viper.
func loadAPIConfigurations(config *Config) {
	config.CurrentAPI = viper.GetString("current_api")

	apisRaw := viper.GetStringMap("apis")
	if apisRaw == nil {
		return
	}

	for name, apiRaw := range apisRaw {
		if apiMap, ok := apiRaw.(map[string]interface{}); ok {
			config.APIs[name] = parseAPIConfig(apiMap)
		}
	}
}

// parseAPIConfig parses API configuration from a map.
func parseAPIConfig(apiMap map[string]interface{}) *APIConfig {
	apiConfig := &APIConfig{}

	if endpoint, ok := apiMap["endpoint"].(string); ok {
		apiConfig.Endpoint = endpoint
	}

	if token, ok := apiMap["token"].(string); ok {
		apiConfig.Token = token
	}

	if username, ok := apiMap["username"].(string); ok {
		apiConfig.Username = username
	}

	if skipSSL, ok := apiMap["skip_ssl_validation"].(bool); ok {
		apiConfig.SkipSSLValidation = skipSSL
	}

	if obtainedAtStr, ok := apiMap["token_obtained_at"].(string); ok && obtainedAtStr != "" {
		obtainedAt, err := time.Parse(time.RFC3339, obtainedAtStr)
		if err == nil {
			apiConfig.TokenObtainedAt = &obtainedAt
		}
	}

	return apiConfig
}

func saveConfigStruct(config *Config) error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get user home directory: %w", err)
		}

		configDir := filepath.Join(home, ".sight")

		err = os.MkdirAll(configDir, constants.ConfigDirPerm)
		if err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		configFile = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// extractDomainFromEndpoint extracts the domain portion from an endpoint
// URL, for use as the API's name when none is given.
func extractDomainFromEndpoint(endpoint string) string {
	// Remove protocol if present
	domain := endpoint
	if strings.HasPrefix(domain, "https://") {
		domain = strings.TrimPrefix(domain, "https://")
	} else if strings.HasPrefix(domain, "http://") {
		domain = strings.TrimPrefix(domain, "http://")
	}

	// Remove path if present
	if idx := strings.Index(domain, "/"); idx != -1 {
		domain = domain[:idx]
	}

	// Remove port if present
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}

	return domain
}

// getCurrentAPIConfig returns the configuration for the currently targeted
// API.
func getCurrentAPIConfig() (*APIConfig, error) {
	config := loadConfig()

	if config.CurrentAPI == "" {
		if len(config.APIs) == 0 {
			return nil, fmt.Errorf("%w, use 'sight login' to add one", ErrNoAPIsConfigured)
		}
		// If no current API set but APIs exist, use the first one
		for name := range config.APIs {
			config.CurrentAPI = name

			break
		}
	}

	apiConfig, exists := config.APIs[config.CurrentAPI]
	if !exists {
		return nil, fmt.Errorf("%w in configuration: '%s'", ErrCurrentAPINotFound, config.CurrentAPI)
	}

	return apiConfig, nil
}

// getAPIConfigByFlag returns API config based on command line flag or
// current API.
func getAPIConfigByFlag(apiFlag string) (*APIConfig, error) {
	config := loadConfig()

	// If --api flag is provided, use that specific API
	if apiFlag != "" {
		// Check if the flag is a saved API name
		if apiConfig, exists := config.APIs[apiFlag]; exists {
			return apiConfig, nil
		}

		// Otherwise look for it by resolved endpoint
		resolvedEndpoint, err := ResolveAPIEndpoint(apiFlag)
		if err != nil {
			return nil, err
		}

		for _, apiConfig := range config.APIs {
			if apiConfig.Endpoint == resolvedEndpoint {
				return apiConfig, nil
			}
		}

		return nil, fmt.Errorf("%w in configuration, use 'sight apis list' to see available APIs: '%s'", ErrAPINotFound, apiFlag)
	}

	// Otherwise use current API
	return getCurrentAPIConfig()
}

// ResolveAPIEndpoint resolves a saved API name or a Sight environment name,
// or returns the input when it is already an endpoint URL.
func ResolveAPIEndpoint(apiNameOrEndpoint string) (string, error) {
	if apiNameOrEndpoint == "" {
		return "", ErrAPIEndpointRequired
	}

	config := loadConfig()

	// Check if it's a saved name in the APIs map
	if apiConfig, exists := config.APIs[apiNameOrEndpoint]; exists {
		return apiConfig.Endpoint, nil
	}

	// Check if it's one of the hosted environments
	endpoint, err := sight.BaseURLForEnvironment(sight.Environment(apiNameOrEndpoint))
	if err == nil {
		return endpoint, nil
	}

	// If not found, treat as direct endpoint URL
	return apiNameOrEndpoint, nil
}

// CreateClientWithAPI creates a Sight client using the specified API or the
// current one. Session tokens obtained during the command are persisted so
// the next invocation reuses them.
func CreateClientWithAPI(apiFlag string) (sight.Client, error) {
	// An explicit token bypasses the stored session entirely
	if token := viper.GetString("token"); token != "" {
		return createStaticTokenClient(apiFlag, token)
	}

	apiConfig, apiName, err := prepareClientConfig(apiFlag)
	if err != nil {
		return nil, err
	}

	tokenManager := createTokenManager(apiConfig, apiName)
	sightConfig := buildSightConfig(apiConfig)

	return createFinalClient(sightConfig, tokenManager)
}

func prepareClientConfig(apiFlag string) (*APIConfig, string, error) {
	apiConfig, err := getAPIConfigByFlag(apiFlag)
	if err != nil {
		return nil, "", err
	}

	if apiConfig.Endpoint == "" {
		return nil, "", fmt.Errorf("%w, use 'sight login' first", ErrNoAPIEndpointConfigured)
	}

	apiName, err := findAPIName(apiConfig)
	if err != nil {
		return nil, "", err
	}

	return apiConfig, apiName, nil
}

func findAPIName(apiConfig *APIConfig) (string, error) {
	config := loadConfig()

	for name, cfg := range config.APIs {
		if cfg.Endpoint == apiConfig.Endpoint {
			return name, nil
		}
	}

	return "", ErrAPINotFound
}

// createTokenManager builds the token manager for a stored session. The
// stored token seeds the session; when SIGHT_PASSWORD is set alongside the
// stored username, a rejected token triggers a fresh login instead of
// failing the command.
func createTokenManager(apiConfig *APIConfig, apiName string) auth.TokenManager {
	if apiConfig.Token == "" && apiConfig.Username == "" {
		return nil
	}

	loginManager := auth.NewLoginTokenManager(&auth.LoginConfig{
		LoginURL: strings.TrimSuffix(apiConfig.Endpoint, "/") + "/auth/login",
		Username: apiConfig.Username,
		Password: viper.GetString("password"),
	})

	return auth.NewPersistentTokenManager(loginManager, NewConfigPersister(), apiName, apiConfig.Token)
}

func buildSightConfig(apiConfig *APIConfig) *sight.Config {
	return &sight.Config{
		BaseURL:       apiConfig.Endpoint,
		SkipTLSVerify: apiConfig.SkipSSLValidation || viper.GetBool("skip-ssl-validation"),
	}
}

func createFinalClient(sightConfig *sight.Config, tokenManager auth.TokenManager) (sight.Client, error) {
	if tokenManager == nil {
		return nil, fmt.Errorf("%w, use 'sight login' first", ErrNotAuthenticated)
	}

	sightClient, err := client.NewWithTokenManager(sightConfig, tokenManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return sightClient, nil
}

// createStaticTokenClient builds a client around an explicitly supplied
// token. Nothing is read from or written to the stored session.
func createStaticTokenClient(apiFlag, token string) (sight.Client, error) {
	endpoint := apiFlag
	if endpoint == "" {
		endpoint = viper.GetString("api")
	}

	if endpoint == "" {
		apiConfig, err := getCurrentAPIConfig()
		if err != nil {
			return nil, err
		}

		endpoint = apiConfig.Endpoint
	}

	resolvedEndpoint, err := ResolveAPIEndpoint(endpoint)
	if err != nil {
		return nil, err
	}

	sightClient, err := sightclient.New(context.Background(), &sight.Config{
		BaseURL:       resolvedEndpoint,
		AccessToken:   token,
		SkipTLSVerify: viper.GetBool("skip-ssl-validation"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return sightClient, nil
}

// setGlobalConfig sets a global configuration value.
func setGlobalConfig(config *Config, key, value string) error {
	switch key {
	case "output":
		config.Output = value
	case "no_color":
		config.NoColor = parseBoolValue(value)
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set global", key, value, "")
}

// setAPISpecificConfig sets configuration for a specific API.
func setAPISpecificConfig(config *Config, apiName, key, value string) error {
	apiConfig, err := validateAPIExists(config, apiName)
	if err != nil {
		return err
	}

	switch key {
	case "endpoint":
		apiConfig.Endpoint = value
	case "username":
		apiConfig.Username = value
	case "skip_ssl_validation":
		apiConfig.SkipSSLValidation = parseBoolValue(value)
	case "token", "token_obtained_at":
		return fmt.Errorf("%w. Use 'sight login' instead", ErrTokenCannotBeSet)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	config.APIs[apiName] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Set", key, value, apiName)
}

// validateAPIExists validates that an API exists in the configuration.
func validateAPIExists(config *Config, apiName string) (*APIConfig, error) {
	apiConfig, exists := config.APIs[apiName]
	if !exists {
		return nil, fmt.Errorf("%w. Use 'sight apis list' to see available APIs: '%s'", ErrAPINotFound, apiName)
	}

	return apiConfig, nil
}

// parseBoolValue parses a boolean value from string.
func parseBoolValue(value string) bool {
	return value == constants.BooleanTrue || value == "1"
}

// unsetGlobalConfig unsets a global configuration value.
func unsetGlobalConfig(config *Config, key string) error {
	switch key {
	case "output":
		config.Output = "table"
	case "no_color":
		config.NoColor = false
	default:
		return fmt.Errorf("%w: %s. Use --api flag for API-specific settings", ErrUnknownConfigKey, key)
	}

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset global", key, "", "")
}

// unsetAPISpecificConfig unsets configuration for a specific API.
func unsetAPISpecificConfig(config *Config, apiName, key string) error {
	apiConfig, err := validateAPIExists(config, apiName)
	if err != nil {
		return err
	}

	switch key {
	case "username":
		apiConfig.Username = ""
	case "skip_ssl_validation":
		apiConfig.SkipSSLValidation = false
	// Token fields are cleared by logout, not by config edits
	case "token", "token_obtained_at":
		return fmt.Errorf("%w. Use 'sight logout' instead", ErrTokenCannotBeSet)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	config.APIs[apiName] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Unset", key, "", apiName)
}

// showAPISpecificConfig shows configuration for a specific API.
func showAPISpecificConfig(config *Config, apiName string) error {
	apiConfig, err := validateAPIExists(config, apiName)
	if err != nil {
		return err
	}

	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(apiConfig)
	case OutputFormatYAML:
		return StandardYAMLRenderer(apiConfig)
	default:
		return displayAPISpecificConfigTable(config, apiName, apiConfig)
	}
}

// clearAPISpecificConfig clears configuration for a specific API, keeping
// only the endpoint.
func clearAPISpecificConfig(config *Config, apiName string) error {
	apiConfig, err := validateAPIExists(config, apiName)
	if err != nil {
		return err
	}

	apiConfig.Token = ""
	apiConfig.TokenObtainedAt = nil
	apiConfig.Username = ""
	apiConfig.SkipSSLValidation = false

	config.APIs[apiName] = apiConfig

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult("Cleared configuration for API", apiName, "", "")
}

// displayConfigTable displays configuration in a table format.
func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Output", config.Output)
	_ = table.Append("No Color", strconv.FormatBool(config.NoColor))

	if config.CurrentAPI != "" {
		_ = table.Append("Current API", config.CurrentAPI)
	}

	_, _ = os.Stdout.WriteString("Global Configuration:\n")

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return displayAPIsConfigTable(config)
}

func displayAPIsConfigTable(config *Config) error {
	if len(config.APIs) == 0 {
		_, _ = os.Stdout.WriteString("\nNo APIs configured. Use 'sight login' to add one.\n")

		return nil
	}

	_, _ = os.Stdout.WriteString("\nConfigured APIs:\n")

	apiTable := tablewriter.NewWriter(os.Stdout)
	apiTable.Header("Name", "Endpoint", "Username", "Authenticated", "Current")

	for name, apiConfig := range config.APIs {
		_ = apiTable.Append(
			name,
			apiConfig.Endpoint,
			formatConfigValue(apiConfig.Username),
			formatAuthenticated(apiConfig),
			formatCurrentIndicator(name == config.CurrentAPI),
		)
	}

	err := apiTable.Render()
	if err != nil {
		return fmt.Errorf("failed to render API config table: %w", err)
	}

	return nil
}

func displayAPISpecificConfigTable(config *Config, apiName string, apiConfig *APIConfig) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")

	_ = table.Append("Name", apiName)
	_ = table.Append("Endpoint", apiConfig.Endpoint)
	_ = table.Append("Username", formatConfigValue(apiConfig.Username))
	_ = table.Append("Authenticated", formatAuthenticated(apiConfig))
	_ = table.Append("Skip SSL Validation", strconv.FormatBool(apiConfig.SkipSSLValidation))
	_ = table.Append("Current", formatCurrentIndicator(apiName == config.CurrentAPI))

	_, _ = fmt.Fprintf(os.Stdout, "Configuration for API '%s':\n", apiName)

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return emptyCell
	}

	return value
}

// formatAuthenticated masks the token; the table only reports whether one
// is stored and when it was obtained.
func formatAuthenticated(apiConfig *APIConfig) string {
	if apiConfig.Token == "" {
		return emptyCell
	}

	if apiConfig.TokenObtainedAt != nil {
		return "yes (since " + apiConfig.TokenObtainedAt.Format("2006-01-02 15:04") + ")"
	}

	return "yes"
}

func formatCurrentIndicator(isCurrent bool) string {
	if isCurrent {
		return "✓"
	}

	return ""
}

func outputConfigUpdateResult(action, key, value, apiName string) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON, OutputFormatYAML:
		result := map[string]string{
			"action": action,
			"key":    key,
		}

		if value != "" {
			result["value"] = value
		}

		if apiName != "" {
			result["api"] = apiName
		}

		if output == OutputFormatJSON {
			return StandardJSONRenderer(result)
		}

		return StandardYAMLRenderer(result)
	default:
		if apiName != "" {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s for API '%s'\n", action, key, apiName)
		} else if value != "" {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s to '%s'\n", action, key, value)
		} else {
			_, _ = fmt.Fprintf(os.Stdout, "%s %s\n", action, key)
		}

		return nil
	}
}
