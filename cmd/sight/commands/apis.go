package commands

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewAPIsCommand creates the apis command group.
func NewAPIsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "apis",
		Aliases: []string{"api"},
		Short:   "Manage Sight API endpoints",
		Long:    "Add, list, delete, and target Inspectorio Sight API endpoints",
	}

	cmd.AddCommand(newAPIsAddCommand())
	cmd.AddCommand(newAPIsListCommand())
	cmd.AddCommand(newAPIsDeleteCommand())
	cmd.AddCommand(newAPIsTargetCommand())

	return cmd
}

func newAPIsAddCommand() *cobra.Command {
	var skipSSLValidation bool

	cmd := &cobra.Command{
		Use:   "add NAME ENDPOINT",
		Short: "Add a new Sight API endpoint",
		Long: "Add a new Sight API endpoint to the configuration. ENDPOINT may be " +
			"a URL or an environment name (production, preproduction, staging).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			endpoint := args[1]

			// Environment names resolve to their hosted endpoints
			resolvedEndpoint, err := ResolveAPIEndpoint(endpoint)
			if err != nil {
				return err
			}

			normalizedEndpoint, err := normalizeEndpoint(resolvedEndpoint)
			if err != nil {
				return fmt.Errorf("invalid endpoint: %w", err)
			}

			// Load current configuration
			config := loadConfig()

			if config.APIs == nil {
				config.APIs = make(map[string]*APIConfig)
			}

			if _, exists := config.APIs[name]; exists {
				return fmt.Errorf("%w: '%s'", ErrAPIAlreadyExists, name)
			}

			config.APIs[name] = &APIConfig{
				Endpoint:          normalizedEndpoint,
				SkipSSLValidation: skipSSLValidation,
			}

			// If this is the first API, make it current
			if config.CurrentAPI == "" {
				config.CurrentAPI = name
				fmt.Printf("API '%s' (%s) added and set as current target\n", name, normalizedEndpoint)
			} else {
				fmt.Printf("API '%s' (%s) added\n", name, normalizedEndpoint)
			}

			err = saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSSLValidation, "skip-ssl-validation", false, "Skip SSL certificate validation")

	return cmd
}

func newAPIsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all Sight API endpoints",
		Long:  "Display all configured Inspectorio Sight API endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if len(config.APIs) == 0 {
				fmt.Println("No APIs configured. Use 'sight login' or 'sight apis add' to add one.")

				return nil
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				type APIInfo struct {
					Name              string `json:"name"`
					Endpoint          string `json:"endpoint"`
					Username          string `json:"username,omitempty"`
					SkipSSLValidation bool   `json:"skip_ssl_validation"`
					Authenticated     bool   `json:"authenticated"`
					Current           bool   `json:"current"`
				}

				apis := make([]APIInfo, 0, len(config.APIs))
				for name, apiConfig := range config.APIs {
					apis = append(apis, APIInfo{
						Name:              name,
						Endpoint:          apiConfig.Endpoint,
						Username:          apiConfig.Username,
						SkipSSLValidation: apiConfig.SkipSSLValidation,
						Authenticated:     apiConfig.Token != "",
						Current:           name == config.CurrentAPI,
					})
				}

				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")

				return encoder.Encode(apis)

			case OutputFormatYAML:
				encoder := yaml.NewEncoder(os.Stdout)

				return encoder.Encode(config.APIs)

			default:
				fmt.Println("Configured APIs:")

				for name, apiConfig := range config.APIs {
					current := ""
					if name == config.CurrentAPI {
						current = " (current)"
					}

					fmt.Printf("  %s%s\n", name, current)
					fmt.Printf("    Endpoint: %s\n", apiConfig.Endpoint)

					if apiConfig.Username != "" {
						fmt.Printf("    User:     %s\n", apiConfig.Username)
					}

					if apiConfig.Token != "" {
						fmt.Printf("    Authenticated: yes\n")
					}

					if apiConfig.SkipSSLValidation {
						fmt.Printf("    Skip SSL: %v\n", apiConfig.SkipSSLValidation)
					}

					fmt.Println()
				}
			}

			return nil
		},
	}
}

func newAPIsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a Sight API endpoint",
		Long:  "Remove a Sight API endpoint from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			// Load current configuration
			config := loadConfig()

			if _, exists := config.APIs[name]; !exists {
				return fmt.Errorf("%w: '%s'", ErrAPINotFound, name)
			}

			// Don't allow deleting the last API if it's current
			if len(config.APIs) == 1 && config.CurrentAPI == name {
				return ErrCannotDeleteOnlyAPI
			}

			delete(config.APIs, name)

			// If this was the current API, switch to another one
			if config.CurrentAPI == name {
				if len(config.APIs) > 0 {
					for newName := range config.APIs {
						config.CurrentAPI = newName

						break
					}

					fmt.Printf("API '%s' deleted. Current API switched to '%s'\n", name, config.CurrentAPI)
				} else {
					config.CurrentAPI = ""
					fmt.Printf("API '%s' deleted. No APIs remaining.\n", name)
				}
			} else {
				fmt.Printf("API '%s' deleted\n", name)
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			return nil
		},
	}
}

func newAPIsTargetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "target NAME",
		Short: "Target a Sight API endpoint",
		Long:  "Set a Sight API endpoint as the current target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			// Load current configuration
			config := loadConfig()

			if _, exists := config.APIs[name]; !exists {
				return fmt.Errorf("%w, use 'sight apis list' to see available APIs: '%s'", ErrAPINotFound, name)
			}

			config.CurrentAPI = name

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("API '%s' is now the current target\n", name)

			return nil
		},
	}
}

// normalizeEndpoint validates and normalizes a Sight API endpoint URL. The
// path is kept because Sight endpoints carry the API prefix (for example
// /api/v1).
func normalizeEndpoint(endpoint string) (string, error) {
	// Add https:// if no protocol is specified
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	// Parse URL to validate
	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Host == "" {
		return "", ErrNoHostInURL
	}

	normalizedURL := parsedURL.Scheme + "://" + parsedURL.Host + strings.TrimSuffix(parsedURL.Path, "/")

	return normalizedURL, nil
}
