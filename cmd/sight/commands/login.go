package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/inspectorio-io/sight-go/pkg/sightclient"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		username    string
		password    string
		skipSSL     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Inspectorio Sight",
		Long: "Authenticate with an Inspectorio Sight API endpoint. The password " +
			"is exchanged for a session token; only the token is stored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Get API endpoint
			originalInput := apiEndpoint
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
				originalInput = apiEndpoint
			}

			// If still no API endpoint, try to use current API from config
			if apiEndpoint == "" {
				config := loadConfig()
				if config.CurrentAPI != "" {
					if _, exists := config.APIs[config.CurrentAPI]; exists {
						apiEndpoint = config.CurrentAPI // Use the short name, it will be resolved below
						originalInput = config.CurrentAPI
					}
				}
			}

			if apiEndpoint == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("API endpoint (or environment name): ")
				apiEndpoint, _ = reader.ReadString('\n')
				apiEndpoint = strings.TrimSpace(apiEndpoint)
				originalInput = apiEndpoint
			}

			if apiEndpoint == "" {
				return ErrAPIEndpointRequired
			}

			// Resolve short names and environment names to endpoints
			resolvedEndpoint, err := ResolveAPIEndpoint(apiEndpoint)
			if err != nil {
				return err
			}

			apiEndpoint = resolvedEndpoint
			skipSSL = skipSSL || viper.GetBool("skip-ssl-validation")

			// Collect credentials
			if username == "" {
				username = viper.GetString("username")
			}

			if username == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Username: ")
				username, _ = reader.ReadString('\n')
				username = strings.TrimSpace(username)
			}

			if password == "" {
				password = viper.GetString("password")
			}

			if password == "" {
				fmt.Print("Password: ")

				bytePassword, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}

				password = string(bytePassword)

				fmt.Println()
			}

			// Create client; construction performs the login exchange
			ctx := context.Background()

			client, err := sightclient.New(ctx, &sight.Config{
				BaseURL:       apiEndpoint,
				Username:      username,
				Password:      password,
				SkipTLSVerify: skipSSL,
			})
			if err != nil {
				return fmt.Errorf("failed to log in: %w", err)
			}

			token, err := client.AccessToken(ctx)
			if err != nil {
				return fmt.Errorf("failed to get session token: %w", err)
			}

			normalizedEndpoint, err := normalizeEndpoint(apiEndpoint)
			if err != nil {
				return fmt.Errorf("invalid API endpoint: %w", err)
			}

			configKey := determineConfigKey(originalInput, normalizedEndpoint)

			// Load current configuration
			configStruct := loadConfig()

			if configStruct.APIs == nil {
				configStruct.APIs = make(map[string]*APIConfig)
			}

			apiConfig, exists := configStruct.APIs[configKey]
			if !exists {
				apiConfig = &APIConfig{
					Endpoint: normalizedEndpoint,
				}
				configStruct.APIs[configKey] = apiConfig
			}

			// Store the session token and username, never the password
			apiConfig.Username = username
			apiConfig.SkipSSLValidation = skipSSL
			apiConfig.Token = token
			now := time.Now()
			apiConfig.TokenObtainedAt = &now

			// Set as current API if this is the first one or no current API is set
			if configStruct.CurrentAPI == "" || len(configStruct.APIs) == 1 {
				configStruct.CurrentAPI = configKey
			}

			err = saveConfigStruct(configStruct)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			isFirstAPI := len(configStruct.APIs) == 1

			fmt.Printf("Successfully logged in to %s\n", normalizedEndpoint)

			if isFirstAPI {
				fmt.Printf("API '%s' set as current target\n", configKey)
			}

			// List organizations the account can see
			orgs, err := client.Organizations().List(ctx, nil)
			if err == nil && len(orgs.Data) > 0 {
				fmt.Println("\nAvailable organizations:")

				for _, org := range orgs.Data {
					if name, ok := org["name"].(string); ok {
						fmt.Printf("  - %s\n", name)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiEndpoint, "api", "a", "", "API endpoint URL, environment name, or short name from config")
	cmd.Flags().StringVarP(&username, "username", "u", "", "username for authentication")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for authentication (or set SIGHT_PASSWORD)")
	cmd.Flags().BoolVar(&skipSSL, "skip-ssl-validation", false, "skip SSL certificate validation")

	return cmd
}

// determineConfigKey picks the name an API is stored under. Existing short
// names and environment names are preserved; direct URLs are keyed by their
// domain.
func determineConfigKey(originalInput, normalizedEndpoint string) string {
	currentConfig := loadConfig()
	if _, exists := currentConfig.APIs[originalInput]; exists {
		return originalInput
	}

	if _, err := sight.BaseURLForEnvironment(sight.Environment(originalInput)); err == nil {
		return originalInput
	}

	return extractDomainFromEndpoint(normalizedEndpoint)
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	var apiFlag string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Logout from Inspectorio Sight",
		Long:  "Discard the stored session token for the current or specified API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			apiName := apiFlag
			if apiName == "" {
				apiName = config.CurrentAPI
			}

			if apiName == "" {
				return fmt.Errorf("%w, nothing to log out from", ErrNoAPIsConfigured)
			}

			apiConfig, exists := config.APIs[apiName]
			if !exists {
				return fmt.Errorf("%w: '%s'", ErrAPINotFound, apiName)
			}

			apiConfig.Token = ""
			apiConfig.TokenObtainedAt = nil

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Printf("Successfully logged out of '%s'\n", apiName)

			return nil
		},
	}

	cmd.Flags().StringVarP(&apiFlag, "api", "a", "", "API name to log out of (default: current API)")

	return cmd
}
