// Package sightclient provides the main entry point for creating Inspectorio Sight API clients
package sightclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/inspectorio-io/sight-go/internal/client"
	"github.com/inspectorio-io/sight-go/pkg/sight"
)

// New creates a new Sight API client from the configuration.
//
// When the config carries credentials and no pre-issued token, the login
// exchange happens here: the returned client already holds a session token
// and bad credentials fail construction instead of the first request.
func New(ctx context.Context, config *sight.Config) (sight.Client, error) {
	if config == nil {
		return nil, sight.ErrConfigRequired
	}

	if config.BaseURL != "" {
		config.BaseURL = normalizeBaseURL(config.BaseURL)
	}

	// Use the internal client implementation
	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	if needsLogin(config) {
		err = cli.Login(ctx, config.Username, config.Password)
		if err != nil {
			return nil, err
		}
	}

	return cli, nil
}

// needsLogin checks if the config calls for a construction-time login. A
// pre-issued token suppresses it; that token is used until the service
// rejects it.
func needsLogin(config *sight.Config) bool {
	return config.AccessToken == "" && config.Username != "" && config.Password != ""
}

// normalizeBaseURL trims a trailing slash and defaults the scheme to HTTPS.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithEnvironment creates a new unauthenticated client for one of the
// known deployments. Only the login endpoint will accept its requests.
func NewWithEnvironment(ctx context.Context, env sight.Environment) (sight.Client, error) {
	return New(ctx, &sight.Config{
		Environment: env,
	})
}

// NewWithToken creates a new client that authenticates with a pre-issued
// API token.
func NewWithToken(ctx context.Context, env sight.Environment, token string) (sight.Client, error) {
	return New(ctx, &sight.Config{
		Environment: env,
		AccessToken: token,
	})
}

// NewWithCredentials creates a new client that logs in with the given
// account before returning.
func NewWithCredentials(ctx context.Context, env sight.Environment, username, password string) (sight.Client, error) {
	return New(ctx, &sight.Config{
		Environment: env,
		Username:    username,
		Password:    password,
	})
}

// NewWithBaseURL creates a new unauthenticated client against an explicit
// base URL, mainly for private deployments and tests.
func NewWithBaseURL(ctx context.Context, baseURL string) (sight.Client, error) {
	return New(ctx, &sight.Config{
		BaseURL: baseURL,
	})
}
