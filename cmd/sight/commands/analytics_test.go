package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAnalyticsCommand(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyticsCommand()
	assert.Equal(t, "analytics", cmd.Use)
	assert.Equal(t, "Query analytics data", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 2)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list-factory-risk-profiles")
	assert.Contains(t, commandNames, "get-factory-risk-profile")
}

func TestAnalyticsListFactoryRiskProfilesCommand(t *testing.T) {
	t.Parallel()

	cmd := newAnalyticsListFactoryRiskProfilesCommand()
	assert.Equal(t, "list-factory-risk-profiles", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	for _, flag := range []string{"all", "offset", "limit", "date-from", "date-to", "date-type"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q", flag)
	}
}

func TestAnalyticsGetFactoryRiskProfileCommand(t *testing.T) {
	t.Parallel()

	cmd := newAnalyticsGetFactoryRiskProfileCommand()
	assert.Equal(t, "get-factory-risk-profile FACTORY_ID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
	assert.NotNil(t, cmd.Flags().Lookup("client-id"))
}
