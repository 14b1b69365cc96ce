package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMetadataCommand(t *testing.T) {
	t.Parallel()

	cmd := NewMetadataCommand()
	assert.Equal(t, "metadata", cmd.Use)
	assert.Equal(t, []string{"meta"}, cmd.Aliases)
	assert.Equal(t, "Manage namespaced metadata", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 5)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "create")
	assert.Contains(t, commandNames, "update")
	assert.Contains(t, commandNames, "delete")
}

func TestMetadataListCommand(t *testing.T) {
	t.Parallel()

	cmd := newMetadataListCommand()
	assert.Equal(t, "list NAMESPACE", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	for _, flag := range []string{
		"all", "offset", "limit", "order",
		"created-from", "created-to", "updated-from", "updated-to",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q", flag)
	}
}

func TestMetadataGetCommand(t *testing.T) {
	t.Parallel()

	cmd := newMetadataGetCommand()
	assert.Equal(t, "get NAMESPACE UID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}

func TestMetadataDeleteCommand(t *testing.T) {
	t.Parallel()

	cmd := newMetadataDeleteCommand()
	assert.Equal(t, "delete NAMESPACE UID", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}
