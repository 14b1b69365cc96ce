package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBookingsCommand(t *testing.T) {
	t.Parallel()

	cmd := NewBookingsCommand()
	assert.Equal(t, "bookings", cmd.Use)
	assert.Equal(t, []string{"booking"}, cmd.Aliases)
	assert.Equal(t, "Manage inspection bookings", cmd.Short)

	subcommands := cmd.Commands()
	assert.Len(t, subcommands, 2)

	var commandNames []string
	for _, subcmd := range subcommands {
		commandNames = append(commandNames, subcmd.Name())
	}

	assert.Contains(t, commandNames, "list")
	assert.Contains(t, commandNames, "get")
}

func TestBookingsListCommand(t *testing.T) {
	t.Parallel()

	cmd := newBookingsListCommand()
	assert.Equal(t, "list", cmd.Use)
	assert.Equal(t, "List bookings", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	for _, flag := range []string{
		"all", "offset", "limit", "order",
		"status", "to-organization",
		"created-from", "created-to", "updated-from", "updated-to",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q", flag)
	}
}

func TestBookingsGetCommand(t *testing.T) {
	t.Parallel()

	cmd := newBookingsGetCommand()
	assert.Equal(t, "get BOOKING_ID", cmd.Use)
	assert.Equal(t, "Get booking details", cmd.Short)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)
}
