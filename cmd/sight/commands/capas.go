package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCAPAsCommand creates the corrective action plans command group.
func NewCAPAsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "capas",
		Aliases: []string{"capa"},
		Short:   "Manage corrective action plans",
		Long:    "Inspect corrective action plans attached to inspection reports",
	}

	cmd.AddCommand(newCAPAsGetCommand())

	return cmd
}

func newCAPAsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REPORT_ID",
		Short: "Get a corrective action plan",
		Long:  "Display the corrective action plan attached to an inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCAPAsGetCommand(cmd, args[0])
		},
	}
}

func runCAPAsGetCommand(cmd *cobra.Command, reportID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	capa, err := client.CAPAs().Get(context.Background(), reportID)
	if err != nil {
		return fmt.Errorf("failed to get corrective action plan: %w", err)
	}

	return outputRecord(capa)
}
