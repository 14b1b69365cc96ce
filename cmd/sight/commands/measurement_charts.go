package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMeasurementChartsCommand creates the measurement charts command group.
// Charts are keyed by style rather than by their own IDs.
func NewMeasurementChartsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "measurement-charts",
		Aliases: []string{"charts", "chart"},
		Short:   "Manage measurement charts",
		Long:    "Get, create, and update the measurement chart of a style",
	}

	cmd.AddCommand(newMeasurementChartsGetCommand())
	cmd.AddCommand(newMeasurementChartsCreateCommand())
	cmd.AddCommand(newMeasurementChartsUpdateCommand())

	return cmd
}

func newMeasurementChartsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get STYLE_ID",
		Short: "Get a style's measurement chart",
		Long:  "Display the measurement chart attached to a style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasurementChartsGetCommand(cmd, args[0])
		},
	}
}

func runMeasurementChartsGetCommand(cmd *cobra.Command, styleID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	chart, err := client.MeasurementCharts().Get(context.Background(), styleID)
	if err != nil {
		return fmt.Errorf("failed to get measurement chart: %w", err)
	}

	return outputRecord(chart)
}

func newMeasurementChartsCreateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create STYLE_ID",
		Short: "Create a measurement chart",
		Long:  "Create the measurement chart for a style from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasurementChartsCreateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "measurement chart payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runMeasurementChartsCreateCommand(cmd *cobra.Command, styleID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	created, err := client.MeasurementCharts().Create(context.Background(), styleID, payload)
	if err != nil {
		return fmt.Errorf("failed to create measurement chart: %w", err)
	}

	return outputRecord(created)
}

func newMeasurementChartsUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update STYLE_ID",
		Short: "Update a measurement chart",
		Long:  "Update the measurement chart of a style from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasurementChartsUpdateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "measurement chart payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runMeasurementChartsUpdateCommand(cmd *cobra.Command, styleID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.MeasurementCharts().Update(context.Background(), styleID, payload)
	if err != nil {
		return fmt.Errorf("failed to update measurement chart: %w", err)
	}

	return outputRecord(updated)
}
