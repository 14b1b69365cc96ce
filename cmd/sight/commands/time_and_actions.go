package commands

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// timeAndActionColumns are the table columns for time and action listings.
var timeAndActionColumns = []string{"id", "po_number", "status", "created_date"}

// NewTimeAndActionsCommand creates the time and actions command group.
func NewTimeAndActionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "time-and-actions",
		Aliases: []string{"tna", "time-and-action"},
		Short:   "Manage time and action calendars",
		Long:    "List time and action calendars, manage their milestones and production status",
	}

	cmd.AddCommand(newTimeAndActionsListCommand())
	cmd.AddCommand(newTimeAndActionsGetCommand())
	cmd.AddCommand(newTimeAndActionsUpdateMilestonesCommand())
	cmd.AddCommand(newTimeAndActionsProductionStatusCommand())
	cmd.AddCommand(newTimeAndActionsUpdateProductionStatusCommand())

	return cmd
}

func newTimeAndActionsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.TimeAndActionListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time and action calendars",
		Long:  "List time and action calendars visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeAndActionsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order")
	cmd.Flags().StringVar(&opts.PONumber, "po-number", "", "filter by purchase order number")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by calendar status")
	cmd.Flags().StringVar(&opts.CreatedFrom, "created-from", "", "creation date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.CreatedTo, "created-to", "", "creation date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedFrom, "updated-from", "", "update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedTo, "updated-to", "", "update date upper bound (ISO 8601)")

	return cmd
}

func runTimeAndActionsListCommand(cmd *cobra.Command, opts *sight.TimeAndActionListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.TimeAndActions().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list time and actions: %w", err)
		}

		return outputRecords(records, timeAndActionColumns, len(records), true)
	}

	calendars, err := client.TimeAndActions().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list time and actions: %w", err)
	}

	return outputRecords(calendars.Data, timeAndActionColumns, calendars.Total, false)
}

func newTimeAndActionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get TNA_ID",
		Short: "Get time and action calendar details",
		Long:  "Display detailed information about a specific time and action calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeAndActionsGetCommand(cmd, args[0])
		},
	}
}

func runTimeAndActionsGetCommand(cmd *cobra.Command, timeAndActionID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	calendar, err := client.TimeAndActions().Get(context.Background(), timeAndActionID)
	if err != nil {
		return fmt.Errorf("failed to get time and action: %w", err)
	}

	return outputRecord(calendar)
}

func newTimeAndActionsUpdateMilestonesCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update-milestones TNA_ID",
		Short: "Update calendar milestones",
		Long:  "Replace the milestone plan of a time and action calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeAndActionsUpdateMilestonesCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "milestone payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runTimeAndActionsUpdateMilestonesCommand(cmd *cobra.Command, timeAndActionID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.TimeAndActions().UpdateMilestones(context.Background(), timeAndActionID, payload)
	if err != nil {
		return fmt.Errorf("failed to update milestones: %w", err)
	}

	return outputRecord(updated)
}

func newTimeAndActionsProductionStatusCommand() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "production-status TNA_ID",
		Short: "Get production status",
		Long:  "Fetch a calendar's production status at the purchase order or item level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeAndActionsProductionStatusCommand(cmd, args[0], level)
		},
	}

	cmd.Flags().StringVar(&level, "level", sight.ProductionStatusPOLevel, "aggregation level (poLevel or itemLevel)")

	return cmd
}

func runTimeAndActionsProductionStatusCommand(cmd *cobra.Command, timeAndActionID, level string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	opts := &sight.ProductionStatusOptions{Level: level}

	status, err := client.TimeAndActions().GetProductionStatus(context.Background(), timeAndActionID, opts)
	if err != nil {
		return fmt.Errorf("failed to get production status: %w", err)
	}

	return outputRecord(status)
}

func newTimeAndActionsUpdateProductionStatusCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update-production-status TNA_ID",
		Short: "Update production status",
		Long:  "Update a calendar's production status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeAndActionsUpdateProductionStatusCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "production status payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runTimeAndActionsUpdateProductionStatusCommand(cmd *cobra.Command, timeAndActionID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.TimeAndActions().UpdateProductionStatus(context.Background(), timeAndActionID, payload)
	if err != nil {
		return fmt.Errorf("failed to update production status: %w", err)
	}

	return outputRecord(updated)
}
