package commands

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// reportColumns are the table columns for inspection report listings.
var reportColumns = []string{"id", "status", "capa_status", "style_id", "inspection_date", "created_date"}

// NewReportsCommand creates the inspection reports command group.
func NewReportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report", "inspection-reports"},
		Short:   "Manage inspection reports",
		Long:    "List and inspect Sight inspection reports",
	}

	cmd.AddCommand(newReportsListCommand())
	cmd.AddCommand(newReportsGetCommand())

	return cmd
}

func newReportsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.ReportListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspection reports",
		Long:  "List inspection reports visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order, e.g. created_date:desc")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by report status (in-progress, pending, completed)")
	cmd.Flags().StringVar(&opts.CAPAStatus, "capa-status", "", "filter by corrective action plan status")
	cmd.Flags().StringVar(&opts.StyleID, "style", "", "filter by style ID")
	cmd.Flags().StringVar(&opts.InspectionDateFrom, "inspection-date-from", "", "inspection date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.InspectionDateTo, "inspection-date-to", "", "inspection date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.CreatedFrom, "created-from", "", "creation date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.CreatedTo, "created-to", "", "creation date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedFrom, "updated-from", "", "update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedTo, "updated-to", "", "update date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.SystemUpdatedFrom, "system-updated-from", "", "system update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.SystemUpdatedTo, "system-updated-to", "", "system update date upper bound (ISO 8601)")

	return cmd
}

func runReportsListCommand(cmd *cobra.Command, opts *sight.ReportListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Reports().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}

		return outputRecords(records, reportColumns, len(records), true)
	}

	reports, err := client.Reports().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	return outputRecords(reports.Data, reportColumns, reports.Total, false)
}

func newReportsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REPORT_ID",
		Short: "Get inspection report details",
		Long:  "Display detailed information about a specific inspection report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReportsGetCommand(cmd, args[0])
		},
	}
}

func runReportsGetCommand(cmd *cobra.Command, reportID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	report, err := client.Reports().Get(context.Background(), reportID)
	if err != nil {
		return fmt.Errorf("failed to get report: %w", err)
	}

	return outputRecord(report)
}
