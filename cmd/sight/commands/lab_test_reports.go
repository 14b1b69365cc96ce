package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// labTestReportColumns are the table columns for lab test report listings.
var labTestReportColumns = []string{"id", "status", "created_date"}

// NewLabTestReportsCommand creates the lab test reports command group.
func NewLabTestReportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lab-test-reports",
		Aliases: []string{"lab-tests", "ltr"},
		Short:   "Manage lab test reports",
		Long:    "List, create, update, and delete Sight lab test reports",
	}

	cmd.AddCommand(newLabTestReportsListCommand())
	cmd.AddCommand(newLabTestReportsGetCommand())
	cmd.AddCommand(newLabTestReportsCreateCommand())
	cmd.AddCommand(newLabTestReportsUpdateCommand())
	cmd.AddCommand(newLabTestReportsDeleteCommand())

	return cmd
}

func newLabTestReportsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.LabTestReportListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List lab test reports",
		Long:  "List lab test reports visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabTestReportsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order")

	return cmd
}

func runLabTestReportsListCommand(cmd *cobra.Command, opts *sight.LabTestReportListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.LabTestReports().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list lab test reports: %w", err)
		}

		return outputRecords(records, labTestReportColumns, len(records), true)
	}

	reports, err := client.LabTestReports().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list lab test reports: %w", err)
	}

	return outputRecords(reports.Data, labTestReportColumns, reports.Total, false)
}

func newLabTestReportsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get REPORT_ID",
		Short: "Get lab test report details",
		Long:  "Display detailed information about a specific lab test report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabTestReportsGetCommand(cmd, args[0])
		},
	}
}

func runLabTestReportsGetCommand(cmd *cobra.Command, reportID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	report, err := client.LabTestReports().Get(context.Background(), reportID)
	if err != nil {
		return fmt.Errorf("failed to get lab test report: %w", err)
	}

	return outputRecord(report)
}

func newLabTestReportsCreateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lab test report",
		Long:  "Create a new lab test report from a JSON or YAML payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabTestReportsCreateCommand(cmd, data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "lab test report payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runLabTestReportsCreateCommand(cmd *cobra.Command, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	created, err := client.LabTestReports().Create(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("failed to create lab test report: %w", err)
	}

	return outputRecord(created)
}

func newLabTestReportsUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update REPORT_ID",
		Short: "Update a lab test report",
		Long:  "Update an existing lab test report from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabTestReportsUpdateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "lab test report payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runLabTestReportsUpdateCommand(cmd *cobra.Command, reportID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.LabTestReports().Update(context.Background(), reportID, payload)
	if err != nil {
		return fmt.Errorf("failed to update lab test report: %w", err)
	}

	return outputRecord(updated)
}

func newLabTestReportsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete REPORT_ID",
		Short: "Delete a lab test report",
		Long:  "Delete a lab test report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabTestReportsDeleteCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runLabTestReportsDeleteCommand(cmd *cobra.Command, reportID string, force bool) error {
	if !confirmDeletion("lab test report", reportID, force) {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return nil
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.LabTestReports().Delete(context.Background(), reportID)
	if err != nil {
		return fmt.Errorf("failed to delete lab test report: %w", err)
	}

	if len(result) > 0 {
		return outputRecord(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Lab test report '%s' deleted\n", reportID)

	return nil
}
