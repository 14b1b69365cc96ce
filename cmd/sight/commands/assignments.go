package commands

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// assignmentColumns are the table columns for assignment listings.
var assignmentColumns = []string{"id", "assignment_status", "executor_organization", "factory_country", "assignment_created_date"}

// NewAssignmentsCommand creates the assignments command group.
func NewAssignmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "assignments",
		Aliases: []string{"assignment"},
		Short:   "Manage inspection assignments",
		Long:    "List and inspect Sight inspection assignments",
	}

	cmd.AddCommand(newAssignmentsListCommand())
	cmd.AddCommand(newAssignmentsGetCommand())

	return cmd
}

func newAssignmentsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.AssignmentListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments",
		Long:  "List inspection assignments visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order, e.g. assignment_created_date:desc")
	cmd.Flags().StringVar(&opts.AssignmentStatus, "status", "", "filter by assignment status")
	cmd.Flags().StringVar(&opts.ExecutorOrganization, "executor-organization", "", "filter by executing organization")
	cmd.Flags().StringVar(&opts.FactoryCity, "factory-city", "", "filter by factory city")
	cmd.Flags().StringVar(&opts.FactoryCountry, "factory-country", "", "filter by factory country")
	cmd.Flags().StringVar(&opts.AssignmentCreatedFrom, "created-from", "", "creation date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.AssignmentCreatedTo, "created-to", "", "creation date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.AssignmentUpdatedFrom, "updated-from", "", "update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.AssignmentUpdatedTo, "updated-to", "", "update date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.ExpectedInspectionDateFrom, "expected-inspection-date-from", "", "expected inspection date lower bound")
	cmd.Flags().StringVar(&opts.ExpectedInspectionDateTo, "expected-inspection-date-to", "", "expected inspection date upper bound")

	return cmd
}

func runAssignmentsListCommand(cmd *cobra.Command, opts *sight.AssignmentListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Assignments().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}

		return outputRecords(records, assignmentColumns, len(records), true)
	}

	assignments, err := client.Assignments().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	return outputRecords(assignments.Data, assignmentColumns, assignments.Total, false)
}

func newAssignmentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ASSIGNMENT_ID",
		Short: "Get assignment details",
		Long:  "Display detailed information about a specific assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssignmentsGetCommand(cmd, args[0])
		},
	}
}

func runAssignmentsGetCommand(cmd *cobra.Command, assignmentID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	assignment, err := client.Assignments().Get(context.Background(), assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	return outputRecord(assignment)
}
