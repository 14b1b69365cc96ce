package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// organizationColumns are the table columns for organization listings.
var organizationColumns = []string{"id", "name", "created_date"}

// NewOrganizationsCommand creates the organizations command group.
func NewOrganizationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs", "org"},
		Short:   "Manage organizations",
		Long:    "List, create, update, and delete Sight organizations",
	}

	cmd.AddCommand(newOrganizationsListCommand())
	cmd.AddCommand(newOrganizationsGetCommand())
	cmd.AddCommand(newOrganizationsCreateCommand())
	cmd.AddCommand(newOrganizationsUpdateCommand())
	cmd.AddCommand(newOrganizationsDeleteCommand())

	return cmd
}

func newOrganizationsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.OrganizationListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Long:  "List organizations visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizationsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order")
	cmd.Flags().StringVar(&opts.Name, "name", "", "filter by organization name")

	return cmd
}

func runOrganizationsListCommand(cmd *cobra.Command, opts *sight.OrganizationListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Organizations().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list organizations: %w", err)
		}

		return outputRecords(records, organizationColumns, len(records), true)
	}

	organizations, err := client.Organizations().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	return outputRecords(organizations.Data, organizationColumns, organizations.Total, false)
}

func newOrganizationsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORGANIZATION_ID",
		Short: "Get organization details",
		Long:  "Display detailed information about a specific organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizationsGetCommand(cmd, args[0])
		},
	}
}

func runOrganizationsGetCommand(cmd *cobra.Command, organizationID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	organization, err := client.Organizations().Get(context.Background(), organizationID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}

	return outputRecord(organization)
}

func newOrganizationsCreateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organization",
		Long:  "Create a new organization from a JSON or YAML payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizationsCreateCommand(cmd, data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "organization payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runOrganizationsCreateCommand(cmd *cobra.Command, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	created, err := client.Organizations().Create(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return outputRecord(created)
}

func newOrganizationsUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update ORGANIZATION_ID",
		Short: "Update an organization",
		Long:  "Update an existing organization from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizationsUpdateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "organization payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runOrganizationsUpdateCommand(cmd *cobra.Command, organizationID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.Organizations().Update(context.Background(), organizationID, payload)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	return outputRecord(updated)
}

func newOrganizationsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ORGANIZATION_ID",
		Short: "Delete an organization",
		Long:  "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrganizationsDeleteCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runOrganizationsDeleteCommand(cmd *cobra.Command, organizationID string, force bool) error {
	if !confirmDeletion("organization", organizationID, force) {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return nil
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.Organizations().Delete(context.Background(), organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	if len(result) > 0 {
		return outputRecord(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Organization '%s' deleted\n", organizationID)

	return nil
}
