package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// brandColumns are the table columns for brand listings.
var brandColumns = []string{"id", "name", "created_date"}

// NewBrandsCommand creates the brands command group. The service does not
// expose brand creation; brands appear through organization onboarding.
func NewBrandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "brands",
		Aliases: []string{"brand"},
		Short:   "Manage brands",
		Long:    "List, update, and delete Sight brands",
	}

	cmd.AddCommand(newBrandsListCommand())
	cmd.AddCommand(newBrandsGetCommand())
	cmd.AddCommand(newBrandsUpdateCommand())
	cmd.AddCommand(newBrandsDeleteCommand())

	return cmd
}

func newBrandsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.BrandListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List brands",
		Long:  "List brands visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order")

	return cmd
}

func runBrandsListCommand(cmd *cobra.Command, opts *sight.BrandListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Brands().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list brands: %w", err)
		}

		return outputRecords(records, brandColumns, len(records), true)
	}

	brands, err := client.Brands().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list brands: %w", err)
	}

	return outputRecords(brands.Data, brandColumns, brands.Total, false)
}

func newBrandsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BRAND_ID",
		Short: "Get brand details",
		Long:  "Display detailed information about a specific brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandsGetCommand(cmd, args[0])
		},
	}
}

func runBrandsGetCommand(cmd *cobra.Command, brandID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	brand, err := client.Brands().Get(context.Background(), brandID)
	if err != nil {
		return fmt.Errorf("failed to get brand: %w", err)
	}

	return outputRecord(brand)
}

func newBrandsUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update BRAND_ID",
		Short: "Update a brand",
		Long:  "Update an existing brand from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandsUpdateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "brand payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runBrandsUpdateCommand(cmd *cobra.Command, brandID, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.Brands().Update(context.Background(), brandID, payload)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}

	return outputRecord(updated)
}

func newBrandsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete BRAND_ID",
		Short: "Delete a brand",
		Long:  "Delete a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrandsDeleteCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runBrandsDeleteCommand(cmd *cobra.Command, brandID string, force bool) error {
	if !confirmDeletion("brand", brandID, force) {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return nil
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.Brands().Delete(context.Background(), brandID)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	if len(result) > 0 {
		return outputRecord(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Brand '%s' deleted\n", brandID)

	return nil
}
