package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// metadataColumns are the table columns for metadata listings.
var metadataColumns = []string{"uid", "name", "created_date"}

// NewMetadataCommand creates the metadata command group. Every subcommand
// takes the namespace (analytics or inspection) as its first argument.
func NewMetadataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "metadata",
		Aliases: []string{"meta"},
		Short:   "Manage namespaced metadata",
		Long:    "List, create, update, and delete metadata items in the analytics and inspection namespaces",
	}

	cmd.AddCommand(newMetadataListCommand())
	cmd.AddCommand(newMetadataGetCommand())
	cmd.AddCommand(newMetadataCreateCommand())
	cmd.AddCommand(newMetadataUpdateCommand())
	cmd.AddCommand(newMetadataDeleteCommand())

	return cmd
}

func newMetadataListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.MetadataListOptions
	)

	cmd := &cobra.Command{
		Use:   "list NAMESPACE",
		Short: "List metadata items",
		Long:  "List metadata items in a namespace (analytics or inspection)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadataListCommand(cmd, args[0], &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order, e.g. created_date:desc")
	cmd.Flags().StringVar(&opts.CreatedFrom, "created-from", "", "creation date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.CreatedTo, "created-to", "", "creation date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedFrom, "updated-from", "", "update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedTo, "updated-to", "", "update date upper bound (ISO 8601)")

	return cmd
}

func runMetadataListCommand(cmd *cobra.Command, namespace string, opts *sight.MetadataListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Metadata().ListAll(ctx, namespace, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list metadata: %w", err)
		}

		return outputRecords(records, metadataColumns, len(records), true)
	}

	items, err := client.Metadata().List(ctx, namespace, opts)
	if err != nil {
		return fmt.Errorf("failed to list metadata: %w", err)
	}

	return outputRecords(items.Data, metadataColumns, items.Total, false)
}

func newMetadataGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAMESPACE UID",
		Short: "Get a metadata item",
		Long:  "Display a metadata item from a namespace",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadataGetCommand(cmd, args[0], args[1])
		},
	}
}

func runMetadataGetCommand(cmd *cobra.Command, namespace, uid string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	item, err := client.Metadata().Get(context.Background(), namespace, uid)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	return outputRecord(item)
}

func newMetadataCreateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create NAMESPACE",
		Short: "Create a metadata item",
		Long:  "Create a metadata item in a namespace from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadataCreateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "metadata payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runMetadataCreateCommand(cmd *cobra.Command, namespace, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	created, err := client.Metadata().Create(context.Background(), namespace, payload)
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	return outputRecord(created)
}

func newMetadataUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update NAMESPACE UID",
		Short: "Update a metadata item",
		Long:  "Update a metadata item in a namespace from a JSON or YAML payload",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadataUpdateCommand(cmd, args[0], args[1], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "metadata payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runMetadataUpdateCommand(cmd *cobra.Command, namespace, uid, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.Metadata().Update(context.Background(), namespace, uid, payload)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return outputRecord(updated)
}

func newMetadataDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAMESPACE UID",
		Short: "Delete a metadata item",
		Long:  "Delete a metadata item from a namespace",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetadataDeleteCommand(cmd, args[0], args[1], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runMetadataDeleteCommand(cmd *cobra.Command, namespace, uid string, force bool) error {
	if !confirmDeletion("metadata item", uid, force) {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return nil
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.Metadata().Delete(context.Background(), namespace, uid)
	if err != nil {
		return fmt.Errorf("failed to delete metadata: %w", err)
	}

	if len(result) > 0 {
		return outputRecord(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Metadata item '%s' deleted from namespace '%s'\n", uid, namespace)

	return nil
}
