package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// purchaseOrderColumns are the table columns for purchase order listings.
var purchaseOrderColumns = []string{"po_number", "opo_number", "status", "delivery_date", "created_date"}

// NewPurchaseOrdersCommand creates the purchase orders command group.
func NewPurchaseOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "purchase-orders",
		Aliases: []string{"pos", "po"},
		Short:   "Manage purchase orders",
		Long:    "List, create, update, and delete Sight purchase orders",
	}

	cmd.AddCommand(newPurchaseOrdersListCommand())
	cmd.AddCommand(newPurchaseOrdersGetCommand())
	cmd.AddCommand(newPurchaseOrdersCreateCommand())
	cmd.AddCommand(newPurchaseOrdersUpdateCommand())
	cmd.AddCommand(newPurchaseOrdersDeleteCommand())
	cmd.AddCommand(newPurchaseOrdersActionCommand())

	return cmd
}

func newPurchaseOrdersListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.PurchaseOrderListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase orders",
		Long:  "List purchase orders visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order")
	cmd.Flags().StringVar(&opts.PONumber, "po-number", "", "filter by purchase order number")
	cmd.Flags().StringVar(&opts.OPONumber, "opo-number", "", "filter by original purchase order number")
	cmd.Flags().StringVar(&opts.DeliveryDateFrom, "delivery-date-from", "", "delivery date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.DeliveryDateTo, "delivery-date-to", "", "delivery date upper bound (ISO 8601)")

	return cmd
}

func runPurchaseOrdersListCommand(cmd *cobra.Command, opts *sight.PurchaseOrderListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.PurchaseOrders().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list purchase orders: %w", err)
		}

		return outputRecords(records, purchaseOrderColumns, len(records), true)
	}

	purchaseOrders, err := client.PurchaseOrders().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list purchase orders: %w", err)
	}

	return outputRecords(purchaseOrders.Data, purchaseOrderColumns, purchaseOrders.Total, false)
}

func newPurchaseOrdersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PO_NUMBER",
		Short: "Get purchase order details",
		Long:  "Display detailed information about a specific purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersGetCommand(cmd, args[0])
		},
	}
}

func runPurchaseOrdersGetCommand(cmd *cobra.Command, poNumber string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	purchaseOrder, err := client.PurchaseOrders().Get(context.Background(), poNumber)
	if err != nil {
		return fmt.Errorf("failed to get purchase order: %w", err)
	}

	return outputRecord(purchaseOrder)
}

func newPurchaseOrdersCreateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a purchase order",
		Long:  "Create a new purchase order from a JSON or YAML payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersCreateCommand(cmd, data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "purchase order payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runPurchaseOrdersCreateCommand(cmd *cobra.Command, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	created, err := client.PurchaseOrders().Create(context.Background(), payload)
	if err != nil {
		return fmt.Errorf("failed to create purchase order: %w", err)
	}

	return outputRecord(created)
}

func newPurchaseOrdersUpdateCommand() *cobra.Command {
	var (
		data     string
		fromFile string
	)

	cmd := &cobra.Command{
		Use:   "update PO_NUMBER",
		Short: "Update a purchase order",
		Long:  "Update an existing purchase order from a JSON or YAML payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersUpdateCommand(cmd, args[0], data, fromFile)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "purchase order payload as JSON or YAML")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the payload from a file")

	return cmd
}

func runPurchaseOrdersUpdateCommand(cmd *cobra.Command, poNumber, data, fromFile string) error {
	payload, err := readRecordPayload(data, fromFile)
	if err != nil {
		return err
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	updated, err := client.PurchaseOrders().Update(context.Background(), poNumber, payload)
	if err != nil {
		return fmt.Errorf("failed to update purchase order: %w", err)
	}

	return outputRecord(updated)
}

func newPurchaseOrdersDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete PO_NUMBER",
		Short: "Delete a purchase order",
		Long:  "Delete a purchase order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersDeleteCommand(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func runPurchaseOrdersDeleteCommand(cmd *cobra.Command, poNumber string, force bool) error {
	if !confirmDeletion("purchase order", poNumber, force) {
		_, _ = os.Stdout.WriteString("Cancelled\n")

		return nil
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.PurchaseOrders().Delete(context.Background(), poNumber)
	if err != nil {
		return fmt.Errorf("failed to delete purchase order: %w", err)
	}

	if len(result) > 0 {
		return outputRecord(result)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Purchase order '%s' deleted\n", poNumber)

	return nil
}

func newPurchaseOrdersActionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "action PO_NUMBER ACTION",
		Short: "Execute a purchase order workflow action",
		Long:  "Execute a named workflow action (update or delete) against a purchase order",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPurchaseOrdersActionCommand(cmd, args[0], args[1])
		},
	}
}

func runPurchaseOrdersActionCommand(cmd *cobra.Command, poNumber, action string) error {
	if action != sight.PurchaseOrderActionUpdate && action != sight.PurchaseOrderActionDelete {
		return fmt.Errorf("%w, got '%s'", ErrUnknownPurchaseOrderAction, action)
	}

	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	result, err := client.PurchaseOrders().ExecuteAction(context.Background(), poNumber, action)
	if err != nil {
		return fmt.Errorf("failed to execute purchase order action: %w", err)
	}

	return outputRecord(result)
}
