package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// productColumns are the table columns for product listings.
var productColumns = []string{"id", "name", "created_date"}

// NewProductsCommand creates the products command group. The service exposes
// products as a single unpaged listing.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage products",
		Long:    "List Sight products",
	}

	cmd.AddCommand(newProductsListCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long:  "List all products visible to the account",
		RunE:  runProductsListCommand,
	}
}

func runProductsListCommand(cmd *cobra.Command, args []string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	products, err := client.Products().List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	return outputRecords(products.Data, productColumns, products.Total, true)
}
