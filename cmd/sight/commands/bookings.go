package commands

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// bookingColumns are the table columns for booking listings.
var bookingColumns = []string{"id", "status", "to_organization_id", "expected_inspection_date", "created_date"}

// NewBookingsCommand creates the bookings command group.
func NewBookingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking"},
		Short:   "Manage inspection bookings",
		Long:    "List and inspect Sight inspection bookings",
	}

	cmd.AddCommand(newBookingsListCommand())
	cmd.AddCommand(newBookingsGetCommand())

	return cmd
}

func newBookingsListCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.BookingListOptions
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings",
		Long:  "List inspection bookings visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookingsListCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.Order, "order", "", "sort order, e.g. created_date:desc")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by booking status")
	cmd.Flags().StringVar(&opts.ToOrganizationID, "to-organization", "", "filter by receiving organization ID")
	cmd.Flags().StringVar(&opts.CreatedFrom, "created-from", "", "creation date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.CreatedTo, "created-to", "", "creation date upper bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedFrom, "updated-from", "", "update date lower bound (ISO 8601)")
	cmd.Flags().StringVar(&opts.UpdatedTo, "updated-to", "", "update date upper bound (ISO 8601)")

	return cmd
}

func runBookingsListCommand(cmd *cobra.Command, opts *sight.BookingListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Bookings().ListAll(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}

		return outputRecords(records, bookingColumns, len(records), true)
	}

	bookings, err := client.Bookings().List(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}

	return outputRecords(bookings.Data, bookingColumns, bookings.Total, false)
}

func newBookingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get BOOKING_ID",
		Short: "Get booking details",
		Long:  "Display detailed information about a specific booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBookingsGetCommand(cmd, args[0])
		},
	}
}

func runBookingsGetCommand(cmd *cobra.Command, bookingID string) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	booking, err := client.Bookings().Get(context.Background(), bookingID)
	if err != nil {
		return fmt.Errorf("failed to get booking: %w", err)
	}

	return outputRecord(booking)
}
