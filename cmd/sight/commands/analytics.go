package commands

import (
	"context"
	"fmt"

	"github.com/inspectorio-io/sight-go/internal/constants"
	"github.com/inspectorio-io/sight-go/pkg/sight"
	"github.com/spf13/cobra"
)

// factoryRiskProfileColumns are the table columns for risk profile listings.
var factoryRiskProfileColumns = []string{"factory_id", "client_id", "risk_level"}

// NewAnalyticsCommand creates the analytics command group.
func NewAnalyticsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Query analytics data",
		Long:  "Query Sight analytics, such as factory risk profiles",
	}

	cmd.AddCommand(newAnalyticsListFactoryRiskProfilesCommand())
	cmd.AddCommand(newAnalyticsGetFactoryRiskProfileCommand())

	return cmd
}

func newAnalyticsListFactoryRiskProfilesCommand() *cobra.Command {
	var (
		allPages bool
		opts     sight.FactoryRiskProfileListOptions
	)

	cmd := &cobra.Command{
		Use:   "list-factory-risk-profiles",
		Short: "List factory risk profiles",
		Long:  "List factory risk profiles within a date window (the service requires the window)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsListFactoryRiskProfilesCommand(cmd, &opts, allPages)
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of results to skip")
	cmd.Flags().IntVar(&opts.Limit, "limit", constants.StandardPageSize, "results per page")
	cmd.Flags().StringVar(&opts.DateFrom, "date-from", "", "window start date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&opts.DateTo, "date-to", "", "window end date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&opts.DateType, "date-type", "", "which date the window applies to, e.g. process_computed_date")
	_ = cmd.MarkFlagRequired("date-from")
	_ = cmd.MarkFlagRequired("date-to")

	return cmd
}

func runAnalyticsListFactoryRiskProfilesCommand(cmd *cobra.Command, opts *sight.FactoryRiskProfileListOptions, allPages bool) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	ctx := context.Background()

	if allPages {
		records, err := client.Analytics().ListAllFactoryRiskProfiles(ctx, opts, nil)
		if err != nil {
			return fmt.Errorf("failed to list factory risk profiles: %w", err)
		}

		return outputRecords(records, factoryRiskProfileColumns, len(records), true)
	}

	profiles, err := client.Analytics().ListFactoryRiskProfiles(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list factory risk profiles: %w", err)
	}

	return outputRecords(profiles.Data, factoryRiskProfileColumns, profiles.Total, false)
}

func newAnalyticsGetFactoryRiskProfileCommand() *cobra.Command {
	var opts sight.FactoryRiskProfileOptions

	cmd := &cobra.Command{
		Use:   "get-factory-risk-profile FACTORY_ID",
		Short: "Get a factory risk profile",
		Long:  "Display the risk profile of a factory within a date window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyticsGetFactoryRiskProfileCommand(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.DateFrom, "date-from", "", "window start date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&opts.DateTo, "date-to", "", "window end date (yyyy-mm-dd)")
	cmd.Flags().StringVar(&opts.ClientID, "client-id", "", "brand or retailer the factory produces for")
	_ = cmd.MarkFlagRequired("date-from")
	_ = cmd.MarkFlagRequired("date-to")

	return cmd
}

func runAnalyticsGetFactoryRiskProfileCommand(cmd *cobra.Command, factoryID string, opts *sight.FactoryRiskProfileOptions) error {
	client, err := CreateClientWithAPI(cmd.Flag("api").Value.String())
	if err != nil {
		return err
	}

	profile, err := client.Analytics().GetFactoryRiskProfile(context.Background(), factoryID, opts)
	if err != nil {
		return fmt.Errorf("failed to get factory risk profile: %w", err)
	}

	return outputRecord(profile)
}
