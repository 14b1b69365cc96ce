// Package sightclient provides the primary entry point for constructing an
// Inspectorio Sight API client that implements the sight.Client interface.
//
// It layers configuration, HTTP transport, and the login flow on top of the
// resource interfaces and types defined in the sight package. Most
// applications should import sightclient to build a client, then use the
// returned sight.Client to access resource-specific clients, for example
// Bookings(), PurchaseOrders(), Reports(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/inspectorio-io/sight-go/pkg/sight"
//	  "github.com/inspectorio-io/sight-go/pkg/sightclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With an API token you already have:
//	  cli, err := sightclient.New(ctx, &sight.Config{
//	    Environment: sight.EnvironmentProduction,
//	    AccessToken: "d290f1ee6c54...",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with account credentials. The login exchange happens during
//	  // construction, so bad credentials fail here rather than on the
//	  // first request.
//	  cli, err = sightclient.New(ctx, &sight.Config{
//	    Environment: sight.EnvironmentProduction,
//	    Username:    "user",
//	    Password:    "pass",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the sight.Client interface
//	  bookings, err := cli.Bookings().List(ctx, &sight.BookingListOptions{Status: sight.BookingStatusNew})
//	  if err != nil { log.Fatal(err) }
//	  _ = bookings
//	}
//
// # Environments
//
// The hosted deployments are selected with Config.Environment (production,
// preproduction, staging); Config.BaseURL overrides the URL entirely for
// private deployments and tests. Set Config.SkipTLSVerify only for private
// deployments with self-signed certificates.
//
// # Helpers
//
// The package also provides convenience constructors NewWithEnvironment,
// NewWithToken, NewWithCredentials, and NewWithBaseURL that wrap New with
// the appropriate configuration.
package sightclient
