// Package sight provides types, interfaces, and helpers for working with the
// Inspectorio Sight API.
//
// # Overview
//
// The sight package defines the client interfaces for Sight's resources
// (bookings, purchase orders, inspection reports, assignments, lab test
// reports, time and action calendars, and the rest of the surface), the
// Config struct, query parameter builders, pagination helpers, and the error
// types. A concrete implementation of these interfaces is provided by the
// sightclient package, which wires configuration, transport, and the login
// flow. Most consumers should import sightclient to construct a client and
// then interact with the resource client interfaces exposed here.
//
// Getting a client
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
//	  cli, err := sightclient.NewWithCredentials(ctx, sight.EnvironmentProduction, "user", "pass")
//	  if err != nil { log.Fatal(err) }
//
//	  // List the first page of bookings
//	  bookings, err := cli.Bookings().List(ctx, &sight.BookingListOptions{Status: sight.BookingStatusNew})
//	  if err != nil { log.Fatal(err) }
//	  _ = bookings
//	}
//
// # Records
//
// The service publishes no response schema, so resources are surfaced as
// sight.Record (map[string]interface{}): decoded JSON passed through
// verbatim. List endpoints return ListResponse[Record] carrying the page and
// the server-reported total.
//
// # Pagination
//
// List endpoints page with offset/limit against a server-reported total.
// Every list operation has three shapes: List (one page), ListAll (all pages,
// fetched concurrently, returned in order), and Stream (a channel of
// PageResult values for consumers that want items as they arrive). The
// fetch-all helpers live in pagination.go and are shared by all resource
// clients:
//
//	all, err := cli.Reports().ListAll(ctx, nil, &sight.PaginationOptions{PageSize: 100})
//
//	for page := range cli.Reports().Stream(ctx, nil, nil) {
//	  if page.Err != nil { break }
//	  _ = page.Items
//	}
//
// # Errors
//
// API errors are represented by APIError. Helpers such as IsNotFound,
// IsUnauthorized, IsForbidden, and IsAuthError make it easy to branch on
// common cases, in particular detecting when a session needs a fresh login.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, auth headers, metrics, rate limiting, circuit
// breaking) and a pluggable Cache abstraction with in-memory and NATS
// JetStream KV backends. The sightclient package composes these pieces for a
// sensible default client; applications with advanced needs can also use
// these primitives directly.
package sight
