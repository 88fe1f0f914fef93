// Package parcelclient provides the primary entry point for constructing a
// parcel delivery API client that implements the parcel.Client interface.
//
// It layers configuration, HTTP transport, the response interceptor, and the
// tag-based cache registry on top of the resource interfaces and types
// defined in the parcel package. Most applications should import
// parcelclient to build a client, then use the returned parcel.Client to
// access resource-specific clients, for example Branches(), Parcels(),
// Users(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/parceldesk-io/parcel-client/pkg/parcel"
//	  "github.com/parceldesk-io/parcel-client/pkg/parcelclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := parcelclient.New(&parcel.Config{BaseURL: "https://api.example.com"})
//	  if err != nil { log.Fatal(err) }
//
//	  parcels, err := cli.Parcels().Search(ctx, &parcel.ParcelSearchRequest{}, nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = parcels
//	}
//
// Sessions ride on a cookie jar: Auth().Login establishes the backend
// session cookie and Auth().FetchProfile populates the session store that
// route guards read. Wire a parcel.Navigator into the config to get the
// interceptor's login/forbidden/maintenance redirects.
package parcelclient
