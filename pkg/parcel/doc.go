// Package parcel defines the public surface of the parcel-delivery API
// client: resource client interfaces, domain types, the tag-based cache
// registry, the session store, and the response interceptor that owns
// auth-boundary side effects.
//
// Create clients with github.com/parceldesk-io/parcel-client/pkg/parcelclient:
//
//	client, err := parcelclient.New(&parcel.Config{
//		BaseURL: "https://api.example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	branches, err := client.Branches().List(ctx, &parcel.PageRequest{PageSize: 20})
//
// # Caching
//
// Every read flows through a Registry keyed by (endpoint, arguments).
// Identical concurrent reads share one network call. Entries carry tags
// relating them to domain entities; writes declare the tags they
// invalidate, so a successful update drops exactly the affected cached
// views. List reads tag N items with N+1 tags: one per item plus a LIST
// sentinel.
//
// # Session and redirects
//
// A single response interceptor classifies 401, 403, and network
// unreachability, clears the session store and navigates through the
// configured Navigator as appropriate, and always returns the original
// error to the caller. All other statuses are the caller's concern.
package parcel
