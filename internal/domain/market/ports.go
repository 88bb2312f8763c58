package market

import "context"

// ListingClient fetches current Trading Post listings for a set of
// commerce item ids.
type ListingClient interface {
	FetchListings(ctx context.Context, ids []uint32) ([]Item, error)
}
