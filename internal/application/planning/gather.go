package planning

import (
	"context"
	"fmt"

	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
)

// Gatherer resolves which items could appear as Trading Post purchases
// anywhere in the recursive decomposition of the targets, and fetches
// their listings in one request.
type Gatherer struct {
	store  *catalog.Store
	client market.ListingClient
}

// NewGatherer creates a Gatherer over a catalog and a listing client.
func NewGatherer(store *catalog.Store, client market.ListingClient) *Gatherer {
	return &Gatherer{store: store, client: client}
}

// Closure returns every item name reachable from the targets through
// recipe inputs, including the targets themselves. An item with no catalog
// entry is a fatal missing-description error.
func (g *Gatherer) Closure(targets []string) (map[string]catalog.MaterialDescription, error) {
	stack := make([]string, len(targets))
	copy(stack, targets)

	visited := make(map[string]catalog.MaterialDescription)
	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[next]; seen {
			continue
		}

		desc, ok := g.store.Get(next)
		if !ok {
			return nil, &catalog.MissingDescriptionError{Name: next}
		}
		visited[next] = desc

		for _, recipe := range desc.Recipes {
			stack = append(stack, recipe.SortedInputs()...)
		}
	}
	return visited, nil
}

// Gather computes the closure of the targets and fetches listings for
// every member with a commerce id. The result is keyed by item name; items
// the feed did not return simply have no entry.
func (g *Gatherer) Gather(ctx context.Context, targets []string) (map[string]market.Item, error) {
	closure, err := g.Closure(targets)
	if err != nil {
		return nil, err
	}

	ids := make([]uint32, 0, len(closure))
	names := make(map[uint32]string, len(closure))
	for name, desc := range closure {
		if desc.PostID != nil {
			ids = append(ids, *desc.PostID)
			names[*desc.PostID] = name
		}
	}

	if len(ids) == 0 {
		return map[string]market.Item{}, nil
	}

	items, err := g.client.FetchListings(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to gather listings: %w", err)
	}

	result := make(map[string]market.Item, len(items))
	for _, item := range items {
		name, ok := names[item.ID]
		if !ok {
			// The feed should only echo requested ids; ignore strays.
			continue
		}
		result[name] = item
	}
	return result, nil
}
