package planning

import (
	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
)

// Plan runs a best-first search for the cheapest way to procure one unit
// of each target. Expansion adds only non-negative edge costs, so the
// search is uniform-cost: the first complete node popped is optimal.
//
// listings is keyed by item name; each item's sells must be in ascending
// unit-price order, as returned by the commerce API.
func Plan(targets []string, store *catalog.Store, listings map[string]market.Item) (Plan, error) {
	queue := newFrontier()
	queue.Push(newRootNode(targets, store, listings))

	for {
		node, ok := queue.Pop()
		if !ok {
			return Plan{}, ErrInfeasible
		}

		if len(node.remaining) == 0 {
			return flatten(node), nil
		}

		children, err := node.expand()
		if err != nil {
			return Plan{}, err
		}
		if len(children) == 0 {
			return Plan{}, &NoSourcingError{Item: node.next().Name}
		}
		for _, child := range children {
			queue.Push(child)
		}
	}
}
