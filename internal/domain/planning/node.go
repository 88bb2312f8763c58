package planning

import (
	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
)

// searchNode is a snapshot of the planner's state. Nodes form an inverted
// tree through parent links; the catalog store is shared by every node,
// and remaining is owned by the node. A Buy child gets its own copy of the
// listings map, differing from its parent's in at most one bucket; Vendor
// and Craft children share their parent's map. No node ever mutates state
// reachable from another node.
type searchNode struct {
	parent    *searchNode
	choice    Choice // edge taken from parent; nil at the root
	remaining []Remainder
	listings  map[string][]market.PriceTier
	store     *catalog.Store
	totalCost uint32
}

func newRootNode(targets []string, store *catalog.Store, listings map[string]market.Item) *searchNode {
	remaining := make([]Remainder, 0, len(targets))
	for _, name := range targets {
		remaining = append(remaining, Remainder{Name: name, Quantity: 1})
	}

	queues := make(map[string][]market.PriceTier, len(listings))
	for name, item := range listings {
		tiers := make([]market.PriceTier, len(item.Sells))
		copy(tiers, item.Sells)
		queues[name] = tiers
	}

	return &searchNode{
		remaining: remaining,
		listings:  queues,
		store:     store,
	}
}

// next returns the obligation to resolve: the last remaining entry (LIFO).
func (n *searchNode) next() Remainder {
	return n.remaining[len(n.remaining)-1]
}

// rest returns a copy of remaining without the last entry, with room for
// extra appends so craft expansions don't reallocate.
func (n *searchNode) rest(extra int) []Remainder {
	rest := make([]Remainder, len(n.remaining)-1, len(n.remaining)-1+extra)
	copy(rest, n.remaining[:len(n.remaining)-1])
	return rest
}

// expand produces the children of a non-terminal node: at most one Buy, at
// most one Vendor, and one Craft per recipe. A missing catalog entry for
// the next obligation is reported as an error; the listing gather should
// have caught it before planning started.
func (n *searchNode) expand() ([]*searchNode, error) {
	next := n.next()
	desc, ok := n.store.Get(next.Name)
	if !ok {
		return nil, &catalog.MissingDescriptionError{Name: next.Name}
	}

	var children []*searchNode
	if child := n.expandBuy(next); child != nil {
		children = append(children, child)
	}
	if child := n.expandVendor(next, desc); child != nil {
		children = append(children, child)
	}
	children = append(children, n.expandCrafts(next, desc)...)
	return children, nil
}

// expandBuy takes units from the cheapest remaining tier of the item on
// this branch. If the tier can't cover the whole obligation, the shortfall
// is pushed back as a new remainder, to be covered by the next tier (or
// another sourcing) in a later expansion.
func (n *searchNode) expandBuy(next Remainder) *searchNode {
	tiers := n.listings[next.Name]
	if len(tiers) == 0 {
		return nil
	}
	front := tiers[0]

	take := next.Quantity
	if front.Quantity < take {
		take = front.Quantity
	}
	added := take * front.UnitPrice

	listings := make(map[string][]market.PriceTier, len(n.listings))
	for name, queue := range n.listings {
		listings[name] = queue
	}
	if next.Quantity < front.Quantity {
		bucket := make([]market.PriceTier, len(tiers))
		copy(bucket, tiers)
		bucket[0] = front.ReducedBy(next.Quantity)
		listings[next.Name] = bucket
	} else {
		// Tail slices are shared with the parent; buckets are never
		// written in place, so sharing is safe.
		listings[next.Name] = tiers[1:]
	}

	remaining := n.rest(1)
	if take < next.Quantity {
		remaining = append(remaining, Remainder{Name: next.Name, Quantity: next.Quantity - take})
	}

	return &searchNode{
		parent:    n,
		choice:    Buy{Name: next.Name, Quantity: take, Cost: added},
		remaining: remaining,
		listings:  listings,
		store:     n.store,
		totalCost: n.totalCost + added,
	}
}

func (n *searchNode) expandVendor(next Remainder, desc catalog.MaterialDescription) *searchNode {
	price, ok := desc.VendorPrice()
	if !ok {
		return nil
	}
	added := next.Quantity * price

	return &searchNode{
		parent:    n,
		choice:    Vendor{Name: next.Name, Quantity: next.Quantity, Cost: added},
		remaining: n.rest(0),
		listings:  n.listings,
		store:     n.store,
		totalCost: n.totalCost + added,
	}
}

// expandCrafts produces one child per recipe. Input obligations are
// appended in sorted input order, scaled by the obligation quantity, so the
// last-appended input is resolved first and expansion order is
// reproducible.
func (n *searchNode) expandCrafts(next Remainder, desc catalog.MaterialDescription) []*searchNode {
	children := make([]*searchNode, 0, len(desc.Recipes))
	for _, recipe := range desc.Recipes {
		remaining := n.rest(len(recipe))
		for _, input := range recipe.SortedInputs() {
			remaining = append(remaining, Remainder{
				Name:     input,
				Quantity: recipe[input] * next.Quantity,
			})
		}

		children = append(children, &searchNode{
			parent:    n,
			choice:    Craft{Name: next.Name, Recipe: recipe},
			remaining: remaining,
			listings:  n.listings,
			store:     n.store,
			totalCost: n.totalCost,
		})
	}
	return children
}
