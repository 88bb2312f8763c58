package planning

// Purchase is the aggregated quantity and cost of one item from one
// sourcing channel.
type Purchase struct {
	Quantity uint32
	Cost     uint32
}

// Plan is the flattened result of a completed search: per-item totals for
// Trading Post buys and vendor buys along the chosen leaf-to-root path.
// TotalCost equals the sum of all purchase costs.
type Plan struct {
	Buy       map[string]Purchase
	Vendor    map[string]Purchase
	TotalCost uint32
}

// flatten walks from the chosen leaf back to the root, summing Buy and
// Vendor edges per item. Craft edges restructure obligations without
// spending money or consuming listed units, so they contribute nothing.
func flatten(leaf *searchNode) Plan {
	plan := Plan{
		Buy:       make(map[string]Purchase),
		Vendor:    make(map[string]Purchase),
		TotalCost: leaf.totalCost,
	}

	for node := leaf; node.parent != nil; node = node.parent {
		switch choice := node.choice.(type) {
		case Buy:
			entry := plan.Buy[choice.Name]
			entry.Quantity += choice.Quantity
			entry.Cost += choice.Cost
			plan.Buy[choice.Name] = entry
		case Vendor:
			entry := plan.Vendor[choice.Name]
			entry.Quantity += choice.Quantity
			entry.Cost += choice.Cost
			plan.Vendor[choice.Name] = entry
		case Craft:
		}
	}

	return plan
}
