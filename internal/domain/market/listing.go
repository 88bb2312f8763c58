package market

// PriceTier is one tier of a Trading Post listing: up to Quantity units
// available at exactly UnitPrice. Listings counts the player orders that
// make up the tier; it is feed metadata and has no effect on cost.
type PriceTier struct {
	Listings  uint32
	UnitPrice uint32
	Quantity  uint32
}

// ReducedBy returns a copy of the tier with quantity units removed.
// quantity must be strictly less than the tier's quantity.
func (t PriceTier) ReducedBy(quantity uint32) PriceTier {
	if quantity >= t.Quantity {
		panic("reducing a price tier by its full quantity or more")
	}
	return PriceTier{
		Listings:  t.Listings,
		UnitPrice: t.UnitPrice,
		Quantity:  t.Quantity - quantity,
	}
}

// Item is the live Trading Post quote for a single item. Sells are ordered
// ascending by unit price, as the commerce API returns them; the planner
// relies on that order.
type Item struct {
	ID    uint32
	Buys  []PriceTier
	Sells []PriceTier
}
