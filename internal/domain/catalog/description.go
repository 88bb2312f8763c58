package catalog

import "sort"

// Recipe maps an input item name to the quantity consumed per unit of
// output.
type Recipe map[string]uint32

// SortedInputs returns the recipe's input names in sorted order, giving
// callers a deterministic iteration over the map.
func (r Recipe) SortedInputs() []string {
	inputs := make([]string, 0, len(r))
	for input := range r {
		inputs = append(inputs, input)
	}
	sort.Strings(inputs)
	return inputs
}

// MaterialDescription is the static catalog record for one item.
type MaterialDescription struct {
	// PostID is the Trading Post commerce id. Nil means the item cannot be
	// bought from the Trading Post.
	PostID *uint32

	// Vendor is the fixed unit price at a vendor. Nil means no vendor sells
	// the item.
	Vendor *uint32

	// Recipes lists the ways the item can be crafted. Empty means the item
	// is not craftable.
	Recipes []Recipe
}

// OnTradingPost reports whether the item has a commerce id.
func (d MaterialDescription) OnTradingPost() bool {
	return d.PostID != nil
}

// VendorPrice returns the vendor unit price if the item has one.
func (d MaterialDescription) VendorPrice() (uint32, bool) {
	if d.Vendor == nil {
		return 0, false
	}
	return *d.Vendor, true
}

// Craftable reports whether the item has at least one recipe.
func (d MaterialDescription) Craftable() bool {
	return len(d.Recipes) > 0
}
