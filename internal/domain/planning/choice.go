package planning

import "github.com/andrescamacho/gw2-planner/internal/domain/catalog"

// Remainder is a pending obligation: quantity units of an item that the
// plan must still source. Quantity is always positive.
type Remainder struct {
	Name     string
	Quantity uint32
}

// Choice is the decision recorded on the edge from a parent search node to
// a child: a Trading Post buy, a vendor buy, or a craft decomposition.
type Choice interface {
	isChoice()
}

// Buy is a Trading Post purchase taken from the cheapest remaining tier of
// an item on this branch.
type Buy struct {
	Name     string
	Quantity uint32
	Cost     uint32
}

// Vendor is a fixed-price vendor purchase.
type Vendor struct {
	Name     string
	Quantity uint32
	Cost     uint32
}

// Craft is a recipe decomposition. It adds no cost; it replaces the
// obligation with obligations for the recipe's inputs.
type Craft struct {
	Name   string
	Recipe catalog.Recipe
}

func (Buy) isChoice()    {}
func (Vendor) isChoice() {}
func (Craft) isChoice()  {}
