package persistence

import "time"

// PlanRunModel is the GORM model for one recorded planning run.
type PlanRunModel struct {
	ID        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	// Targets is the newline-joined target list of the run.
	Targets string
}

// TableName overrides the GORM table name
func (PlanRunModel) TableName() string {
	return "plan_runs"
}

// ListingTierModel is one price tier of one item's listings as fetched
// during a run. Primary key is (run_id, item_name, side, tier_index);
// tier_index preserves the feed's ascending-price order.
type ListingTierModel struct {
	RunID     string `gorm:"primaryKey"`
	ItemName  string `gorm:"primaryKey"`
	Side      string `gorm:"primaryKey"` // "buys" or "sells"
	TierIndex int    `gorm:"primaryKey"`

	ItemID    uint32
	Listings  uint32
	UnitPrice uint32
	Quantity  uint32
}

// TableName overrides the GORM table name
func (ListingTierModel) TableName() string {
	return "listing_tiers"
}
