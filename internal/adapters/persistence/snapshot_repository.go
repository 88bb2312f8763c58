package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	appplanning "github.com/andrescamacho/gw2-planner/internal/application/planning"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
	"github.com/andrescamacho/gw2-planner/internal/domain/shared"
)

const (
	sideBuys  = "buys"
	sideSells = "sells"
)

// ErrNoRuns is returned when no snapshot has been recorded yet.
var ErrNoRuns = errors.New("no recorded plan runs")

// SnapshotRepositoryGORM implements snapshot persistence using GORM.
type SnapshotRepositoryGORM struct {
	db    *gorm.DB
	clock shared.Clock
}

// NewSnapshotRepository creates a GORM-based snapshot repository. If clock
// is nil, uses RealClock.
func NewSnapshotRepository(db *gorm.DB, clock shared.Clock) *SnapshotRepositoryGORM {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SnapshotRepositoryGORM{db: db, clock: clock}
}

// SaveRun records the fetched listings of one run and returns the run id.
func (r *SnapshotRepositoryGORM) SaveRun(ctx context.Context, targets []string, listings map[string]market.Item) (string, error) {
	runID := uuid.NewString()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := PlanRunModel{
			ID:        runID,
			CreatedAt: r.clock.Now(),
			Targets:   strings.Join(targets, "\n"),
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to insert plan run: %w", err)
		}

		var tiers []ListingTierModel
		for name, item := range listings {
			tiers = append(tiers, tierRows(runID, name, item, sideBuys, item.Buys)...)
			tiers = append(tiers, tierRows(runID, name, item, sideSells, item.Sells)...)
		}
		if len(tiers) > 0 {
			if err := tx.Create(&tiers).Error; err != nil {
				return fmt.Errorf("failed to insert listing tiers: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

func tierRows(runID, name string, item market.Item, side string, tiers []market.PriceTier) []ListingTierModel {
	rows := make([]ListingTierModel, 0, len(tiers))
	for i, tier := range tiers {
		rows = append(rows, ListingTierModel{
			RunID:     runID,
			ItemName:  name,
			Side:      side,
			TierIndex: i,
			ItemID:    item.ID,
			Listings:  tier.Listings,
			UnitPrice: tier.UnitPrice,
			Quantity:  tier.Quantity,
		})
	}
	return rows
}

// LatestRun returns the most recently recorded run.
func (r *SnapshotRepositoryGORM) LatestRun(ctx context.Context) (*appplanning.PlanRun, error) {
	var model PlanRunModel
	err := r.db.WithContext(ctx).Order("created_at DESC").First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRuns
		}
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	run := toPlanRun(model)
	return &run, nil
}

// ListRuns returns all recorded runs, newest first.
func (r *SnapshotRepositoryGORM) ListRuns(ctx context.Context) ([]appplanning.PlanRun, error) {
	var models []PlanRunModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]appplanning.PlanRun, 0, len(models))
	for _, model := range models {
		runs = append(runs, toPlanRun(model))
	}
	return runs, nil
}

// ListingsForRun replays the listings recorded for a run, keyed by item
// name, with tiers in their original feed order.
func (r *SnapshotRepositoryGORM) ListingsForRun(ctx context.Context, runID string) (map[string]market.Item, error) {
	var rows []ListingTierModel
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load listings for run %s: %w", runID, err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ItemName != rows[j].ItemName {
			return rows[i].ItemName < rows[j].ItemName
		}
		if rows[i].Side != rows[j].Side {
			return rows[i].Side < rows[j].Side
		}
		return rows[i].TierIndex < rows[j].TierIndex
	})

	listings := make(map[string]market.Item)
	for _, row := range rows {
		item := listings[row.ItemName]
		item.ID = row.ItemID
		tier := market.PriceTier{
			Listings:  row.Listings,
			UnitPrice: row.UnitPrice,
			Quantity:  row.Quantity,
		}
		if row.Side == sideBuys {
			item.Buys = append(item.Buys, tier)
		} else {
			item.Sells = append(item.Sells, tier)
		}
		listings[row.ItemName] = item
	}
	return listings, nil
}

func toPlanRun(model PlanRunModel) appplanning.PlanRun {
	var targets []string
	if model.Targets != "" {
		targets = strings.Split(model.Targets, "\n")
	}
	return appplanning.PlanRun{
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		Targets:   targets,
	}
}
