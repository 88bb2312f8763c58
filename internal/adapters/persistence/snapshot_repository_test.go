package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gw2-planner/internal/adapters/persistence"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
	"github.com/andrescamacho/gw2-planner/internal/domain/shared"
	"github.com/andrescamacho/gw2-planner/test/helpers"
)

func sampleListings() map[string]market.Item {
	return map[string]market.Item{
		"Copper Ore": {
			ID: 19697,
			Buys: []market.PriceTier{
				{Listings: 2, UnitPrice: 3, Quantity: 500},
			},
			Sells: []market.PriceTier{
				{Listings: 10, UnitPrice: 5, Quantity: 250},
				{Listings: 4, UnitPrice: 6, Quantity: 900},
			},
		},
		"Bronze Ingot": {
			ID:    19702,
			Sells: []market.PriceTier{{Listings: 1, UnitPrice: 120, Quantity: 30}},
		},
	}
}

func TestSnapshotRepository_SaveAndReplay(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewSnapshotRepository(db, shared.NewMockClock(time.Unix(1000, 0)))
	targets := []string{"Bronze Ingot", "Bronze Ingot"}

	// Act
	runID, err := repo.SaveRun(context.Background(), targets, sampleListings())

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	listings, err := repo.ListingsForRun(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	copper := listings["Copper Ore"]
	assert.Equal(t, uint32(19697), copper.ID)
	require.Len(t, copper.Sells, 2)
	// Feed order is preserved: ascending unit price
	assert.Equal(t, uint32(5), copper.Sells[0].UnitPrice)
	assert.Equal(t, uint32(6), copper.Sells[1].UnitPrice)
	require.Len(t, copper.Buys, 1)
	assert.Equal(t, uint32(3), copper.Buys[0].UnitPrice)

	assert.Equal(t, sampleListings(), listings)
}

func TestSnapshotRepository_LatestRun(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Unix(1000, 0))
	repo := persistence.NewSnapshotRepository(db, clock)

	first, err := repo.SaveRun(context.Background(), []string{"A"}, nil)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := repo.SaveRun(context.Background(), []string{"B"}, nil)
	require.NoError(t, err)

	latest, err := repo.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.NotEqual(t, first, latest.ID)
	assert.Equal(t, []string{"B"}, latest.Targets)
}

func TestSnapshotRepository_LatestRunEmpty(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewSnapshotRepository(db, nil)

	_, err := repo.LatestRun(context.Background())

	assert.ErrorIs(t, err, persistence.ErrNoRuns)
}

func TestSnapshotRepository_ListRuns(t *testing.T) {
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Unix(1000, 0))
	repo := persistence.NewSnapshotRepository(db, clock)

	for _, target := range []string{"A", "B", "C"} {
		_, err := repo.SaveRun(context.Background(), []string{target}, nil)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	runs, err := repo.ListRuns(context.Background())

	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Newest first
	assert.Equal(t, []string{"C"}, runs[0].Targets)
	assert.Equal(t, []string{"A"}, runs[2].Targets)
}
