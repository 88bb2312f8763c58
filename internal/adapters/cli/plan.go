package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gw2-planner/internal/adapters/api"
	"github.com/andrescamacho/gw2-planner/internal/adapters/persistence"
	appplanning "github.com/andrescamacho/gw2-planner/internal/application/planning"
	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
	"github.com/andrescamacho/gw2-planner/internal/domain/planning"
	"github.com/andrescamacho/gw2-planner/internal/infrastructure/config"
	"github.com/andrescamacho/gw2-planner/internal/infrastructure/database"
)

// runPlan is the driver: load catalog and targets, gather listings (online
// or from the latest snapshot), run the search, print the report.
func runPlan(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	store, err := catalog.LoadDescriptions(descriptionsPath)
	if err != nil {
		return err
	}
	if err := store.CheckCycles(); err != nil {
		return err
	}
	fmt.Printf("Loaded %d material descriptions from %s\n", store.Len(), descriptionsPath)

	targets, err := catalog.LoadTargets(targetsPath)
	if err != nil {
		return err
	}
	fmt.Printf("Planning for %d targets from %s\n", len(targets), targetsPath)

	var listings map[string]market.Item
	if offline {
		listings, err = replaySnapshot(cmd, cfg, store, targets)
	} else {
		listings, err = fetchListings(cmd, cfg, store, targets)
	}
	if err != nil {
		return err
	}

	plan, err := planning.Plan(targets, store, listings)
	if err != nil {
		return err
	}

	PrintPlan(os.Stdout, plan)
	return nil
}

func fetchListings(cmd *cobra.Command, cfg *config.Config, store *catalog.Store, targets []string) (map[string]market.Item, error) {
	ctx := cmd.Context()

	client := api.NewTradingPostClientWithOptions(api.ClientOptions{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		RateLimit:   cfg.API.RateLimit.Requests,
		RateBurst:   cfg.API.RateLimit.Burst,
		MaxRetries:  cfg.API.Retry.MaxAttempts,
		BackoffBase: cfg.API.Retry.BackoffBase,
	})

	gatherer := appplanning.NewGatherer(store, client)
	listings, err := gatherer.Gather(ctx, targets)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Fetched Trading Post listings for %d materials\n", len(listings))

	if cfg.Snapshot.Enabled && !noSnapshot {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		defer database.Close(db)

		repo := persistence.NewSnapshotRepository(db, nil)
		runID, err := repo.SaveRun(ctx, targets, listings)
		if err != nil {
			return nil, fmt.Errorf("failed to record snapshot: %w", err)
		}
		fmt.Printf("Recorded listing snapshot %s\n", runID)
	}

	return listings, nil
}

func replaySnapshot(cmd *cobra.Command, cfg *config.Config, store *catalog.Store, targets []string) (map[string]market.Item, error) {
	ctx := cmd.Context()

	// The closure still validates that every reachable material has a
	// description, exactly as an online gather would.
	gatherer := appplanning.NewGatherer(store, nil)
	if _, err := gatherer.Closure(targets); err != nil {
		return nil, err
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer database.Close(db)

	repo := persistence.NewSnapshotRepository(db, nil)
	run, err := repo.LatestRun(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := repo.ListingsForRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Replaying snapshot %s from %s (%d materials)\n",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), len(listings))

	return listings, nil
}
