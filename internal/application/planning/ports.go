package planning

import (
	"context"
	"time"

	"github.com/andrescamacho/gw2-planner/internal/domain/market"
)

// PlanRun describes one recorded listing snapshot: the inputs of a past
// planning run.
type PlanRun struct {
	ID        string
	CreatedAt time.Time
	Targets   []string
}

// SnapshotRepository records the listings fetched for a run and replays
// them for offline planning.
type SnapshotRepository interface {
	SaveRun(ctx context.Context, targets []string, listings map[string]market.Item) (string, error)
	LatestRun(ctx context.Context) (*PlanRun, error)
	ListRuns(ctx context.Context) ([]PlanRun, error)
	ListingsForRun(ctx context.Context, runID string) (map[string]market.Item, error)
}
