package calm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/core/planner"
	"github.com/colonyops/calm/internal/core/task"
)

// PlannerService assembles read models from the task and ledger stores.
type PlannerService struct {
	tasks task.Store
	daily daily.Store
	log   zerolog.Logger
}

// NewPlannerService creates a new PlannerService.
func NewPlannerService(tasks task.Store, ledgers daily.Store, log zerolog.Logger) *PlannerService {
	return &PlannerService{
		tasks: tasks,
		daily: ledgers,
		log:   logging.ComponentOf(log, "planner-service"),
	}
}

// Snapshot builds the planner view for todayKey.
func (s *PlannerService) Snapshot(ctx context.Context, todayKey string) (planner.Snapshot, error) {
	keys, err := planner.KeysFor(todayKey)
	if err != nil {
		return planner.Snapshot{}, err
	}

	active, err := s.activeTasks(ctx)
	if err != nil {
		return planner.Snapshot{}, err
	}

	since, err := datekey.StartOf(keys.Yesterday)
	if err != nil {
		return planner.Snapshot{}, err
	}
	done, err := s.tasks.List(ctx, task.ListFilter{
		Status:       task.StatusDone,
		OrderBy:      task.OrderUpdated,
		UpdatedSince: since,
	})
	if err != nil {
		return planner.Snapshot{}, fmt.Errorf("planner snapshot: %w", err)
	}

	snap, err := planner.BuildSnapshot(active, done, keys.Today)
	if err != nil {
		return planner.Snapshot{}, err
	}

	s.log.Debug().
		Str("today", keys.Today).
		Int("active", len(active)).
		Int("done_scanned", len(done)).
		Msg("snapshot built")
	return snap, nil
}

// Horizon returns only the today, tomorrow and day-after buckets.
func (s *PlannerService) Horizon(ctx context.Context, todayKey string) (planner.Horizon, error) {
	active, err := s.activeTasks(ctx)
	if err != nil {
		return planner.Horizon{}, err
	}
	return planner.SplitHorizon(active, todayKey)
}

// Reentry reports the days since the most recent evening review.
func (s *PlannerService) Reentry(ctx context.Context, todayKey string) (planner.ReentryStatus, error) {
	key, err := datekey.Normalize(todayKey)
	if err != nil {
		return planner.ReentryStatus{}, err
	}

	ledgers, err := s.daily.List(ctx, daily.ListFilter{EveningOnly: true, Limit: 1})
	if err != nil {
		return planner.ReentryStatus{}, fmt.Errorf("reentry: %w", err)
	}
	return planner.Reentry(ledgers, key)
}

func (s *PlannerService) activeTasks(ctx context.Context) ([]task.Task, error) {
	active, err := s.tasks.List(ctx, task.ListFilter{
		Status:  task.StatusActive,
		OrderBy: task.OrderCreated,
	})
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	return active, nil
}
