package calm

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/task"
	"github.com/colonyops/calm/internal/core/validate"
)

// DailyService manages the per-day ledger. Commitments are validated
// against the task store before anything is written.
type DailyService struct {
	store daily.Store
	tasks task.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
	now   Clock
}

// NewDailyService creates a new DailyService.
func NewDailyService(store daily.Store, tasks task.Store, bus *eventbus.EventBus, log zerolog.Logger, now Clock) *DailyService {
	return &DailyService{
		store: store,
		tasks: tasks,
		bus:   bus,
		log:   logging.ComponentOf(log, "daily-service"),
		now:   now.orSystem(),
	}
}

// Get returns the ledger for dateKey, or daily.ErrNotFound.
func (s *DailyService) Get(ctx context.Context, dateKey string) (daily.Ledger, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, err
	}
	return s.store.Get(ctx, key)
}

// GetOrCreate returns the ledger for dateKey, creating it when missing.
func (s *DailyService) GetOrCreate(ctx context.Context, dateKey string) (daily.Ledger, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, err
	}
	return s.store.GetOrCreate(ctx, key, s.now())
}

// SetCommitments replaces the commitment set for dateKey. Duplicate ids are
// collapsed and every id must name an active task.
func (s *DailyService) SetCommitments(ctx context.Context, dateKey string, taskIDs []string) (daily.Ledger, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, err
	}

	ids := daily.Dedupe(taskIDs)
	for _, id := range ids {
		if err := s.requireActive(ctx, id); err != nil {
			return daily.Ledger{}, err
		}
	}

	l, changed, err := s.store.ModifyCommitments(ctx, key, s.now(), func(current []string) ([]string, bool) {
		return ids, !slices.Equal(current, ids)
	})
	if err != nil {
		return daily.Ledger{}, fmt.Errorf("set commitments: %w", err)
	}

	if changed {
		s.log.Info().Str("date", key).Int("count", len(ids)).Msg("commitments replaced")
		s.bus.PublishDailyCommitmentsChanged(eventbus.DailyCommitmentsChangedPayload{Ledger: l})
	}
	return l, nil
}

// AddCommitment commits an active task for dateKey. Adding a task that is
// already committed is a no-op.
func (s *DailyService) AddCommitment(ctx context.Context, dateKey, taskID string) (daily.Ledger, result.Outcome, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, result.NoOp, err
	}
	if err := s.requireActive(ctx, taskID); err != nil {
		return daily.Ledger{}, result.NoOp, err
	}

	l, changed, err := s.store.ModifyCommitments(ctx, key, s.now(), func(ids []string) ([]string, bool) {
		if slices.Contains(ids, taskID) {
			return ids, false
		}
		return append(ids, taskID), true
	})
	if err != nil {
		return daily.Ledger{}, result.NoOp, fmt.Errorf("add commitment: %w", err)
	}

	if changed {
		s.log.Info().Str("date", key).Str("task", taskID).Msg("commitment added")
		s.bus.PublishDailyCommitmentsChanged(eventbus.DailyCommitmentsChangedPayload{Ledger: l})
	}
	return l, result.Of(changed), nil
}

// RemoveCommitment removes taskID from dateKey's commitments. Removing a
// task that is not committed is a no-op.
func (s *DailyService) RemoveCommitment(ctx context.Context, dateKey, taskID string) (daily.Ledger, result.Outcome, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, result.NoOp, err
	}
	if err := validate.Required(taskID); err != nil {
		return daily.Ledger{}, result.NoOp, validate.Field("task_id", err)
	}

	l, changed, err := s.store.ModifyCommitments(ctx, key, s.now(), removeID(taskID))
	if err != nil {
		return daily.Ledger{}, result.NoOp, fmt.Errorf("remove commitment: %w", err)
	}

	if changed {
		s.log.Info().Str("date", key).Str("task", taskID).Msg("commitment removed")
		s.bus.PublishDailyCommitmentsChanged(eventbus.DailyCommitmentsChangedPayload{Ledger: l})
	}
	return l, result.Of(changed), nil
}

// MarkRitualCompleted stamps the ritual with the current time.
func (s *DailyService) MarkRitualCompleted(ctx context.Context, dateKey string, r daily.Ritual) (daily.Ledger, error) {
	key, err := datekey.Normalize(dateKey)
	if err != nil {
		return daily.Ledger{}, err
	}
	if _, ok := daily.ParseRitual(string(r)); !ok {
		return daily.Ledger{}, validate.Fieldf("ritual", "unknown ritual %q", r)
	}

	l, err := s.store.MarkRitual(ctx, key, r, s.now())
	if err != nil {
		return daily.Ledger{}, fmt.Errorf("mark ritual: %w", err)
	}

	s.log.Info().Str("date", key).Str("ritual", string(r)).Msg("ritual completed")
	s.bus.PublishDailyRitualCompleted(eventbus.DailyRitualCompletedPayload{Ledger: l, Ritual: r})
	return l, nil
}

// TodayModel returns today's ledger, if any, with its committed tasks.
// No ledger is created.
func (s *DailyService) TodayModel(ctx context.Context, todayKey string) (daily.TodayModel, error) {
	key, err := datekey.Normalize(todayKey)
	if err != nil {
		return daily.TodayModel{}, err
	}

	model := daily.TodayModel{TodayKey: key, CommitmentTasks: []task.Task{}}

	l, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, daily.ErrNotFound):
		return model, nil
	case err != nil:
		return daily.TodayModel{}, fmt.Errorf("today model: %w", err)
	}

	var lookupErr error
	model.Daily = &l
	model.CommitmentTasks = daily.ResolveCommitments(l, func(id string) (task.Task, bool) {
		t, err := s.tasks.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, task.ErrNotFound) && lookupErr == nil {
				lookupErr = err
			}
			return task.Task{}, false
		}
		return t, true
	})
	if lookupErr != nil {
		return daily.TodayModel{}, fmt.Errorf("today model: %w", lookupErr)
	}
	return model, nil
}

// decommit drops taskID from dateKey's ledger when present. A missing
// ledger is left missing.
func (s *DailyService) decommit(ctx context.Context, dateKey, taskID string) (bool, error) {
	l, err := s.store.Get(ctx, dateKey)
	if err != nil {
		if errors.Is(err, daily.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if !l.Committed(taskID) {
		return false, nil
	}

	l, changed, err := s.store.ModifyCommitments(ctx, dateKey, s.now(), removeID(taskID))
	if err != nil {
		return false, err
	}
	if changed {
		s.log.Info().Str("date", dateKey).Str("task", taskID).Msg("task decommitted")
		s.bus.PublishDailyCommitmentsChanged(eventbus.DailyCommitmentsChangedPayload{Ledger: l})
	}
	return changed, nil
}

func (s *DailyService) requireActive(ctx context.Context, taskID string) error {
	if err := validate.Required(taskID); err != nil {
		return validate.Field("task_id", err)
	}

	t, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return validate.Fieldf("task_id", "task not found: %s", taskID)
		}
		return fmt.Errorf("check commitment task: %w", err)
	}
	if !t.IsActive() {
		return validate.Fieldf("task_id", "only active tasks can be committed")
	}
	return nil
}

func removeID(id string) func([]string) ([]string, bool) {
	return func(ids []string) ([]string, bool) {
		idx := slices.Index(ids, id)
		if idx < 0 {
			return ids, false
		}
		return slices.Delete(ids, idx, idx+1), true
	}
}
