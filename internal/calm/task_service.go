package calm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/smartinput"
	"github.com/colonyops/calm/internal/core/task"
	"github.com/colonyops/calm/internal/core/validate"
	"github.com/colonyops/calm/pkg/randid"
)

// NewTask is the input for TaskService.Create.
type NewTask struct {
	Title                string  `json:"title"`
	DueDate              *string `json:"due_date,omitempty"`
	SessionLengthMinutes *int    `json:"session_length_minutes,omitempty"`
}

// TaskService wraps task.Store with validation, due-date coupling to the
// daily ledger and event publishing.
type TaskService struct {
	store task.Store
	daily *DailyService
	bus   *eventbus.EventBus
	log   zerolog.Logger
	now   Clock
}

// NewTaskService creates a new TaskService. daily receives decommit calls
// when a task is moved off today.
func NewTaskService(store task.Store, daily *DailyService, bus *eventbus.EventBus, log zerolog.Logger, now Clock) *TaskService {
	return &TaskService{
		store: store,
		daily: daily,
		bus:   bus,
		log:   logging.ComponentOf(log, "task-service"),
		now:   now.orSystem(),
	}
}

// Create validates and stores a new active task.
func (s *TaskService) Create(ctx context.Context, in NewTask) (task.Task, error) {
	title, err := validate.Title(in.Title)
	if err != nil {
		return task.Task{}, err
	}
	due, err := datekey.NormalizeDueDate(in.DueDate)
	if err != nil {
		return task.Task{}, err
	}
	if err := validate.OptionalSessionLength(in.SessionLengthMinutes); err != nil {
		return task.Task{}, err
	}

	now := s.now()
	t := task.Task{
		ID:                   randid.Generate(8),
		Title:                title,
		DueDate:              due,
		SessionLengthMinutes: in.SessionLengthMinutes,
		Status:               task.StatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.store.Create(ctx, t); err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Str("id", t.ID).Str("due", t.Due()).Msg("task created")
	s.bus.PublishTaskCreated(eventbus.TaskCreatedPayload{Task: t})
	return t, nil
}

// QuickAdd creates a task from a free-text line such as
// "call mom tomorrow for 30m".
func (s *TaskService) QuickAdd(ctx context.Context, input string) (task.Task, error) {
	d := smartinput.ParseDraft(input, s.now())
	return s.Create(ctx, NewTask{
		Title:                d.Title,
		DueDate:              d.DueDate,
		SessionLengthMinutes: d.SessionLengthMinutes,
	})
}

// Get returns a task by id.
func (s *TaskService) Get(ctx context.Context, id string) (task.Task, error) {
	return s.store.Get(ctx, id)
}

// List returns tasks matching filter. An empty status means active.
func (s *TaskService) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	if filter.Status == "" {
		filter.Status = task.StatusActive
	}
	if !filter.Status.Valid() {
		return nil, validate.Fieldf("status", "unknown status %q", filter.Status)
	}
	if _, ok := task.ParseOrderBy(string(filter.OrderBy)); !ok {
		return nil, validate.Fieldf("order", "unknown order %q", filter.OrderBy)
	}
	return s.store.List(ctx, filter)
}

// Update applies a partial change. A due-date change goes through the same
// path as SetDueDate, so it decommits the task from todayKey when needed.
func (s *TaskService) Update(ctx context.Context, id string, u task.Update, todayKey string) (task.Task, error) {
	var (
		title   string
		due     *string
		session *int
		err     error
	)

	if u.Title != nil {
		if title, err = validate.Title(*u.Title); err != nil {
			return task.Task{}, err
		}
	}
	if u.DueDate != nil {
		if due, err = datekey.NormalizeDueDate(u.DueDate); err != nil {
			return task.Task{}, err
		}
	}
	if u.SessionLengthMinutes != nil && *u.SessionLengthMinutes != 0 {
		if err := validate.OptionalSessionLength(u.SessionLengthMinutes); err != nil {
			return task.Task{}, err
		}
		session = u.SessionLengthMinutes
	}
	if u.DueDate != nil {
		if todayKey, err = datekey.Normalize(todayKey); err != nil {
			return task.Task{}, err
		}
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	if u.Empty() {
		return t, nil
	}

	changed := false
	if u.Title != nil && title != t.Title {
		t.Title = title
		changed = true
	}
	if u.SessionLengthMinutes != nil && !sameInt(session, t.SessionLengthMinutes) {
		t.SessionLengthMinutes = session
		changed = true
	}

	// A due change rides on the same write and is reported as one
	// reschedule.
	if u.DueDate != nil && !sameString(due, t.DueDate) {
		return s.reschedule(ctx, t, due, todayKey)
	}
	if !changed {
		return t, nil
	}

	t.UpdatedAt = s.now()
	if err := s.store.Save(ctx, t); err != nil {
		return task.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.log.Info().Str("id", t.ID).Msg("task updated")
	s.bus.PublishTaskUpdated(eventbus.TaskUpdatedPayload{Task: t})
	return t, nil
}

// SetDueDate changes a task's due date. When the new due date is not
// todayKey the task is removed from today's commitments.
func (s *TaskService) SetDueDate(ctx context.Context, id string, dueDate *string, todayKey string) (task.Task, error) {
	due, err := datekey.NormalizeDueDate(dueDate)
	if err != nil {
		return task.Task{}, err
	}
	today, err := datekey.Normalize(todayKey)
	if err != nil {
		return task.Task{}, err
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	return s.reschedule(ctx, t, due, today)
}

// reschedule writes t with the new due date in a single save, then removes
// it from today's commitments when it no longer falls on today.
func (s *TaskService) reschedule(ctx context.Context, t task.Task, due *string, todayKey string) (task.Task, error) {
	old := t.DueDate
	t.DueDate = due
	t.UpdatedAt = s.now()
	if err := s.store.Save(ctx, t); err != nil {
		return task.Task{}, fmt.Errorf("set due date: %w", err)
	}

	decommitted := false
	if t.Due() != todayKey {
		var err error
		if decommitted, err = s.daily.decommit(ctx, todayKey, t.ID); err != nil {
			return task.Task{}, fmt.Errorf("set due date: %w", err)
		}
	}

	s.log.Info().
		Str("id", t.ID).
		Str("due", t.Due()).
		Bool("decommitted", decommitted).
		Msg("task rescheduled")
	s.bus.PublishTaskRescheduled(eventbus.TaskRescheduledPayload{
		Task:        t,
		OldDueDate:  old,
		Decommitted: decommitted,
	})
	return t, nil
}

// MarkDone completes an active task. Completing a finished task is a no-op.
func (s *TaskService) MarkDone(ctx context.Context, id string) (result.Outcome, error) {
	outcome, t, err := s.finish(ctx, id, task.StatusDone)
	if err != nil || !outcome.Changed() {
		return outcome, err
	}
	s.bus.PublishTaskCompleted(eventbus.TaskCompletedPayload{Task: t})
	return outcome, nil
}

// Drop abandons an active task. Dropping a finished task is a no-op.
func (s *TaskService) Drop(ctx context.Context, id string) (result.Outcome, error) {
	outcome, t, err := s.finish(ctx, id, task.StatusDropped)
	if err != nil || !outcome.Changed() {
		return outcome, err
	}
	s.bus.PublishTaskDropped(eventbus.TaskDroppedPayload{Task: t})
	return outcome, nil
}

func (s *TaskService) finish(ctx context.Context, id string, to task.Status) (result.Outcome, task.Task, error) {
	outcome, err := s.store.Finish(ctx, id, to, s.now())
	if err != nil {
		return result.NoOp, task.Task{}, err
	}
	if !outcome.Changed() {
		s.log.Debug().Str("id", id).Str("to", string(to)).Msg("task already finished")
		return outcome, task.Task{}, nil
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		return result.NoOp, task.Task{}, fmt.Errorf("reload task: %w", err)
	}
	s.log.Info().Str("id", id).Str("status", string(to)).Msg("task finished")
	return outcome, t, nil
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
