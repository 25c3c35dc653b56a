package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/task"
	"github.com/colonyops/calm/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Create persists a new task.
func (s *TaskStore) Create(ctx context.Context, t task.Task) error {
	if t.Status == "" {
		t.Status = task.StatusActive
	}

	err := s.db.Queries().InsertTask(ctx, db.Task{
		ID:                   t.ID,
		Title:                t.Title,
		DueDate:              toNullString(t.DueDate),
		SessionLengthMinutes: toNullInt(t.SessionLengthMinutes),
		Status:               string(t.Status),
		CreatedAt:            t.CreatedAt.UnixNano(),
		UpdatedAt:            t.UpdatedAt.UnixNano(),
		CompletedAt:          toNullTime(t.CompletedAt),
		DroppedAt:            toNullTime(t.DroppedAt),
	})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Get returns a single task by ID.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	row, err := s.db.Queries().GetTask(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}
	return rowToTask(row), nil
}

// Save overwrites title, due date, session length and updated_at.
func (s *TaskStore) Save(ctx context.Context, t task.Task) error {
	n, err := s.db.Queries().UpdateTask(ctx, db.UpdateTaskParams{
		ID:                   t.ID,
		Title:                t.Title,
		DueDate:              toNullString(t.DueDate),
		SessionLengthMinutes: toNullInt(t.SessionLengthMinutes),
		UpdatedAt:            t.UpdatedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return nil
}

// Finish moves an active task to done or dropped.
func (s *TaskStore) Finish(ctx context.Context, id string, to task.Status, at time.Time) (result.Outcome, error) {
	if to != task.StatusDone && to != task.StatusDropped {
		return result.NoOp, fmt.Errorf("finish task: %q is not a terminal status", to)
	}

	var outcome result.Outcome
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		n, err := q.FinishTask(ctx, db.FinishTaskParams{
			ID:     id,
			Status: string(to),
			At:     at.UnixNano(),
		})
		if err != nil {
			return err
		}
		if n > 0 {
			outcome = result.Applied
			return nil
		}

		// Nothing changed: tell a missing task apart from a finished one.
		if _, err := q.GetTask(ctx, id); err != nil {
			if IsNotFoundError(err) {
				return task.ErrNotFound
			}
			return err
		}
		outcome = result.NoOp
		return nil
	})
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return result.NoOp, err
		}
		return result.NoOp, fmt.Errorf("finish task: %w", err)
	}
	return outcome, nil
}

var orderColumns = map[task.OrderBy]string{
	task.OrderCreated: "created_at",
	task.OrderDue:     "due_date",
	task.OrderUpdated: "updated_at",
}

// List returns tasks with the given status, newest first unless Ascending.
func (s *TaskStore) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	if !filter.Status.Valid() {
		return nil, fmt.Errorf("list tasks: invalid status %q", filter.Status)
	}

	order := filter.OrderBy
	if order == "" {
		order = task.OrderCreated
	}
	col, ok := orderColumns[order]
	if !ok {
		return nil, fmt.Errorf("list tasks: invalid order %q", order)
	}

	var since int64
	if !filter.UpdatedSince.IsZero() {
		since = filter.UpdatedSince.UnixNano()
	}

	rows, err := s.db.Queries().ListTasks(ctx, db.ListTasksParams{
		Status:       string(filter.Status),
		OrderColumn:  col,
		Ascending:    filter.Ascending,
		UpdatedSince: since,
		Limit:        int64(filter.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	items := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToTask(row))
	}
	return items, nil
}

func rowToTask(row db.Task) task.Task {
	return task.Task{
		ID:                   row.ID,
		Title:                row.Title,
		DueDate:              fromNullString(row.DueDate),
		SessionLengthMinutes: fromNullInt(row.SessionLengthMinutes),
		Status:               task.Status(row.Status),
		CreatedAt:            time.Unix(0, row.CreatedAt),
		UpdatedAt:            time.Unix(0, row.UpdatedAt),
		CompletedAt:          fromNullTime(row.CompletedAt),
		DroppedAt:            fromNullTime(row.DroppedAt),
	}
}
