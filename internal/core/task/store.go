package task

import (
	"context"
	"errors"
	"time"

	"github.com/colonyops/calm/internal/core/result"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// OrderBy selects the index a listing walks.
type OrderBy string

const (
	OrderCreated OrderBy = "created"
	OrderDue     OrderBy = "due"
	OrderUpdated OrderBy = "updated"
)

// ParseOrderBy maps a user supplied order name, defaulting to OrderCreated.
func ParseOrderBy(s string) (OrderBy, bool) {
	switch OrderBy(s) {
	case "", OrderCreated:
		return OrderCreated, true
	case OrderDue:
		return OrderDue, true
	case OrderUpdated:
		return OrderUpdated, true
	}
	return "", false
}

// ListFilter controls which tasks List returns.
type ListFilter struct {
	Status    Status // required
	OrderBy   OrderBy
	Ascending bool
	// UpdatedSince, when non-zero, bounds the scan to tasks updated at or
	// after the given time. Only meaningful with OrderUpdated.
	UpdatedSince time.Time
	Limit        int // zero means no limit
}

// Store defines the interface for task persistence.
type Store interface {
	// Create persists a new task. The caller populates every field.
	Create(ctx context.Context, t Task) error

	// Get returns a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	Get(ctx context.Context, id string) (Task, error)

	// Save overwrites the mutable fields of an existing task.
	// Returns ErrNotFound if the task does not exist.
	Save(ctx context.Context, t Task) error

	// Finish moves an active task into done or dropped, stamping the matching
	// timestamp with at. A task that is not active is left untouched and
	// result.NoOp is returned. Returns ErrNotFound for unknown ids.
	Finish(ctx context.Context, id string, to Status, at time.Time) (result.Outcome, error)

	// List returns tasks matching the filter.
	List(ctx context.Context, filter ListFilter) ([]Task, error)
}
