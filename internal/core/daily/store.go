package daily

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no ledger exists for a date.
var ErrNotFound = errors.New("daily ledger not found")

// ListFilter controls which ledgers List returns.
type ListFilter struct {
	// Through, when set, excludes ledgers dated after this key.
	Through string
	// EveningOnly restricts results to ledgers with an evening review.
	EveningOnly bool
	Limit       int // zero means no limit
}

// Store defines the interface for ledger persistence.
type Store interface {
	// Get returns the ledger for dateKey.
	// Returns ErrNotFound if no ledger exists.
	Get(ctx context.Context, dateKey string) (Ledger, error)

	// GetOrCreate returns the ledger for dateKey, inserting an empty one
	// stamped with at when none exists.
	GetOrCreate(ctx context.Context, dateKey string, at time.Time) (Ledger, error)

	// ModifyCommitments loads (or creates) the ledger and replaces its
	// commitment set with the result of fn, in one transaction. fn reports
	// whether it changed anything; nothing is written when it did not.
	ModifyCommitments(ctx context.Context, dateKey string, at time.Time, fn func(ids []string) ([]string, bool)) (Ledger, bool, error)

	// MarkRitual stamps the ritual's completion time with at, creating the
	// ledger if needed and overwriting any earlier value.
	MarkRitual(ctx context.Context, dateKey string, r Ritual, at time.Time) (Ledger, error)

	// List returns ledgers ordered by date key descending.
	List(ctx context.Context, filter ListFilter) ([]Ledger, error)
}
