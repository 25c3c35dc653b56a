package idea

import (
	"context"
	"errors"
	"time"

	"github.com/colonyops/calm/internal/core/result"
)

// ErrNotFound is returned when an idea does not exist, or is not active
// where an active idea is required.
var ErrNotFound = errors.New("idea not found")

// Store defines the interface for idea persistence.
type Store interface {
	// Create persists a new active idea, assigning Rank from the current
	// highest active rank inside one transaction. Returns the stored idea.
	Create(ctx context.Context, it Idea) (Idea, error)

	// Get returns a single idea by ID.
	// Returns ErrNotFound if the idea does not exist.
	Get(ctx context.Context, id string) (Idea, error)

	// ListActive returns active ideas ordered by rank ascending.
	ListActive(ctx context.Context) ([]Idea, error)

	// ApplyRanks writes every change in one transaction.
	ApplyRanks(ctx context.Context, changes []RankChange, at time.Time) error

	// Archive archives an active idea. Archiving an archived idea returns
	// result.NoOp. Returns ErrNotFound for unknown ids.
	Archive(ctx context.Context, id string, at time.Time) (result.Outcome, error)
}
