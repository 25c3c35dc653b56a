package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/data/db"
)

// IdeaStore implements idea.Store using SQLite.
type IdeaStore struct {
	db *db.DB
}

var _ idea.Store = (*IdeaStore)(nil)

// NewIdeaStore creates a new SQLite-backed idea store.
func NewIdeaStore(db *db.DB) *IdeaStore {
	return &IdeaStore{db: db}
}

// Create inserts an active idea ranked after every other active idea.
func (s *IdeaStore) Create(ctx context.Context, it idea.Idea) (idea.Idea, error) {
	it.Status = idea.StatusActive
	it.ArchivedAt = nil

	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		maxRank, err := q.MaxActiveIdeaRank(ctx)
		if err != nil {
			return err
		}
		it.Rank = idea.NextRank(int(maxRank))

		return q.InsertIdea(ctx, db.Idea{
			ID:           it.ID,
			Title:        it.Title,
			ReferenceURL: toNullString(it.ReferenceURL),
			Rank:         int64(it.Rank),
			Status:       string(it.Status),
			CreatedAt:    it.CreatedAt.UnixNano(),
			UpdatedAt:    it.UpdatedAt.UnixNano(),
		})
	})
	if err != nil {
		return idea.Idea{}, fmt.Errorf("create idea: %w", err)
	}
	return it, nil
}

// Get returns a single idea by ID.
func (s *IdeaStore) Get(ctx context.Context, id string) (idea.Idea, error) {
	row, err := s.db.Queries().GetIdea(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return idea.Idea{}, idea.ErrNotFound
		}
		return idea.Idea{}, fmt.Errorf("get idea: %w", err)
	}
	return rowToIdea(row), nil
}

// ListActive returns active ideas in rank order.
func (s *IdeaStore) ListActive(ctx context.Context) ([]idea.Idea, error) {
	rows, err := s.db.Queries().ListIdeasByStatus(ctx, string(idea.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}

	items := make([]idea.Idea, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToIdea(row))
	}
	return items, nil
}

// ApplyRanks writes every rank change atomically. A change naming an idea
// that is no longer active aborts the whole batch with idea.ErrNotFound.
func (s *IdeaStore) ApplyRanks(ctx context.Context, changes []idea.RankChange, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		for _, c := range changes {
			n, err := q.UpdateIdeaRank(ctx, db.UpdateIdeaRankParams{
				ID:        c.ID,
				Rank:      int64(c.Rank),
				UpdatedAt: at.UnixNano(),
			})
			if err != nil {
				return err
			}
			if n == 0 {
				return idea.ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, idea.ErrNotFound) {
			return err
		}
		return fmt.Errorf("apply idea ranks: %w", err)
	}
	return nil
}

// Archive archives an active idea.
func (s *IdeaStore) Archive(ctx context.Context, id string, at time.Time) (result.Outcome, error) {
	var outcome result.Outcome
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		n, err := q.ArchiveIdea(ctx, db.ArchiveIdeaParams{ID: id, At: at.UnixNano()})
		if err != nil {
			return err
		}
		if n > 0 {
			outcome = result.Applied
			return nil
		}

		if _, err := q.GetIdea(ctx, id); err != nil {
			if IsNotFoundError(err) {
				return idea.ErrNotFound
			}
			return err
		}
		outcome = result.NoOp
		return nil
	})
	if err != nil {
		if errors.Is(err, idea.ErrNotFound) {
			return result.NoOp, err
		}
		return result.NoOp, fmt.Errorf("archive idea: %w", err)
	}
	return outcome, nil
}

func rowToIdea(row db.Idea) idea.Idea {
	return idea.Idea{
		ID:           row.ID,
		Title:        row.Title,
		ReferenceURL: fromNullString(row.ReferenceURL),
		Rank:         int(row.Rank),
		Status:       idea.Status(row.Status),
		CreatedAt:    time.Unix(0, row.CreatedAt),
		UpdatedAt:    time.Unix(0, row.UpdatedAt),
		ArchivedAt:   fromNullTime(row.ArchivedAt),
	}
}
