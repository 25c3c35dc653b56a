package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/data/db"
)

// DailyStore implements daily.Store using SQLite. Commitment ids are stored
// as a JSON array in a single column.
type DailyStore struct {
	db *db.DB
}

var _ daily.Store = (*DailyStore)(nil)

// NewDailyStore creates a new SQLite-backed ledger store.
func NewDailyStore(db *db.DB) *DailyStore {
	return &DailyStore{db: db}
}

// Get returns the ledger for dateKey.
func (s *DailyStore) Get(ctx context.Context, dateKey string) (daily.Ledger, error) {
	row, err := s.db.Queries().GetDaily(ctx, dateKey)
	if err != nil {
		if IsNotFoundError(err) {
			return daily.Ledger{}, daily.ErrNotFound
		}
		return daily.Ledger{}, fmt.Errorf("get daily: %w", err)
	}
	return rowToLedger(row)
}

// GetOrCreate returns the ledger for dateKey, creating an empty one first.
func (s *DailyStore) GetOrCreate(ctx context.Context, dateKey string, at time.Time) (daily.Ledger, error) {
	var l daily.Ledger
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		l, err = loadOrCreate(ctx, q, dateKey, at)
		return err
	})
	if err != nil {
		return daily.Ledger{}, fmt.Errorf("get or create daily: %w", err)
	}
	return l, nil
}

// ModifyCommitments replaces the commitment list with fn's result.
func (s *DailyStore) ModifyCommitments(
	ctx context.Context,
	dateKey string,
	at time.Time,
	fn func(ids []string) ([]string, bool),
) (daily.Ledger, bool, error) {
	var (
		l       daily.Ledger
		changed bool
	)
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		l, err = loadOrCreate(ctx, q, dateKey, at)
		if err != nil {
			return err
		}

		next, ok := fn(slices.Clone(l.CommitmentTaskIDs))
		if !ok {
			return nil
		}
		next = daily.Dedupe(next)

		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode commitments: %w", err)
		}
		if err := q.UpdateDailyCommitments(ctx, db.UpdateDailyCommitmentsParams{
			DateKey:           dateKey,
			CommitmentTaskIDs: string(encoded),
			UpdatedAt:         at.UnixNano(),
		}); err != nil {
			return err
		}

		changed = true
		l.CommitmentTaskIDs = next
		l.UpdatedAt = time.Unix(0, at.UnixNano())
		return nil
	})
	if err != nil {
		return daily.Ledger{}, false, fmt.Errorf("modify commitments: %w", err)
	}
	return l, changed, nil
}

// MarkRitual stamps a ritual completion.
func (s *DailyStore) MarkRitual(ctx context.Context, dateKey string, r daily.Ritual, at time.Time) (daily.Ledger, error) {
	var l daily.Ledger
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if err := q.InsertDaily(ctx, dateKey, at.UnixNano()); err != nil {
			return err
		}
		if err := q.MarkDailyRitual(ctx, db.MarkDailyRitualParams{
			DateKey: dateKey,
			Ritual:  string(r),
			At:      at.UnixNano(),
		}); err != nil {
			return err
		}

		row, err := q.GetDaily(ctx, dateKey)
		if err != nil {
			return err
		}
		l, err = rowToLedger(row)
		return err
	})
	if err != nil {
		return daily.Ledger{}, fmt.Errorf("mark %s ritual: %w", r, err)
	}
	return l, nil
}

// List returns ledgers newest date first.
func (s *DailyStore) List(ctx context.Context, filter daily.ListFilter) ([]daily.Ledger, error) {
	rows, err := s.db.Queries().ListDaily(ctx, db.ListDailyParams{
		Through:     filter.Through,
		EveningOnly: filter.EveningOnly,
		Limit:       int64(filter.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list daily: %w", err)
	}

	out := make([]daily.Ledger, 0, len(rows))
	for _, row := range rows {
		l, err := rowToLedger(row)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

func loadOrCreate(ctx context.Context, q *db.Queries, dateKey string, at time.Time) (daily.Ledger, error) {
	if err := q.InsertDaily(ctx, dateKey, at.UnixNano()); err != nil {
		return daily.Ledger{}, err
	}
	row, err := q.GetDaily(ctx, dateKey)
	if err != nil {
		return daily.Ledger{}, err
	}
	return rowToLedger(row)
}

func rowToLedger(row db.Daily) (daily.Ledger, error) {
	ids := []string{}
	if row.CommitmentTaskIDs != "" {
		if err := json.Unmarshal([]byte(row.CommitmentTaskIDs), &ids); err != nil {
			return daily.Ledger{}, fmt.Errorf("decode commitments for %s: %w", row.DateKey, err)
		}
	}
	if ids == nil {
		ids = []string{}
	}

	return daily.Ledger{
		DateKey:            row.DateKey,
		CommitmentTaskIDs:  ids,
		MorningCompletedAt: fromNullTime(row.MorningCompletedAt),
		EveningCompletedAt: fromNullTime(row.EveningCompletedAt),
		ResetCompletedAt:   fromNullTime(row.ResetCompletedAt),
		UpdatedAt:          time.Unix(0, row.UpdatedAt),
	}, nil
}
