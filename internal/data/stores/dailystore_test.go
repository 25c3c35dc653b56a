package stores

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/calm/internal/core/daily"
)

func TestDailyStore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 13, 9, 0, 0, 0, time.Local)

	add := func(id string) func([]string) ([]string, bool) {
		return func(ids []string) ([]string, bool) {
			if slices.Contains(ids, id) {
				return ids, false
			}
			return append(ids, id), true
		}
	}

	t.Run("get missing", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))
		_, err := store.Get(ctx, "2024-03-13")
		assert.ErrorIs(t, err, daily.ErrNotFound)
	})

	t.Run("get or create is lazy and stable", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))

		l, err := store.GetOrCreate(ctx, "2024-03-13", base)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-13", l.DateKey)
		assert.Empty(t, l.CommitmentTaskIDs)
		assert.NotNil(t, l.CommitmentTaskIDs)
		assert.True(t, l.UpdatedAt.Equal(base))

		again, err := store.GetOrCreate(ctx, "2024-03-13", base.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, again.UpdatedAt.Equal(base), "existing ledger is not rewritten")
	})

	t.Run("modify commitments", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))

		l, changed, err := store.ModifyCommitments(ctx, "2024-03-13", base, add("t1"))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, []string{"t1"}, l.CommitmentTaskIDs)

		_, changed, err = store.ModifyCommitments(ctx, "2024-03-13", base.Add(time.Minute), add("t2"))
		require.NoError(t, err)
		assert.True(t, changed)

		l, changed, err = store.ModifyCommitments(ctx, "2024-03-13", base.Add(2*time.Minute), add("t1"))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, []string{"t1", "t2"}, l.CommitmentTaskIDs)
		assert.True(t, l.UpdatedAt.Equal(base.Add(time.Minute)), "no-op leaves updated_at alone")

		got, err := store.Get(ctx, "2024-03-13")
		require.NoError(t, err)
		assert.Equal(t, []string{"t1", "t2"}, got.CommitmentTaskIDs)
	})

	t.Run("modify commitments dedupes", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))
		l, _, err := store.ModifyCommitments(ctx, "2024-03-13", base, func([]string) ([]string, bool) {
			return []string{"a", "b", "a"}, true
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, l.CommitmentTaskIDs)
	})

	t.Run("mark ritual", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))

		_, _, err := store.ModifyCommitments(ctx, "2024-03-13", base, add("t1"))
		require.NoError(t, err)

		at := base.Add(10 * time.Hour)
		l, err := store.MarkRitual(ctx, "2024-03-13", daily.RitualEvening, at)
		require.NoError(t, err)
		require.NotNil(t, l.EveningCompletedAt)
		assert.True(t, l.EveningCompletedAt.Equal(at))
		assert.Nil(t, l.MorningCompletedAt)
		assert.Equal(t, []string{"t1"}, l.CommitmentTaskIDs)

		later := at.Add(time.Hour)
		l, err = store.MarkRitual(ctx, "2024-03-13", daily.RitualEvening, later)
		require.NoError(t, err)
		assert.True(t, l.EveningCompletedAt.Equal(later), "re-marking overwrites")

		l, err = store.MarkRitual(ctx, "2024-03-14", daily.RitualMorning, later)
		require.NoError(t, err)
		require.NotNil(t, l.MorningCompletedAt)
		assert.Empty(t, l.CommitmentTaskIDs)
	})

	t.Run("list", func(t *testing.T) {
		store := NewDailyStore(newTestDB(t))

		for _, key := range []string{"2024-03-10", "2024-03-12", "2024-03-11", "2024-03-14"} {
			_, err := store.GetOrCreate(ctx, key, base)
			require.NoError(t, err)
		}
		_, err := store.MarkRitual(ctx, "2024-03-11", daily.RitualEvening, base)
		require.NoError(t, err)
		_, err = store.MarkRitual(ctx, "2024-03-14", daily.RitualEvening, base)
		require.NoError(t, err)

		keys := func(ls []daily.Ledger) []string {
			var out []string
			for _, l := range ls {
				out = append(out, l.DateKey)
			}
			return out
		}

		all, err := store.List(ctx, daily.ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-03-14", "2024-03-12", "2024-03-11", "2024-03-10"}, keys(all))

		evenings, err := store.List(ctx, daily.ListFilter{Through: "2024-03-13", EveningOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-03-11"}, keys(evenings))

		limited, err := store.List(ctx, daily.ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-03-14", "2024-03-12"}, keys(limited))
	})
}
