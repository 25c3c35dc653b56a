package calm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/validate"
)

func titles(items []idea.Idea) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func seedIdeas(t *testing.T, app *App, names ...string) map[string]idea.Idea {
	t.Helper()
	out := make(map[string]idea.Idea, len(names))
	for _, n := range names {
		it, err := app.Ideas.Create(context.Background(), n, nil)
		require.NoError(t, err)
		out[n] = it
	}
	return out
}

func TestIdeaService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks and url", func(t *testing.T) {
		app, tb, _ := newTestApp(t)

		first, err := app.Ideas.Create(ctx, " garden ", ptr("  "))
		require.NoError(t, err)
		assert.Equal(t, "garden", first.Title)
		assert.Equal(t, 1, first.Rank)
		assert.Nil(t, first.ReferenceURL)

		second, err := app.Ideas.Create(ctx, "blog", ptr("HTTPS://example.com/post"))
		require.NoError(t, err)
		assert.Equal(t, 2, second.Rank)
		require.NotNil(t, second.ReferenceURL)
		tb.AssertPublished(t, eventbus.EventIdeaCreated)
	})

	for _, raw := range []string{"ftp://example.com", "example.com", "https://"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			app, _, _ := newTestApp(t)
			_, err := app.Ideas.Create(ctx, "x", ptr(raw))
			assert.True(t, validate.IsValidation(err))
		})
	}
}

func TestIdeaService_MoveAndReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("move", func(t *testing.T) {
		app, tb, _ := newTestApp(t)
		ids := seedIdeas(t, app, "a", "b", "c")

		written, err := app.Ideas.Move(ctx, ids["c"].ID, idea.Up)
		require.NoError(t, err)
		assert.Equal(t, 2, written)
		tb.AssertPublished(t, eventbus.EventIdeaReordered)

		active, err := app.Ideas.ListActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c", "b"}, titles(active))

		written, err = app.Ideas.Move(ctx, ids["a"].ID, idea.Up)
		require.NoError(t, err)
		assert.Zero(t, written, "top of the list")

		_, err = app.Ideas.Move(ctx, ids["a"].ID, idea.Direction("left"))
		assert.True(t, validate.IsValidation(err))
	})

	t.Run("reorder clamps and renumbers", func(t *testing.T) {
		app, _, _ := newTestApp(t)
		ids := seedIdeas(t, app, "a", "b", "c", "d")

		written, err := app.Ideas.Reorder(ctx, ids["a"].ID, 99)
		require.NoError(t, err)
		assert.Equal(t, 4, written)

		active, err := app.Ideas.ListActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "d", "a"}, titles(active))
		for i, it := range active {
			assert.Equal(t, i+1, it.Rank)
		}

		written, err = app.Ideas.Reorder(ctx, ids["d"].ID, 2)
		require.NoError(t, err)
		assert.Zero(t, written, "already in place")
	})

	t.Run("archived ideas are not movable", func(t *testing.T) {
		app, _, _ := newTestApp(t)
		ids := seedIdeas(t, app, "a", "b")
		_, err := app.Ideas.Archive(ctx, ids["a"].ID)
		require.NoError(t, err)

		_, err = app.Ideas.Move(ctx, ids["a"].ID, idea.Down)
		assert.ErrorIs(t, err, idea.ErrNotFound)
		_, err = app.Ideas.Reorder(ctx, "ghost", 0)
		assert.ErrorIs(t, err, idea.ErrNotFound)
	})
}

func TestIdeaService_Archive(t *testing.T) {
	ctx := context.Background()
	app, tb, _ := newTestApp(t)
	ids := seedIdeas(t, app, "a", "b", "c")

	outcome, err := app.Ideas.Archive(ctx, ids["b"].ID)
	require.NoError(t, err)
	assert.Equal(t, result.Applied, outcome)
	tb.AssertPublished(t, eventbus.EventIdeaArchived)

	outcome, err = app.Ideas.Archive(ctx, ids["b"].ID)
	require.NoError(t, err)
	assert.Equal(t, result.NoOp, outcome)

	active, err := app.Ideas.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, titles(active))
	assert.Equal(t, 1, active[0].Rank)
	assert.Equal(t, 3, active[1].Rank, "survivors keep their ranks")

	_, err = app.Ideas.Archive(ctx, "ghost")
	assert.ErrorIs(t, err, idea.ErrNotFound)
}
