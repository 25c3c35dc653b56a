package calm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/task"
)

func taskIDs(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestPlannerService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	app, _, clock := newTestApp(t)
	clock.Set(time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local))

	report, err := app.Tasks.Create(ctx, NewTask{Title: "Write report", DueDate: ptr("2024-03-10")})
	require.NoError(t, err)

	snap, err := app.Planner.Snapshot(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, []string{report.ID}, taskIDs(snap.TodayTasks))

	_, _, err = app.Daily.AddCommitment(ctx, "2024-03-10", report.ID)
	require.NoError(t, err)

	model, err := app.Daily.TodayModel(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, []string{report.ID}, taskIDs(model.CommitmentTasks))

	clock.Advance(3 * time.Hour)
	_, err = app.Tasks.MarkDone(ctx, report.ID)
	require.NoError(t, err)

	snap, err = app.Planner.Snapshot(ctx, "2024-03-10")
	require.NoError(t, err)
	assert.Empty(t, snap.ActiveTasks)
	assert.Empty(t, snap.TodayTasks)

	clock.Set(time.Date(2024, 3, 11, 8, 0, 0, 0, time.Local))
	next, err := app.Planner.Snapshot(ctx, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 1, next.YesterdayCompletedCount)
}

func TestPlannerService_SnapshotBuckets(t *testing.T) {
	ctx := context.Background()
	app, _, clock := newTestApp(t)

	create := func(title string, due *string) task.Task {
		clock.Advance(time.Minute)
		tk, err := app.Tasks.Create(ctx, NewTask{Title: title, DueDate: due})
		require.NoError(t, err)
		return tk
	}

	loose := create("loose", nil)
	overdue := create("overdue", ptr("2024-03-01"))
	today := create("today", ptr(todayKey))
	tomorrow := create("tomorrow", ptr(tomorrowKey))
	after := create("after", ptr("2024-03-15"))
	later := create("later", ptr("2024-04-01"))
	later2 := create("later2", ptr("2024-03-16"))

	snap, err := app.Planner.Snapshot(ctx, todayKey)
	require.NoError(t, err)

	assert.Equal(t, []string{loose.ID}, taskIDs(snap.UnscheduledTasks))
	assert.Equal(t, []string{overdue.ID}, taskIDs(snap.PriorTasks))
	assert.Equal(t, []string{today.ID}, taskIDs(snap.TodayTasks))
	assert.Equal(t, []string{tomorrow.ID}, taskIDs(snap.TomorrowTasks))
	assert.Equal(t, []string{after.ID}, taskIDs(snap.DayAfterTasks))
	assert.Equal(t, []string{later2.ID, later.ID}, taskIDs(snap.LaterTasks), "newest first")
	assert.Len(t, snap.ActiveTasks, 7)

	h, err := app.Planner.Horizon(ctx, todayKey)
	require.NoError(t, err)
	assert.Equal(t, []string{today.ID}, taskIDs(h.TodayTasks))
	assert.Equal(t, "2024-03-15", h.Keys.DayAfter)

	_, err = app.Planner.Snapshot(ctx, "not-a-date")
	assert.Error(t, err)
}

func TestPlannerService_Reentry(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t)

	status, err := app.Planner.Reentry(ctx, todayKey)
	require.NoError(t, err)
	assert.Nil(t, status.DaysSinceLastEvening)
	assert.False(t, status.ShouldShowResetBanner)

	_, err = app.Daily.MarkRitualCompleted(ctx, "2024-03-10", daily.RitualEvening)
	require.NoError(t, err)

	tests := []struct {
		today  string
		days   int
		banner bool
	}{
		{today: "2024-03-10", days: 0, banner: false},
		{today: "2024-03-11", days: 1, banner: false},
		{today: "2024-03-12", days: 2, banner: true},
		{today: "2024-03-13", days: 3, banner: true},
	}
	for _, tt := range tests {
		t.Run(tt.today, func(t *testing.T) {
			status, err := app.Planner.Reentry(ctx, tt.today)
			require.NoError(t, err)
			require.NotNil(t, status.DaysSinceLastEvening)
			assert.Equal(t, tt.days, *status.DaysSinceLastEvening)
			assert.Equal(t, tt.banner, status.ShouldShowResetBanner)
		})
	}

	t.Run("future evening is the most recent", func(t *testing.T) {
		_, err := app.Daily.MarkRitualCompleted(ctx, "2024-03-20", daily.RitualEvening)
		require.NoError(t, err)

		status, err := app.Planner.Reentry(ctx, "2024-03-13")
		require.NoError(t, err)
		require.NotNil(t, status.DaysSinceLastEvening)
		assert.Equal(t, 0, *status.DaysSinceLastEvening)
		assert.False(t, status.ShouldShowResetBanner)
	})
}
