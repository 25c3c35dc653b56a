package printer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/planner"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/task"
)

const today = "2024-03-13"

func ptr[T any](v T) *T { return &v }

func newPrinter() (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, "", today), &buf
}

func TestTasks(t *testing.T) {
	p, buf := newPrinter()
	p.Tasks([]task.Task{
		{ID: "t1", Title: "Write report", DueDate: ptr("2024-03-12"), SessionLengthMinutes: ptr(40), Status: task.StatusActive},
		{ID: "t2", Title: "Water plants", Status: task.StatusDone},
	})

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "2024-03-12")
	assert.Contains(t, out, "40m")
	assert.Contains(t, out, markDone)
	assert.NotContains(t, out, "\x1b[", "no color when the writer is not a terminal")
}

func TestTasks_Empty(t *testing.T) {
	p, buf := newPrinter()
	p.Tasks(nil)
	assert.Equal(t, "No tasks\n", buf.String())
}

func TestIdeas(t *testing.T) {
	p, buf := newPrinter()
	p.Ideas([]idea.Idea{
		{ID: "i1", Title: "Garden", Rank: 1000},
		{ID: "i2", Title: "Read", Rank: 2000, ReferenceURL: ptr("https://example.com")},
	})

	out := buf.String()
	assert.Contains(t, out, "1  i1")
	assert.Contains(t, out, "https://example.com")
}

func TestSnapshot(t *testing.T) {
	keys, err := planner.KeysFor(today)
	require.NoError(t, err)

	p, buf := newPrinter()
	p.Snapshot(planner.Snapshot{
		Horizon: planner.Horizon{
			Keys:       keys,
			TodayTasks: []task.Task{{ID: "t1", Title: "Today thing", DueDate: ptr(today), Status: task.StatusActive}},
		},
		PriorTasks:              []task.Task{{ID: "t0", Title: "Late thing", DueDate: ptr("2024-03-01"), Status: task.StatusActive}},
		YesterdayCompletedCount: 2,
	})

	out := buf.String()
	assert.Contains(t, out, "Planner for 2024-03-13")
	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "Today 2024-03-13 (1)")
	assert.Contains(t, out, "Tomorrow 2024-03-14 (0)")
	assert.Contains(t, out, "Unscheduled (0)")
	assert.Contains(t, out, "2 finished yesterday")
}

func TestHorizon(t *testing.T) {
	keys, err := planner.KeysFor(today)
	require.NoError(t, err)

	p, buf := newPrinter()
	p.Horizon(planner.Horizon{
		Keys:          keys,
		TomorrowTasks: []task.Task{{ID: "t2", Title: "Call the bank", DueDate: ptr("2024-03-14"), Status: task.StatusActive}},
	})

	out := buf.String()
	assert.Contains(t, out, "Next three days from 2024-03-13")
	assert.Contains(t, out, "Tomorrow 2024-03-14 (1)")
	assert.Contains(t, out, "Call the bank")
	assert.Contains(t, out, "Day after 2024-03-15 (0)")
	assert.NotContains(t, out, "Unscheduled")
	assert.NotContains(t, out, "finished yesterday")
}

func TestToday(t *testing.T) {
	t.Run("no ledger", func(t *testing.T) {
		p, buf := newPrinter()
		p.Today(daily.TodayModel{TodayKey: today})
		assert.Contains(t, buf.String(), "Nothing planned yet")
	})

	t.Run("with commitments", func(t *testing.T) {
		at := time.Date(2024, 3, 13, 8, 30, 0, 0, time.Local)
		p, buf := newPrinter()
		p.Today(daily.TodayModel{
			TodayKey:        today,
			Daily:           &daily.Ledger{DateKey: today, CommitmentTaskIDs: []string{"t1"}, MorningCompletedAt: &at},
			CommitmentTasks: []task.Task{{ID: "t1", Title: "Deep work", Status: task.StatusActive}},
		})

		out := buf.String()
		assert.Contains(t, out, "morning 08:30")
		assert.Contains(t, out, "- evening")
		assert.Contains(t, out, "Commitments (1)")
		assert.Contains(t, out, "Deep work")
	})
}

func TestReentry(t *testing.T) {
	tests := []struct {
		name   string
		status planner.ReentryStatus
		want   string
		banner bool
	}{
		{"never", planner.ReentryStatus{}, "No evening review yet", false},
		{"today", planner.ReentryStatus{DaysSinceLastEvening: ptr(0)}, "done today", false},
		{"stale", planner.ReentryStatus{DaysSinceLastEvening: ptr(3), ShouldShowResetBanner: true}, "3 day(s)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newPrinter()
			p.Reentry(tt.status)
			assert.Contains(t, buf.String(), tt.want)
			if tt.banner {
				assert.Contains(t, buf.String(), "calm day ritual reset")
			} else {
				assert.NotContains(t, buf.String(), "ritual reset")
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	p, buf := newPrinter()
	p.Outcome("done", "t1", result.Applied)
	p.Outcome("done", "t1", result.NoOp)
	assert.Equal(t, "t1: done\nt1: nothing to do (done)\n", buf.String())
}
