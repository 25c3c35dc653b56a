// Package planner builds the derived, date-relative views over tasks and
// ledgers. Every function is pure: callers supply todayKey explicitly.
package planner

import (
	"fmt"
	"slices"

	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/task"
)

// Keys are the date keys around today used by the snapshot.
type Keys struct {
	Today     string `json:"today_key"`
	Tomorrow  string `json:"tomorrow_key"`
	DayAfter  string `json:"day_after_key"`
	Yesterday string `json:"yesterday_key"`
}

// KeysFor computes the neighbouring keys of todayKey.
func KeysFor(todayKey string) (Keys, error) {
	today, err := datekey.Normalize(todayKey)
	if err != nil {
		return Keys{}, err
	}

	// Normalize guarantees the key parses, so the offsets cannot fail.
	tomorrow, _ := datekey.AddKeyDays(today, 1)
	dayAfter, _ := datekey.AddKeyDays(today, 2)
	yesterday, _ := datekey.AddKeyDays(today, -1)

	return Keys{
		Today:     today,
		Tomorrow:  tomorrow,
		DayAfter:  dayAfter,
		Yesterday: yesterday,
	}, nil
}

// Horizon is the today/tomorrow/day-after split.
type Horizon struct {
	Keys
	TodayTasks    []task.Task `json:"today_tasks"`
	TomorrowTasks []task.Task `json:"tomorrow_tasks"`
	DayAfterTasks []task.Task `json:"day_after_tasks"`
}

// Snapshot is the full bucketed planner view.
type Snapshot struct {
	Horizon
	UnscheduledTasks        []task.Task `json:"unscheduled_tasks"`
	LaterTasks              []task.Task `json:"later_tasks"`
	PriorTasks              []task.Task `json:"prior_tasks"`
	ActiveTasks             []task.Task `json:"active_tasks"`
	YesterdayCompletedCount int         `json:"yesterday_completed_count"`
}

// Bucket names the partition a task falls in.
type Bucket string

const (
	BucketUnscheduled Bucket = "unscheduled"
	BucketPrior       Bucket = "prior"
	BucketToday       Bucket = "today"
	BucketTomorrow    Bucket = "tomorrow"
	BucketDayAfter    Bucket = "day_after"
	BucketLater       Bucket = "later"
)

// Classify returns the bucket for a due date relative to keys. Date keys
// compare lexically in calendar order.
func (k Keys) Classify(due *string) Bucket {
	if due == nil || *due == "" {
		return BucketUnscheduled
	}

	switch d := *due; {
	case d < k.Today:
		return BucketPrior
	case d == k.Today:
		return BucketToday
	case d == k.Tomorrow:
		return BucketTomorrow
	case d == k.DayAfter:
		return BucketDayAfter
	default:
		return BucketLater
	}
}

// BuildSnapshot partitions activeTasks into exactly one bucket each and
// counts doneTasks completed yesterday. Today, tomorrow and day-after keep
// input order; unscheduled, prior and later are sorted newest first.
func BuildSnapshot(activeTasks, doneTasks []task.Task, todayKey string) (Snapshot, error) {
	keys, err := KeysFor(todayKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("build snapshot: %w", err)
	}

	snap := Snapshot{
		Horizon: Horizon{
			Keys:          keys,
			TodayTasks:    []task.Task{},
			TomorrowTasks: []task.Task{},
			DayAfterTasks: []task.Task{},
		},
		UnscheduledTasks: []task.Task{},
		LaterTasks:       []task.Task{},
		PriorTasks:       []task.Task{},
		ActiveTasks:      slices.Clone(activeTasks),
	}
	if snap.ActiveTasks == nil {
		snap.ActiveTasks = []task.Task{}
	}

	for _, t := range activeTasks {
		switch keys.Classify(t.DueDate) {
		case BucketUnscheduled:
			snap.UnscheduledTasks = append(snap.UnscheduledTasks, t)
		case BucketPrior:
			snap.PriorTasks = append(snap.PriorTasks, t)
		case BucketToday:
			snap.TodayTasks = append(snap.TodayTasks, t)
		case BucketTomorrow:
			snap.TomorrowTasks = append(snap.TomorrowTasks, t)
		case BucketDayAfter:
			snap.DayAfterTasks = append(snap.DayAfterTasks, t)
		case BucketLater:
			snap.LaterTasks = append(snap.LaterTasks, t)
		}
	}

	sortNewestFirst(snap.UnscheduledTasks)
	sortNewestFirst(snap.PriorTasks)
	sortNewestFirst(snap.LaterTasks)

	for _, t := range doneTasks {
		if t.CompletedAt != nil && datekey.FromTime(t.CompletedAt.Local()) == keys.Yesterday {
			snap.YesterdayCompletedCount++
		}
	}

	return snap, nil
}

// SplitHorizon returns only the today/tomorrow/day-after split.
func SplitHorizon(activeTasks []task.Task, todayKey string) (Horizon, error) {
	keys, err := KeysFor(todayKey)
	if err != nil {
		return Horizon{}, fmt.Errorf("split horizon: %w", err)
	}

	h := Horizon{
		Keys:          keys,
		TodayTasks:    []task.Task{},
		TomorrowTasks: []task.Task{},
		DayAfterTasks: []task.Task{},
	}
	for _, t := range activeTasks {
		switch keys.Classify(t.DueDate) {
		case BucketToday:
			h.TodayTasks = append(h.TodayTasks, t)
		case BucketTomorrow:
			h.TomorrowTasks = append(h.TomorrowTasks, t)
		case BucketDayAfter:
			h.DayAfterTasks = append(h.DayAfterTasks, t)
		}
	}
	return h, nil
}

func sortNewestFirst(tasks []task.Task) {
	slices.SortStableFunc(tasks, func(a, b task.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
