// Package daily defines the per-day commitment and ritual ledger.
package daily

import (
	"slices"
	"time"

	"github.com/colonyops/calm/internal/core/task"
)

// Ritual is one of the daily check-ins.
type Ritual string

const (
	RitualMorning Ritual = "morning"
	RitualEvening Ritual = "evening"
	RitualReset   Ritual = "reset"
)

// ParseRitual parses a ritual name.
func ParseRitual(s string) (Ritual, bool) {
	switch Ritual(s) {
	case RitualMorning, RitualEvening, RitualReset:
		return Ritual(s), true
	}
	return "", false
}

// Ledger is the record for one calendar day. It is created lazily by the
// first write for its date and never deleted.
type Ledger struct {
	DateKey            string     `json:"date_key"`
	CommitmentTaskIDs  []string   `json:"commitment_task_ids"`
	MorningCompletedAt *time.Time `json:"morning_completed_at,omitempty"`
	EveningCompletedAt *time.Time `json:"evening_completed_at,omitempty"`
	ResetCompletedAt   *time.Time `json:"reset_completed_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Committed reports whether taskID is in the ledger's commitment set.
func (l Ledger) Committed(taskID string) bool {
	return slices.Contains(l.CommitmentTaskIDs, taskID)
}

// CompletedAt returns the completion time of r, or nil.
func (l Ledger) CompletedAt(r Ritual) *time.Time {
	switch r {
	case RitualMorning:
		return l.MorningCompletedAt
	case RitualEvening:
		return l.EveningCompletedAt
	case RitualReset:
		return l.ResetCompletedAt
	}
	return nil
}

// Dedupe collapses duplicate ids, keeping the first occurrence of each.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// TodayModel is the ledger for today together with the committed tasks
// resolved in commitment order.
type TodayModel struct {
	TodayKey        string      `json:"today_key"`
	Daily           *Ledger     `json:"daily"`
	CommitmentTasks []task.Task `json:"commitment_tasks"`
}

// ResolveCommitments looks up every committed id in order, skipping ids
// that lookup cannot find.
func ResolveCommitments(l Ledger, lookup func(id string) (task.Task, bool)) []task.Task {
	out := make([]task.Task, 0, len(l.CommitmentTaskIDs))
	for _, id := range l.CommitmentTaskIDs {
		if t, ok := lookup(id); ok {
			out = append(out, t)
		}
	}
	return out
}
