package daily

import (
	"testing"
	"time"

	"github.com/colonyops/calm/internal/core/task"
	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"unique", []string{"a", "b"}, []string{"a", "b"}},
		{"keeps first occurrence", []string{"b", "a", "b", "c", "a"}, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedupe(tt.in))
		})
	}
}

func TestLedger_CompletedAt(t *testing.T) {
	now := time.Now()
	l := Ledger{EveningCompletedAt: &now}

	assert.Nil(t, l.CompletedAt(RitualMorning))
	assert.Equal(t, &now, l.CompletedAt(RitualEvening))
	assert.Nil(t, l.CompletedAt(RitualReset))
	assert.Nil(t, l.CompletedAt(Ritual("lunch")))
}

func TestParseRitual(t *testing.T) {
	for _, s := range []string{"morning", "evening", "reset"} {
		r, ok := ParseRitual(s)
		assert.True(t, ok)
		assert.Equal(t, Ritual(s), r)
	}

	_, ok := ParseRitual("Morning")
	assert.False(t, ok)
}

func TestResolveCommitments(t *testing.T) {
	tasks := map[string]task.Task{
		"a": {ID: "a", Title: "A"},
		"c": {ID: "c", Title: "C"},
	}
	lookup := func(id string) (task.Task, bool) {
		tk, ok := tasks[id]
		return tk, ok
	}

	got := ResolveCommitments(Ledger{CommitmentTaskIDs: []string{"c", "missing", "a"}}, lookup)

	assert.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.True(t, Ledger{CommitmentTaskIDs: []string{"c"}}.Committed("c"))
}
