package planner

import (
	"testing"
	"time"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledger(key string, evening bool) daily.Ledger {
	l := daily.Ledger{DateKey: key}
	if evening {
		at := time.Now()
		l.EveningCompletedAt = &at
	}
	return l
}

func TestReentry(t *testing.T) {
	tests := []struct {
		name       string
		ledgers    []daily.Ledger
		today      string
		wantDays   *int
		wantBanner bool
	}{
		{
			name:     "evening done today",
			ledgers:  []daily.Ledger{ledger("2024-03-08", true), ledger("2024-03-10", true)},
			today:    "2024-03-10",
			wantDays: intp(0),
		},
		{
			name:    "no ledgers",
			ledgers: nil,
			today:   "2024-03-10",
		},
		{
			name:    "ledgers without evening",
			ledgers: []daily.Ledger{ledger("2024-03-09", false), ledger("2024-03-10", false)},
			today:   "2024-03-10",
		},
		{
			name:     "one day since",
			ledgers:  []daily.Ledger{ledger("2024-03-09", true)},
			today:    "2024-03-10",
			wantDays: intp(1),
		},
		{
			name:       "two days since shows banner",
			ledgers:    []daily.Ledger{ledger("2024-03-08", true)},
			today:      "2024-03-10",
			wantDays:   intp(2),
			wantBanner: true,
		},
		{
			name: "most recent evening wins regardless of input order",
			ledgers: []daily.Ledger{
				ledger("2024-03-01", true),
				ledger("2024-03-09", false),
				ledger("2024-03-07", true),
				ledger("2024-03-10", false),
			},
			today:      "2024-03-10",
			wantDays:   intp(3),
			wantBanner: true,
		},
		{
			name:     "future evening counts as zero days",
			ledgers:  []daily.Ledger{ledger("2024-03-12", true), ledger("2024-03-01", true)},
			today:    "2024-03-10",
			wantDays: intp(0),
		},
		{
			name:       "future ledger without evening is skipped",
			ledgers:    []daily.Ledger{ledger("2024-03-12", false), ledger("2024-03-01", true)},
			today:      "2024-03-10",
			wantDays:   intp(9),
			wantBanner: true,
		},
		{
			name:     "across month boundary",
			ledgers:  []daily.Ledger{ledger("2024-02-29", true)},
			today:    "2024-03-01",
			wantDays: intp(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reentry(tt.ledgers, tt.today)
			require.NoError(t, err)

			assert.Equal(t, tt.today, got.TodayKey)
			assert.Equal(t, tt.wantDays, got.DaysSinceLastEvening)
			assert.Equal(t, tt.wantBanner, got.ShouldShowResetBanner)
		})
	}
}

func TestReentry_Threshold(t *testing.T) {
	ledgers := []daily.Ledger{ledger("2024-03-10", true)}

	d1, err := Reentry(ledgers, "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 1, *d1.DaysSinceLastEvening)
	assert.False(t, d1.ShouldShowResetBanner)

	d2, err := Reentry(ledgers, "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, 2, *d2.DaysSinceLastEvening)
	assert.True(t, d2.ShouldShowResetBanner)
}

func TestReentry_InvalidKey(t *testing.T) {
	_, err := Reentry(nil, "soon")
	assert.Error(t, err)
}

func intp(v int) *int { return &v }
