package planner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/datekey"
)

// ResetBannerThreshold is the number of days without an evening review
// after which the reset ritual is suggested.
const ResetBannerThreshold = 2

// ReentryStatus describes how long it has been since the last evening review.
type ReentryStatus struct {
	TodayKey              string `json:"today_key"`
	DaysSinceLastEvening  *int   `json:"days_since_last_evening"`
	ShouldShowResetBanner bool   `json:"should_show_reset_banner"`
}

// Reentry inspects ledgers for the most recent evening review by date key.
// Input order does not matter and ledgers with malformed keys are ignored.
// An evening dated after todayKey counts as zero days ago.
func Reentry(ledgers []daily.Ledger, todayKey string) (ReentryStatus, error) {
	today, err := datekey.Normalize(todayKey)
	if err != nil {
		return ReentryStatus{}, fmt.Errorf("reentry: %w", err)
	}

	status := ReentryStatus{TodayKey: today}

	candidates := make([]daily.Ledger, 0, len(ledgers))
	for _, l := range ledgers {
		if !datekey.Valid(l.DateKey) {
			continue
		}
		candidates = append(candidates, l)
	}

	slices.SortFunc(candidates, func(a, b daily.Ledger) int {
		return strings.Compare(b.DateKey, a.DateKey)
	})

	for _, l := range candidates {
		if l.EveningCompletedAt == nil {
			continue
		}

		// Both keys are valid, so the difference cannot fail. It clamps at
		// zero for future keys.
		days, _ := datekey.KeyDayDifference(today, l.DateKey)
		status.DaysSinceLastEvening = &days
		status.ShouldShowResetBanner = days >= ResetBannerThreshold
		return status, nil
	}

	return status, nil
}
