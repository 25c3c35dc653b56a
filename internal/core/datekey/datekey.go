// Package datekey converts between calendar dates and canonical YYYY-MM-DD
// keys in the local timezone.
//
// Arithmetic always happens at noon (or on calendar components) so that a
// daylight saving change between two days never shifts a result by one.
// Nothing in this package reads the wall clock except Today, which exists
// for process edges that need a default.
package datekey

import (
	"regexp"
	"strings"
	"time"

	"github.com/colonyops/calm/internal/core/validate"
)

// Layout is the canonical date key layout.
const Layout = "2006-01-02"

var keyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fallbackLayouts are tried, in order, by NormalizeDueDate when the input is
// not already a date key.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"Mon Jan 2 2006",
}

// FromTime returns the key of t's calendar date in t's location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the key of now in the local timezone.
func Today(now time.Time) string {
	return FromTime(now.Local())
}

// Noon returns noon on t's calendar date, in t's location.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days after normalizing to noon.
func AddDays(t time.Time, n int) time.Time {
	return Noon(t).AddDate(0, 0, n)
}

// Valid reports whether key is a well formed key naming a real date.
func Valid(key string) bool {
	if !keyPattern.MatchString(key) {
		return false
	}
	_, err := time.Parse(Layout, key)
	return err == nil
}

// Parse returns local noon of the date named by key.
func Parse(key string) (time.Time, error) {
	normalized, err := Normalize(key)
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.ParseInLocation(Layout, normalized, time.Local)
	return Noon(t), nil
}

// StartOf returns local midnight of the date named by key.
func StartOf(key string) (time.Time, error) {
	t, err := Parse(key)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
}

// AddKeyDays returns the key n days after key (n may be negative).
func AddKeyDays(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(AddDays(t, n)), nil
}

// DayDifference returns the whole number of calendar days from b to a,
// clamped at zero. Only the calendar date of each value is considered.
func DayDifference(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)

	days := int(ua.Sub(ub) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

// KeyDayDifference is DayDifference over two keys.
func KeyDayDifference(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return DayDifference(ta, tb), nil
}

// Normalize trims input and requires a YYYY-MM-DD key naming a real date.
func Normalize(input string) (string, error) {
	key := strings.TrimSpace(input)
	if !keyPattern.MatchString(key) {
		return "", validate.Fieldf("date", "expected YYYY-MM-DD, got %q", input)
	}
	if _, err := time.Parse(Layout, key); err != nil {
		return "", validate.Fieldf("date", "%q is not a calendar date", input)
	}
	return key, nil
}

// NormalizeDueDate accepts nil, a blank string, a date key, or any string in
// one of the fallback layouts. Nil and blank input yield nil.
func NormalizeDueDate(input *string) (*string, error) {
	if input == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*input)
	if trimmed == "" {
		return nil, nil
	}

	if keyPattern.MatchString(trimmed) {
		key, err := Normalize(trimmed)
		if err != nil {
			return nil, validate.Fieldf("due_date", "%q is not a calendar date", trimmed)
		}
		return &key, nil
	}

	for _, layout := range fallbackLayouts {
		t, err := time.ParseInLocation(layout, trimmed, time.Local)
		if err != nil {
			continue
		}
		key := FromTime(t.Local())
		return &key, nil
	}

	return nil, validate.Fieldf("due_date", "unrecognized date %q", trimmed)
}
