// Package smartinput parses free-text quick-add input such as
// "write report tm for 45m" into a task draft.
package smartinput

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/validate"
)

var (
	aliasPattern = regexp.MustCompile(`(?i)\b(TD|TM|TODAY|TOMORROW|MON|MONDAY|TUE|TUES|TUESDAY|WED|WEDNESDAY|THU|THUR|THURS|THURSDAY|FRI|FRIDAY|SAT|SATURDAY|SUN|SUNDAY)\b`)

	durationPattern = regexp.MustCompile(`(?i)\b(?:for\s+)?(\d+)\s*(hours?|hrs?|hr|h|minutes?|mins?|min|m)\b`)

	spaceRun = regexp.MustCompile(`\s{2,}`)
)

var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday, "SUNDAY": time.Sunday,
	"MON": time.Monday, "MONDAY": time.Monday,
	"TUE": time.Tuesday, "TUES": time.Tuesday, "TUESDAY": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"THU": time.Thursday, "THUR": time.Thursday, "THURS": time.Thursday, "THURSDAY": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday,
}

// Alias is a date alias found in the input.
type Alias struct {
	Text    string `json:"text"`
	DateKey string `json:"date_key"`
	Label   string `json:"label"`
	Start   int    `json:"-"`
	End     int    `json:"-"`
}

// Draft is the parsed form of a quick-add line.
type Draft struct {
	Title                string  `json:"title"`
	DueDate              *string `json:"due_date,omitempty"`
	SessionLengthMinutes *int    `json:"session_length_minutes,omitempty"`
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// ParseDateAlias returns the last date alias in input resolved against now,
// or nil when there is none. Weekday names resolve to the next such day
// strictly after today.
func ParseDateAlias(input string, now time.Time) *Alias {
	matches := aliasPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return nil
	}

	m := matches[len(matches)-1]
	text := input[m[2]:m[3]]
	key, label := resolve(strings.ToUpper(text), now)

	return &Alias{
		Text:    text,
		DateKey: key,
		Label:   label,
		Start:   m[2],
		End:     m[3],
	}
}

func resolve(upper string, now time.Time) (key, label string) {
	switch upper {
	case "TD", "TODAY":
		return datekey.FromTime(now), "Today"
	case "TM", "TOMORROW":
		return datekey.FromTime(datekey.AddDays(now, 1)), "Tomorrow"
	}

	target := weekdays[upper]
	ahead := int(target) - int(now.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	t := datekey.AddDays(now, ahead)
	return datekey.FromTime(t), t.Format("Mon Jan 2")
}

// StripAlias removes a from input and collapses whitespace.
func StripAlias(input string, a *Alias) string {
	if a == nil {
		return collapse(input)
	}
	return collapse(input[:a.Start] + input[a.End:])
}

// ExtractSessionDuration removes the first duration phrase from input and
// returns the cleaned title with the duration in minutes (nil when absent).
// Zero and unparseable amounts are skipped.
func ExtractSessionDuration(input string) (string, *int) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}

	for _, m := range durationPattern.FindAllStringSubmatchIndex(trimmed, -1) {
		amount, err := strconv.Atoi(trimmed[m[2]:m[3]])
		if err != nil || amount <= 0 {
			continue
		}

		unit := strings.ToLower(trimmed[m[4]:m[5]])
		minutes := amount
		if strings.HasPrefix(unit, "h") {
			minutes = amount * 60
		}

		return collapse(trimmed[:m[0]] + " " + trimmed[m[1]:]), &minutes
	}

	return trimmed, nil
}

// ParseDraft parses a quick-add line. A parsed duration outside the allowed
// session range is discarded so the default applies downstream.
func ParseDraft(input string, now time.Time) Draft {
	alias := ParseDateAlias(input, now)
	title, minutes := ExtractSessionDuration(StripAlias(input, alias))

	d := Draft{Title: title}
	if alias != nil {
		key := alias.DateKey
		d.DueDate = &key
	}
	if minutes != nil && validate.InSessionRange(*minutes) {
		d.SessionLengthMinutes = minutes
	}
	return d
}
