// Package printer renders planner data for the terminal.
package printer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/planner"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/styles"
	"github.com/colonyops/calm/internal/core/task"
)

const (
	markActive  = "●"
	markDone    = "✔"
	markDropped = "⦵"
	markIdea    = "!"
)

// Printer writes human readable output to w. Color is only emitted when w
// is a terminal.
type Printer struct {
	w        io.Writer
	st       styles.Styles
	todayKey string
}

// New creates a printer for w. todayKey marks overdue and due-today tasks.
func New(w io.Writer, theme, todayKey string) *Printer {
	return &Printer{
		w:        w,
		st:       styles.ForTheme(lipgloss.NewRenderer(w), theme),
		todayKey: todayKey,
	}
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	return tbl
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func mark(t task.Task) string {
	switch t.Status {
	case task.StatusDone:
		return markDone
	case task.StatusDropped:
		return markDropped
	default:
		return markActive
	}
}

func (p *Printer) due(t task.Task) string {
	due := t.Due()
	switch {
	case due == "":
		return p.st.Muted.Render("-")
	case !t.IsActive():
		return due
	case due < p.todayKey:
		return p.st.Overdue.Render(due)
	case due == p.todayKey:
		return p.st.Due.Render(due)
	}
	return due
}

func length(t task.Task) string {
	if t.SessionLengthMinutes == nil {
		return "-"
	}
	return strconv.Itoa(*t.SessionLengthMinutes) + "m"
}

// Tasks prints a task table.
func (p *Printer) Tasks(tasks []task.Task) {
	if len(tasks) == 0 {
		p.line(p.st.Muted.Render("No tasks"))
		return
	}

	tbl := newTable()
	tbl.AddRow("", "ID", "TITLE", "DUE", "LENGTH")
	for _, t := range tasks {
		tbl.AddRow(mark(t), t.ID, t.Title, p.due(t), length(t))
	}
	_, _ = fmt.Fprintln(p.w, tbl)
}

// Task prints a single task.
func (p *Printer) Task(t task.Task) {
	p.Tasks([]task.Task{t})
}

// Ideas prints active ideas in rank order with their 1-based position.
func (p *Printer) Ideas(ideas []idea.Idea) {
	if len(ideas) == 0 {
		p.line(p.st.Muted.Render("No ideas"))
		return
	}

	tbl := newTable()
	tbl.AddRow("#", "ID", "TITLE", "REFERENCE")
	for i, it := range ideas {
		ref := "-"
		if it.ReferenceURL != nil {
			ref = *it.ReferenceURL
		}
		tbl.AddRow(strconv.Itoa(i+1), it.ID, markIdea+" "+it.Title, ref)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(p.w, tbl)
}

func (p *Printer) section(title string, tasks []task.Task) {
	p.line(p.st.Section.Render(fmt.Sprintf("%s (%d)", title, len(tasks))))
	if len(tasks) == 0 {
		return
	}

	tbl := newTable()
	for _, t := range tasks {
		tbl.AddRow("  "+mark(t), t.Title, p.due(t), length(t), p.st.Muted.Render(t.ID))
	}
	_, _ = fmt.Fprintln(p.w, tbl)
}

// Snapshot prints the planner horizon followed by the remaining buckets.
func (p *Printer) Snapshot(s planner.Snapshot) {
	p.line(p.st.Header.Render("Planner for " + s.Today))

	if len(s.PriorTasks) > 0 {
		p.section("Overdue", s.PriorTasks)
	}
	p.horizon(s.Horizon)
	p.section("Later", s.LaterTasks)
	p.section("Unscheduled", s.UnscheduledTasks)

	p.line("")
	p.line(p.st.Muted.Render(fmt.Sprintf("%d active, %d finished yesterday", len(s.ActiveTasks), s.YesterdayCompletedCount)))
}

// Horizon prints only the today, tomorrow and day-after sections.
func (p *Printer) Horizon(h planner.Horizon) {
	p.line(p.st.Header.Render("Next three days from " + h.Today))
	p.horizon(h)
}

func (p *Printer) horizon(h planner.Horizon) {
	p.section("Today "+h.Today, h.TodayTasks)
	p.section("Tomorrow "+h.Tomorrow, h.TomorrowTasks)
	p.section("Day after "+h.DayAfter, h.DayAfterTasks)
}

func (p *Printer) rituals(l daily.Ledger) string {
	parts := make([]string, 0, 3)
	for _, r := range []daily.Ritual{daily.RitualMorning, daily.RitualEvening, daily.RitualReset} {
		if at := l.CompletedAt(r); at != nil {
			parts = append(parts, p.st.Done.Render(markDone+" "+string(r)+" "+at.Format("15:04")))
		} else {
			parts = append(parts, p.st.Muted.Render("- "+string(r)))
		}
	}
	return strings.Join(parts, "  ")
}

// Ledger prints a stored daily ledger.
func (p *Printer) Ledger(l daily.Ledger) {
	p.line(p.st.Header.Render("Day " + l.DateKey))
	p.line(p.rituals(l))
	if len(l.CommitmentTaskIDs) == 0 {
		p.line(p.st.Muted.Render("No commitments"))
		return
	}
	for _, id := range l.CommitmentTaskIDs {
		p.line("  " + markActive + " " + id)
	}
}

// Today prints the day's ledger with commitments resolved to tasks.
func (p *Printer) Today(m daily.TodayModel) {
	p.line(p.st.Header.Render("Today " + m.TodayKey))
	if m.Daily == nil {
		p.line(p.st.Muted.Render("Nothing planned yet"))
		return
	}

	p.line(p.rituals(*m.Daily))
	p.section("Commitments", m.CommitmentTasks)
}

// Reentry prints the days since the last evening review and the reset
// banner when it applies.
func (p *Printer) Reentry(r planner.ReentryStatus) {
	switch {
	case r.DaysSinceLastEvening == nil:
		p.line(p.st.Muted.Render("No evening review yet"))
	case *r.DaysSinceLastEvening == 0:
		p.line("Evening review done today")
	default:
		p.line(fmt.Sprintf("%d day(s) since the last evening review", *r.DaysSinceLastEvening))
	}

	if r.ShouldShowResetBanner {
		p.line(p.st.Banner.Render("It has been a while. Run `calm day ritual reset` to start fresh."))
	}
}

// Outcome reports the result of an idempotent command.
func (p *Printer) Outcome(verb, id string, o result.Outcome) {
	if o == result.NoOp {
		p.line(p.st.Muted.Render(fmt.Sprintf("%s: nothing to do (%s)", id, verb)))
		return
	}
	p.line(fmt.Sprintf("%s: %s", id, verb))
}
