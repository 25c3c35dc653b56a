// Package task defines the task domain model.
package task

import "time"

// Status represents the lifecycle state of a task. Done and dropped are terminal.
type Status string

const (
	StatusActive  Status = "active"
	StatusDone    Status = "done"
	StatusDropped Status = "dropped"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDone, StatusDropped:
		return true
	}
	return false
}

// Task is a single unit of planned work.
type Task struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	DueDate              *string    `json:"due_date"`
	SessionLengthMinutes *int       `json:"session_length_minutes,omitempty"`
	Status               Status     `json:"status"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	DroppedAt            *time.Time `json:"dropped_at,omitempty"`
}

// IsActive reports whether the task is still open.
func (t Task) IsActive() bool { return t.Status == StatusActive }

// Due returns the due date key, or "" when unscheduled.
func (t Task) Due() string {
	if t.DueDate == nil {
		return ""
	}
	return *t.DueDate
}

// SessionLength returns the task's session length or def when unset.
func (t Task) SessionLength(def int) int {
	if t.SessionLengthMinutes == nil {
		return def
	}
	return *t.SessionLengthMinutes
}

// Update describes a partial change to a task. Nil fields are left alone.
// A DueDate pointing at "" clears the due date and a SessionLengthMinutes
// pointing at 0 clears the session length.
type Update struct {
	Title                *string `json:"title,omitempty"`
	DueDate              *string `json:"due_date,omitempty"`
	SessionLengthMinutes *int    `json:"session_length_minutes,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.Title == nil && u.DueDate == nil && u.SessionLengthMinutes == nil
}
