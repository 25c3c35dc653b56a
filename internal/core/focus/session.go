// Package focus implements the process-wide focus session timer.
package focus

import (
	"math"
	"time"
)

// Status is the state of the focus session.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
)

// SourceCommitmentCard is the only trigger allowed to start a session.
const SourceCommitmentCard = "commitment-card"

// Session is the full focus session value pushed to every surface.
type Session struct {
	Status               Status     `json:"status"`
	CommitmentID         string     `json:"commitment_id,omitempty"`
	CommitmentTitle      string     `json:"commitment_title,omitempty"`
	SessionLengthMinutes int        `json:"session_length_minutes,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	EndsAt               *time.Time `json:"ends_at,omitempty"`
}

// Idle returns the empty session.
func Idle() Session {
	return Session{Status: StatusIdle}
}

// HasCommitment reports whether the session remembers a commitment, which
// Continue and Extend require.
func (s Session) HasCommitment() bool {
	return s.CommitmentID != "" && s.CommitmentTitle != ""
}

// Remaining returns the time left while running, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	if s.Status != StatusRunning || s.EndsAt == nil {
		return 0
	}
	return max(0, s.EndsAt.Sub(now))
}

// RemainingWholeMinutes rounds Remaining up to whole minutes.
func (s Session) RemainingWholeMinutes(now time.Time) int {
	return int(math.Ceil(s.Remaining(now).Minutes()))
}

// Progress returns the elapsed fraction of the session in [0, 1]. A
// complete session reports 1.
func (s Session) Progress(now time.Time) float64 {
	if s.Status == StatusComplete {
		return 1
	}
	if s.Status != StatusRunning || s.StartedAt == nil || s.EndsAt == nil {
		return 0
	}

	total := s.EndsAt.Sub(*s.StartedAt)
	if total <= 0 {
		return 0
	}

	ratio := float64(now.Sub(*s.StartedAt)) / float64(total)
	return math.Max(0, math.Min(1, ratio))
}

// StartRequest is the payload of a start command.
type StartRequest struct {
	Source               string `json:"source"`
	CommitmentID         string `json:"commitment_id"`
	CommitmentTitle      string `json:"commitment_title"`
	SessionLengthMinutes int    `json:"session_length_minutes"`
}

// Reply is returned by every command. OK is false when a command was
// rejected; the session is the state after the command either way.
type Reply struct {
	OK      bool    `json:"ok"`
	Session Session `json:"session"`
}

// Presenter shows and hides the dedicated focus surface.
type Presenter interface {
	ShowFocus(s Session)
	HideFocus()
}

type nopPresenter struct{}

func (nopPresenter) ShowFocus(Session) {}
func (nopPresenter) HideFocus()        {}
