// Package idea defines the rank-ordered idea list.
package idea

import "time"

// Status represents the lifecycle state of an idea.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Idea is a captured idea with an optional reference link. Among active
// ideas Rank is unique and defines display order.
type Idea struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ReferenceURL *string    `json:"reference_url,omitempty"`
	Rank         int        `json:"rank"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty"`
}

// Direction is the direction of an adjacent move.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Up:
		return Up, true
	case Down:
		return Down, true
	}
	return "", false
}
