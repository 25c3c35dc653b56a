package idea

import "fmt"

// RankChange is a single rank write produced by a move or reorder plan.
type RankChange struct {
	ID   string
	Rank int
}

// NextRank returns the rank a newly created idea receives: one past the
// highest active rank, or 1 for an empty list.
func NextRank(maxActive int) int {
	if maxActive < 0 {
		maxActive = 0
	}
	return maxActive + 1
}

func indexOf(active []Idea, id string) int {
	for i, it := range active {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// PlanMove swaps the rank of id with its neighbor in dir. active must be
// ordered by rank ascending. A move past either end yields no changes.
// Returns ErrNotFound if id is not in the list.
func PlanMove(active []Idea, id string, dir Direction) ([]RankChange, error) {
	idx := indexOf(active, id)
	if idx < 0 {
		return nil, fmt.Errorf("move idea %s: %w", id, ErrNotFound)
	}

	var neighbor int
	switch dir {
	case Up:
		neighbor = idx - 1
	case Down:
		neighbor = idx + 1
	default:
		return nil, fmt.Errorf("move idea %s: unknown direction %q", id, dir)
	}

	if neighbor < 0 || neighbor >= len(active) {
		return nil, nil
	}

	cur, other := active[idx], active[neighbor]
	return []RankChange{
		{ID: cur.ID, Rank: other.Rank},
		{ID: other.ID, Rank: cur.Rank},
	}, nil
}

// PlanReorder moves id to targetIndex (clamped into range) and renumbers
// every active idea to its 1-based position. Only ideas whose rank differs
// from their new position are returned. active must be ordered by rank.
func PlanReorder(active []Idea, id string, targetIndex int) ([]RankChange, error) {
	idx := indexOf(active, id)
	if idx < 0 {
		return nil, fmt.Errorf("reorder idea %s: %w", id, ErrNotFound)
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(active)-1 {
		targetIndex = len(active) - 1
	}

	order := make([]Idea, 0, len(active))
	order = append(order, active[:idx]...)
	order = append(order, active[idx+1:]...)

	moved := active[idx]
	order = append(order[:targetIndex], append([]Idea{moved}, order[targetIndex:]...)...)

	var changes []RankChange
	for i, it := range order {
		if it.Rank != i+1 {
			changes = append(changes, RankChange{ID: it.ID, Rank: i + 1})
		}
	}
	return changes, nil
}
