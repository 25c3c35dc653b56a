// Package result tags the outcome of idempotent write operations.
package result

// Outcome reports whether a write changed stored state.
type Outcome string

const (
	// Applied means the write changed state.
	Applied Outcome = "applied"
	// NoOp means the request was valid but already satisfied
	// (double-complete, move past a boundary, re-adding a commitment).
	NoOp Outcome = "noop"
)

// Changed reports whether the outcome modified state.
func (o Outcome) Changed() bool { return o == Applied }

// Of returns Applied when changed is true and NoOp otherwise.
func Of(changed bool) Outcome {
	if changed {
		return Applied
	}
	return NoOp
}
