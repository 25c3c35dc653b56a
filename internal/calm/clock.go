package calm

import "time"

// Clock returns the current time. Services read time only through a Clock so
// tests can pin it.
type Clock func() time.Time

func (c Clock) orSystem() Clock {
	if c == nil {
		return time.Now
	}
	return c
}
