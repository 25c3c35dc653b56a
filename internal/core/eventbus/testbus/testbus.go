// Package testbus runs a real EventBus for tests and records what it
// dispatches.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/colonyops/calm/internal/core/eventbus"
)

// settle is how long AssertPublished waits for an asynchronous dispatch.
const settle = 500 * time.Millisecond

// Bus is a started EventBus that records every dispatched payload by event.
type Bus struct {
	*eventbus.EventBus

	mu      sync.Mutex
	seen    map[eventbus.Event][]any
	changed chan struct{}
}

// New starts a bus that is stopped when t finishes.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{
		EventBus: eventbus.New(64),
		seen:     make(map[eventbus.Event][]any),
		changed:  make(chan struct{}),
	}
	tb.SubscribeAll(tb.record)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go tb.Start(ctx)

	return tb
}

func (tb *Bus) record(event eventbus.Event, payload any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.seen[event] = append(tb.seen[event], payload)
	close(tb.changed)
	tb.changed = make(chan struct{})
}

// Payloads returns the payloads recorded for event in dispatch order.
func (tb *Bus) Payloads(event eventbus.Event) []any {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return append([]any(nil), tb.seen[event]...)
}

// WaitFor blocks until event has been dispatched at least once or timeout
// elapses.
func (tb *Bus) WaitFor(event eventbus.Event, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		tb.mu.Lock()
		found := len(tb.seen[event]) > 0
		changed := tb.changed
		tb.mu.Unlock()

		if found {
			return true
		}
		select {
		case <-changed:
		case <-deadline.C:
			return false
		}
	}
}

// AssertPublished fails t unless event is dispatched shortly.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	assert.Truef(t, tb.WaitFor(event, settle), "expected %q to be published", event)
}

// AssertNotPublished fails t if event is dispatched within wait.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event, wait time.Duration) {
	t.Helper()
	assert.Falsef(t, tb.WaitFor(event, wait), "expected %q not to be published", event)
}
