package eventbus

import (
	"context"
	"sync"
)

// Event names a domain event.
type Event string

type envelope struct {
	event   Event
	payload any
}

// EventBus is an in-process pub/sub bus. Publishing never blocks: events
// are queued on a buffered channel drained by the single dispatcher started
// with Start, and a full buffer drops the event.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
	all  []func(Event, any)
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start dispatches queued events until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

// SubscribeAll registers fn for every event. Used by surfaces that forward
// the raw event stream.
func (bus *EventBus) SubscribeAll(fn func(Event, any)) {
	bus.mu.Lock()
	bus.all = append(bus.all, fn)
	bus.mu.Unlock()
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	all := make([]func(Event, any), len(bus.all))
	copy(all, bus.all)
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.call(env, func() { fn(env.payload) })
	}
	for _, fn := range all {
		bus.call(env, func() { fn(env.event, env.payload) })
	}
}

func (bus *EventBus) call(env envelope, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn()
}
