package eventbus

import (
	"slices"
	"sync"
)

// hookList is a list of callbacks that is copied before each run so hooks may
// register further hooks.
type hookList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (l *hookList[F]) add(fn F) {
	l.mu.Lock()
	l.fns = append(l.fns, fn)
	l.mu.Unlock()
}

func (l *hookList[F]) snapshot() []F {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.fns)
}

// hooks holds the lifecycle callbacks of an EventBus.
type hooks struct {
	published  hookList[func(Event, any)]
	dropped    hookList[func(Event, any)]
	subscribed hookList[func(Event)]
	panicked   hookList[func(Event, any, any)]
}

// OnPublish registers fn to run after an event is queued.
func (bus *EventBus) OnPublish(fn func(Event, any)) { bus.hooks.published.add(fn) }

// OnDrop registers fn to run when an event is discarded because the queue is full.
func (bus *EventBus) OnDrop(fn func(Event, any)) { bus.hooks.dropped.add(fn) }

// OnSubscribe registers fn to run after a typed subscriber is added.
func (bus *EventBus) OnSubscribe(fn func(Event)) { bus.hooks.subscribed.add(fn) }

// OnPanic registers fn to run when a subscriber panics. fn receives the
// recovered value.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) { bus.hooks.panicked.add(fn) }

// send queues an event without blocking. Used by the typed Publish* methods.
func (bus *EventBus) send(event Event, payload any) {
	list := &bus.hooks.published
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
	default:
		list = &bus.hooks.dropped
	}
	for _, fn := range list.snapshot() {
		fn(event, payload)
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	for _, fn := range bus.hooks.subscribed.snapshot() {
		fn(event)
	}
}

// runOnPanic isolates panic hooks from each other; a hook that panics itself
// is ignored.
func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	for _, fn := range bus.hooks.panicked.snapshot() {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}
