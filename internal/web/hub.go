package web

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/focus"
)

// Message is one server-sent event.
type Message struct {
	Event string
	Data  any
}

// Hub fans messages out to stream subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the message.
type Hub struct {
	buffer int
	log    zerolog.Logger

	mu   sync.Mutex
	next int
	subs map[int]chan Message
}

// NewHub creates a hub with the given per-subscriber buffer.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		buffer: buffer,
		log:    log,
		subs:   make(map[int]chan Message),
	}
}

// Publish sends a message to every subscriber.
func (h *Hub) Publish(event string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- Message{Event: event, Data: data}:
		default:
			h.log.Warn().Int("subscriber", id).Str("event", event).Msg("stream subscriber full, message dropped")
		}
	}
}

// Subscribe registers a subscriber. The returned func removes it and closes
// the channel; calling it twice is safe.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Message, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// BridgeEvents forwards every domain event on bus to the hub under its
// event name.
func BridgeEvents(bus *eventbus.EventBus, hub *Hub) {
	bus.SubscribeAll(func(e eventbus.Event, payload any) {
		hub.Publish(string(e), payload)
	})
}

func isFocusEvent(name string) bool {
	return strings.HasPrefix(name, "focus:")
}

// SurfacePresenter stands in for the focus window: it logs and pushes a
// focus:surface message to stream clients.
type SurfacePresenter struct {
	hub *Hub
	log zerolog.Logger
}

var _ focus.Presenter = (*SurfacePresenter)(nil)

// NewSurfacePresenter creates a presenter publishing to hub.
func NewSurfacePresenter(hub *Hub, log zerolog.Logger) *SurfacePresenter {
	return &SurfacePresenter{hub: hub, log: log}
}

// SurfaceMessage is the payload of a focus:surface event.
type SurfaceMessage struct {
	Visible bool           `json:"visible"`
	Session *focus.Session `json:"session,omitempty"`
}

// ShowFocus implements focus.Presenter.
func (p *SurfacePresenter) ShowFocus(s focus.Session) {
	p.log.Info().Str("status", string(s.Status)).Str("commitment", s.CommitmentID).Msg("show focus surface")
	p.hub.Publish(EventFocusSurface, SurfaceMessage{Visible: true, Session: &s})
}

// HideFocus implements focus.Presenter.
func (p *SurfacePresenter) HideFocus() {
	p.log.Info().Msg("hide focus surface")
	p.hub.Publish(EventFocusSurface, SurfaceMessage{Visible: false})
}
