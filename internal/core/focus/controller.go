package focus

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultSessionMinutes   = 25
	DefaultExtensionMinutes = 15
	MaxSessionMinutes       = 480
	DefaultTickInterval     = time.Second
	DefaultSubscriberBuffer = 4
)

// Options configures a Controller. Zero values take the defaults above.
type Options struct {
	Now                     func() time.Time
	NewTicker               TickerFactory
	TickInterval            time.Duration
	DefaultSessionMinutes   int
	DefaultExtensionMinutes int
	MaxSessionMinutes       int
	SubscriberBuffer        int
	Presenter               Presenter
	Logger                  zerolog.Logger
}

func (o *Options) applyDefaults() {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewTicker == nil {
		o.NewTicker = NewRealTicker
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.DefaultSessionMinutes <= 0 {
		o.DefaultSessionMinutes = DefaultSessionMinutes
	}
	if o.DefaultExtensionMinutes <= 0 {
		o.DefaultExtensionMinutes = DefaultExtensionMinutes
	}
	if o.MaxSessionMinutes <= 0 {
		o.MaxSessionMinutes = MaxSessionMinutes
	}
	if o.SubscriberBuffer <= 0 {
		o.SubscriberBuffer = DefaultSubscriberBuffer
	}
	if o.Presenter == nil {
		o.Presenter = nopPresenter{}
	}
}

type command struct {
	name  string
	fn    func() bool
	reply chan Reply
}

// Controller owns the single focus session. All transitions run on the
// goroutine started by Run; commands and ticks never interleave.
type Controller struct {
	opts Options
	log  zerolog.Logger
	cmds chan command
	done chan struct{}

	// loop-owned
	session Session
	ticker  Ticker

	mu      sync.RWMutex
	current Session
	subs    map[int]chan Session
	nextSub int
}

// NewController builds a controller. Call Run to start processing commands.
func NewController(opts Options) *Controller {
	opts.applyDefaults()
	return &Controller{
		opts:    opts,
		log:     opts.Logger,
		cmds:    make(chan command),
		done:    make(chan struct{}),
		session: Idle(),
		current: Idle(),
		subs:    make(map[int]chan Session),
	}
}

// Run processes commands and ticks until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.stopTicker()

	for {
		var tickC <-chan time.Time
		if c.ticker != nil {
			tickC = c.ticker.C()
		}

		select {
		case <-ctx.Done():
			return nil
		case cmd := <-c.cmds:
			ok := cmd.fn()
			c.log.Debug().Str("command", cmd.name).Bool("ok", ok).Str("status", string(c.session.Status)).Msg("focus command")
			cmd.reply <- Reply{OK: ok, Session: c.session}
		case <-tickC:
			c.tick()
		}
	}
}

// do sends fn to the loop and waits for its reply. When ctx ends or the
// controller has stopped, the rejected reply carries the last known state.
func (c *Controller) do(ctx context.Context, name string, fn func() bool) Reply {
	cmd := command{name: name, fn: fn, reply: make(chan Reply, 1)}

	select {
	case c.cmds <- cmd:
	case <-ctx.Done():
		return Reply{Session: c.State()}
	case <-c.done:
		return Reply{Session: c.State()}
	}

	return <-cmd.reply
}

// Start begins a session for a commitment. Requests from any source other
// than the commitment card, or with a blank id or title, are rejected. An
// out of range length falls back to the default.
func (c *Controller) Start(ctx context.Context, req StartRequest) Reply {
	return c.do(ctx, "start", func() bool {
		if req.Source != SourceCommitmentCard {
			return false
		}

		id := strings.TrimSpace(req.CommitmentID)
		title := strings.TrimSpace(req.CommitmentTitle)
		if id == "" || title == "" {
			return false
		}

		c.start(id, title, c.resolveLength(req.SessionLengthMinutes))
		return true
	})
}

// Stop ends the session from any state.
func (c *Controller) Stop(ctx context.Context) Reply {
	return c.do(ctx, "stop", func() bool {
		c.reset()
		return true
	})
}

// CloseComplete acknowledges a completed session. It behaves like Stop.
func (c *Controller) CloseComplete(ctx context.Context) Reply {
	return c.do(ctx, "close-complete", func() bool {
		c.reset()
		return true
	})
}

// Continue restarts the remembered commitment with its last length.
func (c *Controller) Continue(ctx context.Context) Reply {
	return c.do(ctx, "continue", func() bool {
		if !c.session.HasCommitment() {
			return false
		}

		length := c.session.SessionLengthMinutes
		if length <= 0 {
			length = c.opts.DefaultSessionMinutes
		}
		c.start(c.session.CommitmentID, c.session.CommitmentTitle, c.resolveLength(length))
		return true
	})
}

// Extend pushes the end of the session out and forces it back to running.
// A nil minutes uses the default extension; an explicit value outside
// 1..max falls back to the default session length.
func (c *Controller) Extend(ctx context.Context, minutes *int) Reply {
	return c.do(ctx, "extend", func() bool {
		if !c.session.HasCommitment() {
			return false
		}

		extension := c.opts.DefaultExtensionMinutes
		if minutes != nil {
			extension = c.resolveLength(*minutes)
		}

		now := c.opts.Now()
		base := now
		if c.session.EndsAt != nil && c.session.EndsAt.After(now) {
			base = *c.session.EndsAt
		}
		endsAt := base.Add(time.Duration(extension) * time.Minute)

		startedAt := now
		if c.session.StartedAt != nil {
			startedAt = *c.session.StartedAt
		}

		length := c.session.SessionLengthMinutes
		if length <= 0 {
			length = c.opts.DefaultSessionMinutes
		}

		c.session = Session{
			Status:               StatusRunning,
			CommitmentID:         c.session.CommitmentID,
			CommitmentTitle:      c.session.CommitmentTitle,
			SessionLengthMinutes: length + extension,
			StartedAt:            &startedAt,
			EndsAt:               &endsAt,
		}

		c.opts.Presenter.ShowFocus(c.session)
		c.startTicker()
		c.broadcast()
		return true
	})
}

// State returns the current session without waiting on the loop.
func (c *Controller) State() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Subscribe registers a surface. The channel receives the full session on
// every transition; when the subscriber falls behind its oldest pending
// value is replaced so it always ends up holding the newest state. The
// returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan Session, func()) {
	ch := make(chan Session, c.opts.SubscriberBuffer)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Controller) resolveLength(minutes int) int {
	if minutes < 1 || minutes > c.opts.MaxSessionMinutes {
		return c.opts.DefaultSessionMinutes
	}
	return minutes
}

func (c *Controller) start(id, title string, minutes int) {
	now := c.opts.Now()
	endsAt := now.Add(time.Duration(minutes) * time.Minute)

	c.session = Session{
		Status:               StatusRunning,
		CommitmentID:         id,
		CommitmentTitle:      title,
		SessionLengthMinutes: minutes,
		StartedAt:            &now,
		EndsAt:               &endsAt,
	}

	c.opts.Presenter.ShowFocus(c.session)
	c.startTicker()
	c.broadcast()
}

func (c *Controller) reset() {
	c.stopTicker()
	c.session = Idle()
	c.opts.Presenter.HideFocus()
	c.broadcast()
}

func (c *Controller) tick() {
	if c.session.Status != StatusRunning || c.session.EndsAt == nil {
		c.stopTicker()
		return
	}

	now := c.opts.Now()
	if now.Before(*c.session.EndsAt) {
		c.broadcast()
		return
	}

	c.session.Status = StatusComplete
	c.session.EndsAt = &now
	c.stopTicker()
	c.log.Info().Str("commitment_id", c.session.CommitmentID).Msg("focus session complete")
	c.opts.Presenter.ShowFocus(c.session)
	c.broadcast()
}

func (c *Controller) startTicker() {
	c.stopTicker()
	c.ticker = c.opts.NewTicker(c.opts.TickInterval)
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) broadcast() {
	s := c.session

	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = s
	for _, ch := range c.subs {
		select {
		case ch <- s:
			continue
		default:
		}

		// Full: drop the oldest pending value to make room for the newest.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}
