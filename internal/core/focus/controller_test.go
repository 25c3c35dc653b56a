package focus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

type manualTicker struct {
	ch chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type tickers struct {
	mu  sync.Mutex
	all []*manualTicker
}

func (ts *tickers) factory(time.Duration) Ticker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	tk := &manualTicker{ch: make(chan time.Time)}
	ts.all = append(ts.all, tk)
	return tk
}

func (ts *tickers) last() *manualTicker {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.all) == 0 {
		return nil
	}
	return ts.all[len(ts.all)-1]
}

type recordingPresenter struct {
	mu    sync.Mutex
	shown []Session
	hides int
}

func (p *recordingPresenter) ShowFocus(s Session) {
	p.mu.Lock()
	p.shown = append(p.shown, s)
	p.mu.Unlock()
}

func (p *recordingPresenter) HideFocus() {
	p.mu.Lock()
	p.hides++
	p.mu.Unlock()
}

func (p *recordingPresenter) counts() (shows, hides int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.shown), p.hides
}

type harness struct {
	c       *Controller
	clock   *fakeClock
	tickers *tickers
	pres    *recordingPresenter
	ctx     context.Context
}

func newHarness(t *testing.T, mutate ...func(*Options)) *harness {
	t.Helper()

	h := &harness{
		clock:   &fakeClock{now: t0},
		tickers: &tickers{},
		pres:    &recordingPresenter{},
	}

	opts := Options{
		Now:       h.clock.Now,
		NewTicker: h.tickers.factory,
		Presenter: h.pres,
		Logger:    zerolog.Nop(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	h.c = NewController(opts)

	ctx, cancel := context.WithCancel(context.Background())
	h.ctx = ctx
	go func() { _ = h.c.Run(ctx) }()
	t.Cleanup(cancel)

	return h
}

func (h *harness) tick(t *testing.T) {
	t.Helper()
	tk := h.tickers.last()
	require.NotNil(t, tk, "no ticker started")

	select {
	case tk.ch <- h.clock.Now():
	case <-time.After(time.Second):
		t.Fatal("tick was not consumed")
	}
}

func waitFor(t *testing.T, ch <-chan Session, pred func(Session) bool) Session {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case s, ok := <-ch:
			require.True(t, ok, "subscription closed")
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for session state")
			return Session{}
		}
	}
}

func startReq(minutes int) StartRequest {
	return StartRequest{
		Source:               SourceCommitmentCard,
		CommitmentID:         "task-1",
		CommitmentTitle:      "Write report",
		SessionLengthMinutes: minutes,
	}
}

func TestController_StartRejects(t *testing.T) {
	tests := []struct {
		name string
		req  StartRequest
	}{
		{"wrong source", StartRequest{Source: "shortcut", CommitmentID: "a", CommitmentTitle: "b", SessionLengthMinutes: 25}},
		{"empty source", StartRequest{CommitmentID: "a", CommitmentTitle: "b"}},
		{"blank id", StartRequest{Source: SourceCommitmentCard, CommitmentID: "  ", CommitmentTitle: "b"}},
		{"blank title", StartRequest{Source: SourceCommitmentCard, CommitmentID: "a", CommitmentTitle: "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			reply := h.c.Start(h.ctx, tt.req)
			assert.False(t, reply.OK)
			assert.Equal(t, StatusIdle, reply.Session.Status)
			assert.Equal(t, StatusIdle, h.c.State().Status)
			assert.Nil(t, h.tickers.last(), "rejected start must not start a ticker")
		})
	}
}

func TestController_StartLength(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{45, 45},
		{1, 1},
		{480, 480},
		{0, 25},
		{-10, 25},
		{481, 25},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			h := newHarness(t)

			reply := h.c.Start(h.ctx, startReq(tt.requested))
			require.True(t, reply.OK)

			s := reply.Session
			assert.Equal(t, StatusRunning, s.Status)
			assert.Equal(t, tt.want, s.SessionLengthMinutes)
			assert.Equal(t, t0, *s.StartedAt)
			assert.Equal(t, t0.Add(time.Duration(tt.want)*time.Minute), *s.EndsAt)
		})
	}
}

func TestController_StartTrimsCommitment(t *testing.T) {
	h := newHarness(t)

	reply := h.c.Start(h.ctx, StartRequest{
		Source:          SourceCommitmentCard,
		CommitmentID:    "  task-1 ",
		CommitmentTitle: " Write report  ",
	})
	require.True(t, reply.OK)
	assert.Equal(t, "task-1", reply.Session.CommitmentID)
	assert.Equal(t, "Write report", reply.Session.CommitmentTitle)

	shows, _ := h.pres.counts()
	assert.Equal(t, 1, shows)
}

func TestController_CompletesAndFreezesEndsAt(t *testing.T) {
	h := newHarness(t)
	sub, unsubscribe := h.c.Subscribe()
	defer unsubscribe()

	require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
	waitFor(t, sub, func(s Session) bool { return s.Status == StatusRunning })

	// One tick before the end keeps running.
	h.clock.Set(t0.Add(25*time.Minute - time.Millisecond))
	h.tick(t)
	running := waitFor(t, sub, func(Session) bool { return true })
	assert.Equal(t, StatusRunning, running.Status)
	assert.Equal(t, t0.Add(25*time.Minute), *running.EndsAt)

	tickAt := t0.Add(25*time.Minute + time.Millisecond)
	h.clock.Set(tickAt)
	h.tick(t)

	done := waitFor(t, sub, func(s Session) bool { return s.Status == StatusComplete })
	assert.Equal(t, tickAt, *done.EndsAt, "endsAt freezes at the completing tick")
	assert.Equal(t, t0, *done.StartedAt)
	assert.True(t, h.tickers.last().isStopped(), "ticker stops on completion")

	h.clock.Set(tickAt.Add(10 * time.Minute))
	state := h.c.State()
	assert.Equal(t, StatusComplete, state.Status)
	assert.Equal(t, tickAt, *state.EndsAt, "endsAt must not drift after completion")

	shows, _ := h.pres.counts()
	assert.Equal(t, 2, shows, "surface shown on start and on completion")
}

func TestController_Stop(t *testing.T) {
	for _, name := range []string{"stop", "close-complete"} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)

			require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
			tk := h.tickers.last()

			var reply Reply
			if name == "stop" {
				reply = h.c.Stop(h.ctx)
			} else {
				reply = h.c.CloseComplete(h.ctx)
			}

			assert.True(t, reply.OK)
			assert.Equal(t, Idle(), reply.Session)
			assert.True(t, tk.isStopped())

			_, hides := h.pres.counts()
			assert.Equal(t, 1, hides)

			assert.False(t, h.c.Continue(h.ctx).OK, "stop forgets the commitment")
			assert.False(t, h.c.Extend(h.ctx, nil).OK)
		})
	}
}

func TestController_ContinueFromColdIdle(t *testing.T) {
	h := newHarness(t)

	reply := h.c.Continue(h.ctx)
	assert.False(t, reply.OK)
	assert.Equal(t, StatusIdle, reply.Session.Status)
}

func TestController_ContinueAfterComplete(t *testing.T) {
	h := newHarness(t)
	sub, unsubscribe := h.c.Subscribe()
	defer unsubscribe()

	require.True(t, h.c.Start(h.ctx, startReq(40)).OK)
	h.clock.Set(t0.Add(41 * time.Minute))
	h.tick(t)
	waitFor(t, sub, func(s Session) bool { return s.Status == StatusComplete })

	later := t0.Add(50 * time.Minute)
	h.clock.Set(later)

	reply := h.c.Continue(h.ctx)
	require.True(t, reply.OK)
	assert.Equal(t, StatusRunning, reply.Session.Status)
	assert.Equal(t, 40, reply.Session.SessionLengthMinutes)
	assert.Equal(t, later, *reply.Session.StartedAt)
	assert.Equal(t, later.Add(40*time.Minute), *reply.Session.EndsAt)
	assert.False(t, h.tickers.last().isStopped(), "continue starts a fresh ticker")
}

func TestController_Extend(t *testing.T) {
	t.Run("from complete uses now as base", func(t *testing.T) {
		h := newHarness(t)
		sub, unsubscribe := h.c.Subscribe()
		defer unsubscribe()

		require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
		doneAt := t0.Add(26 * time.Minute)
		h.clock.Set(doneAt)
		h.tick(t)
		waitFor(t, sub, func(s Session) bool { return s.Status == StatusComplete })

		now := doneAt.Add(2 * time.Minute)
		h.clock.Set(now)

		reply := h.c.Extend(h.ctx, nil)
		require.True(t, reply.OK)
		s := reply.Session
		assert.Equal(t, StatusRunning, s.Status)
		assert.Equal(t, 40, s.SessionLengthMinutes)
		assert.Equal(t, t0, *s.StartedAt, "startedAt preserved")
		assert.Equal(t, now.Add(15*time.Minute), *s.EndsAt)
	})

	t.Run("while running adds to endsAt", func(t *testing.T) {
		h := newHarness(t)

		require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
		h.clock.Set(t0.Add(5 * time.Minute))

		reply := h.c.Extend(h.ctx, minutes(10))
		require.True(t, reply.OK)
		assert.Equal(t, 35, reply.Session.SessionLengthMinutes)
		assert.Equal(t, t0.Add(35*time.Minute), *reply.Session.EndsAt)
	})

	t.Run("invalid explicit minutes use the session default", func(t *testing.T) {
		for _, m := range []int{0, -1, 1000} {
			h := newHarness(t)

			require.True(t, h.c.Start(h.ctx, startReq(25)).OK)

			reply := h.c.Extend(h.ctx, minutes(m))
			require.True(t, reply.OK, "minutes=%d", m)
			assert.Equal(t, 50, reply.Session.SessionLengthMinutes, "minutes=%d", m)
			assert.Equal(t, t0.Add(50*time.Minute), *reply.Session.EndsAt, "minutes=%d", m)
		}
	})

	t.Run("custom default extension", func(t *testing.T) {
		h := newHarness(t, func(o *Options) { o.DefaultExtensionMinutes = 5 })

		require.True(t, h.c.Start(h.ctx, startReq(25)).OK)

		reply := h.c.Extend(h.ctx, nil)
		require.True(t, reply.OK)
		assert.Equal(t, 30, reply.Session.SessionLengthMinutes)
	})
}

func minutes(v int) *int { return &v }

func TestController_SlowSubscriberGetsNewest(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.SubscriberBuffer = 1 })
	sub, unsubscribe := h.c.Subscribe()
	defer unsubscribe()

	require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
	require.True(t, h.c.Extend(h.ctx, minutes(5)).OK)
	require.True(t, h.c.Extend(h.ctx, minutes(5)).OK)
	require.True(t, h.c.Stop(h.ctx).OK)

	// Commands reply only after broadcasting, so the buffer is settled.
	require.Len(t, sub, 1)
	latest := <-sub
	assert.Equal(t, Idle(), latest)
}

func TestController_MultipleSubscribers(t *testing.T) {
	h := newHarness(t)
	a, unsubA := h.c.Subscribe()
	b, unsubB := h.c.Subscribe()
	defer unsubB()

	require.True(t, h.c.Start(h.ctx, startReq(25)).OK)
	waitFor(t, a, func(s Session) bool { return s.Status == StatusRunning })
	waitFor(t, b, func(s Session) bool { return s.Status == StatusRunning })

	unsubA()
	unsubA()
	_, open := <-a
	assert.False(t, open, "unsubscribe closes the channel")

	require.True(t, h.c.Stop(h.ctx).OK)
	waitFor(t, b, func(s Session) bool { return s.Status == StatusIdle })
	assert.Equal(t, StatusIdle, h.c.State().Status, "closing a surface does not affect the session")
}

func TestController_CommandsAfterShutdown(t *testing.T) {
	c := NewController(Options{Logger: zerolog.Nop()})
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		_ = c.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	reply := c.Start(context.Background(), startReq(25))
	assert.False(t, reply.OK)
	assert.Equal(t, StatusIdle, reply.Session.Status)
}

func TestSession_Helpers(t *testing.T) {
	start := t0
	end := t0.Add(25 * time.Minute)
	running := Session{Status: StatusRunning, StartedAt: &start, EndsAt: &end}

	assert.Equal(t, 25*time.Minute, running.Remaining(t0))
	assert.Equal(t, 25, running.RemainingWholeMinutes(t0))
	assert.Equal(t, 24, running.RemainingWholeMinutes(t0.Add(61*time.Second)))
	assert.Equal(t, 1, running.RemainingWholeMinutes(end.Add(-time.Millisecond)))
	assert.Equal(t, time.Duration(0), running.Remaining(end.Add(time.Minute)))
	assert.Equal(t, 0, running.RemainingWholeMinutes(end.Add(time.Minute)))

	assert.InDelta(t, 0.0, running.Progress(t0.Add(-time.Minute)), 1e-9)
	assert.InDelta(t, 0.5, running.Progress(t0.Add(12*time.Minute+30*time.Second)), 1e-9)
	assert.InDelta(t, 1.0, running.Progress(end.Add(time.Hour)), 1e-9)

	complete := running
	complete.Status = StatusComplete
	assert.Equal(t, 1.0, complete.Progress(t0))
	assert.Equal(t, time.Duration(0), complete.Remaining(t0))

	assert.Equal(t, 0.0, Idle().Progress(t0))
	assert.False(t, Idle().HasCommitment())
}
