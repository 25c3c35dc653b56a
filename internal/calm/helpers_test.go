package calm

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/core/eventbus/testbus"
	"github.com/colonyops/calm/internal/data/db"
)

// testClock is a settable clock shared by every service in a test app.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// wednesday is 2024-03-13 09:00 local.
var wednesday = time.Date(2024, 3, 13, 9, 0, 0, 0, time.Local)

const (
	todayKey    = "2024-03-13"
	tomorrowKey = "2024-03-14"
)

func newTestApp(t *testing.T) (*App, *testbus.Bus, *testClock) {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	clock := &testClock{now: wednesday}
	tb := testbus.New(t)

	return NewApp(&cfg, database, tb.EventBus, zerolog.Nop(), clock.Now), tb, clock
}

func ptr[T any](v T) *T { return &v }
