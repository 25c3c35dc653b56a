package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/core/eventbus/testbus"
	"github.com/colonyops/calm/internal/data/db"
)

const testToday = "2024-03-13" // a Wednesday

type harness struct {
	flags *Flags
	app   *calm.App
	bus   *testbus.Bus
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dataDir := t.TempDir()
	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir

	flags := &Flags{
		DataDir: dataDir,
		Today:   testToday,
		Config:  &cfg,
	}

	tb := testbus.New(t)
	app := calm.NewApp(&cfg, database, tb.EventBus, zerolog.Nop(), flags.Now)

	return &harness{flags: flags, app: app, bus: tb}
}

func (h *harness) root(out io.Writer) *cli.Command {
	root := &cli.Command{
		Name:           "calm",
		Writer:         out,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewTaskCmd(h.flags, h.app).Register(root)
	root = NewIdeaCmd(h.flags, h.app).Register(root)
	root = NewDayCmd(h.flags, h.app).Register(root)
	root = NewPlanCmd(h.flags, h.app).Register(root)
	root = NewDBCmd(h.flags, h.app).Register(root)
	root = NewConfigCmd(h.flags).Register(root)
	return root
}

// run executes one command line and returns its output.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	err := h.root(&buf).Run(context.Background(), append([]string{"calm"}, args...))
	return buf.String(), err
}

// runJSON executes args with --json output and decodes it into T.
func runJSON[T any](t *testing.T, h *harness, args ...string) T {
	t.Helper()

	h.flags.JSON = true
	defer func() { h.flags.JSON = false }()

	out, err := h.run(t, args...)
	require.NoError(t, err, out)

	var v T
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &v), out)
	return v
}

type taskOut struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	DueDate              *string `json:"due_date"`
	SessionLengthMinutes *int    `json:"session_length_minutes"`
	Status               string  `json:"status"`
}

// runJSONErr is runJSON for commands expected to fail after writing JSON.
func runJSONErr[T any](t *testing.T, h *harness, args ...string) T {
	t.Helper()

	h.flags.JSON = true
	defer func() { h.flags.JSON = false }()

	out, err := h.run(t, args...)
	require.Error(t, err)

	var v T
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &v), out)
	return v
}
