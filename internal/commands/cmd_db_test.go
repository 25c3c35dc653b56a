package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/data/db"
)

func TestDBStatusAndRollback(t *testing.T) {
	h := newHarness(t)

	applied := runJSON[[]db.AppliedMigration](t, h, "db", "status")
	require.Len(t, applied, 2)
	assert.Equal(t, 1, applied[0].Version)
	assert.Equal(t, "init", applied[0].Name)

	out, err := h.run(t, "db", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "list_indexes")
	assert.Contains(t, out, "database: ")

	_, err = h.run(t, "db", "rollback", "--steps", "zero")
	require.Error(t, err)

	out, err = h.run(t, "db", "rollback")
	require.NoError(t, err)
	assert.Equal(t, "reverted 1 migration(s)\n", out)

	applied = runJSON[[]db.AppliedMigration](t, h, "db", "status")
	assert.Len(t, applied, 1)
}

func TestDBRecover(t *testing.T) {
	h := newHarness(t)

	t.Run("nothing to recover", func(t *testing.T) {
		h.flags.DataDir = t.TempDir()
		out, err := h.run(t, "db", "recover")
		require.NoError(t, err)
		assert.Contains(t, out, "nothing to recover")
	})

	t.Run("moves database aside", func(t *testing.T) {
		dir := t.TempDir()
		h.flags.DataDir = dir
		require.NoError(t, os.WriteFile(filepath.Join(dir, db.FileName), []byte("garbage"), 0o644))

		out, err := h.run(t, "db", "recover")
		require.NoError(t, err)
		assert.Contains(t, out, "calm.db.corrupt.")

		_, err = os.Stat(filepath.Join(dir, db.FileName))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestSkipsDatabase(t *testing.T) {
	assert.True(t, SkipsDatabase([]string{"db", "recover"}))
	assert.False(t, SkipsDatabase([]string{"db", "status"}))
	assert.False(t, SkipsDatabase([]string{"plan"}))
	assert.False(t, SkipsDatabase(nil))
}

func TestHint(t *testing.T) {
	assert.Contains(t, Hint(fmt.Errorf("open database: %w", errors.New("file is not a database"))), "calm db recover")
	assert.Empty(t, Hint(errors.New("title is required")))
	assert.Empty(t, Hint(nil))
}

func TestConfigValidate(t *testing.T) {
	h := newHarness(t)
	h.flags.ConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	out, err := h.run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	h.flags.Config.UI.Theme = "solarized"
	out, err = h.run(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, out, "ui.theme")

	res := runJSONErr[struct {
		Valid  bool          `json:"valid"`
		Errors []configIssue `json:"errors"`
	}](t, h, "config", "validate")
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "ui.theme", res.Errors[0].Field)
}

func TestConfigShow(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "config", "show")
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, h.flags.Config.Server.Addr, cfg.Server.Addr)
	assert.Equal(t, h.flags.Config.Focus.TickInterval, cfg.Focus.TickInterval)
}
