package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteLine(&buf, map[string]int{"a": 1}))
	require.NoError(t, WriteLine(&buf, map[string]int{"b": 2}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`}, lines)
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteError(&buf, "boom", map[string]any{"id": "x"}))
	assert.Contains(t, buf.String(), `"message": "boom"`)
	assert.Contains(t, buf.String(), `"id": "x"`)
}

func TestFileReader(t *testing.T) {
	type doc struct {
		Name string `json:"name"`
	}

	t.Run("reads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "in.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"file"}`), 0o644))

		fr := &FileReader[doc]{path: path}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "file", got.Name)
	})

	t.Run("reads from stdin", func(t *testing.T) {
		fr := &FileReader[doc]{stdin: strings.NewReader(`{"name":"stdin"}`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, "stdin", got.Name)
	})

	t.Run("invalid json", func(t *testing.T) {
		fr := &FileReader[doc]{stdin: strings.NewReader(`{`)}
		_, err := fr.Read()
		assert.ErrorContains(t, err, "decode JSON")
	})
}
