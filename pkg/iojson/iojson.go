// Package iojson holds helpers for reading and writing JSON from the command
// line.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Error is the JSON shape written for command failures when --json is set.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// WriteLine writes obj as a single compact JSON line.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal json line: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteIndent writes obj as indented JSON followed by a newline.
func WriteIndent(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteError writes msg as an Error object to w.
func WriteError(w io.Writer, msg string, data map[string]any) error {
	return WriteIndent(w, Error{Message: msg, Data: data})
}
