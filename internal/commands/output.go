package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/core/smartinput"
	"github.com/colonyops/calm/internal/printer"
	"github.com/colonyops/calm/pkg/iojson"
)

func newPrinter(c *cli.Command, f *Flags) *printer.Printer {
	return printer.New(c.Root().Writer, f.Theme(), f.TodayKey())
}

// emit writes v as indented JSON when --json is set and calls render
// otherwise.
func emit(c *cli.Command, f *Flags, v any, render func(*printer.Printer)) error {
	if f.JSON {
		return iojson.WriteIndent(c.Root().Writer, v)
	}
	render(newPrinter(c, f))
	return nil
}

// requireArg returns the n-th positional argument or an error naming it.
func requireArg(c *cli.Command, n int, name string) (string, error) {
	v := strings.TrimSpace(c.Args().Get(n))
	if v == "" {
		return "", fmt.Errorf("missing <%s> argument", name)
	}
	return v, nil
}

// resolveDue expands a lone date alias such as "tm" or "fri" to its key.
// Anything else is returned trimmed for the service to validate.
func resolveDue(raw string, now time.Time) string {
	trimmed := strings.TrimSpace(raw)
	if a := smartinput.ParseDateAlias(trimmed, now); a != nil && strings.EqualFold(a.Text, trimmed) {
		return a.DateKey
	}
	return trimmed
}
