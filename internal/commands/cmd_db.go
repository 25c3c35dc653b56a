package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gosuri/uitable"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/data/stores"
	"github.com/colonyops/calm/pkg/iojson"
)

// DBCmd implements the calm db command group.
type DBCmd struct {
	flags *Flags
	app   *calm.App

	steps string
}

// NewDBCmd creates a new db command.
func NewDBCmd(flags *Flags, app *calm.App) *DBCmd {
	return &DBCmd{flags: flags, app: app}
}

// Register adds the db command to the application.
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Database maintenance",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "List applied migrations",
				UsageText: "calm db status",
				Action:    cmd.runStatus,
			},
			{
				Name:        "rollback",
				Usage:       "Revert the most recent migrations",
				UsageText:   "calm db rollback [--steps n]",
				Description: "Reverts n migrations (default 1), newest first. Tables dropped by a revert lose their data.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "steps",
						Usage:       "number of migrations to revert",
						Value:       "1",
						Destination: &cmd.steps,
					},
				},
				Action: cmd.runRollback,
			},
			{
				Name:      "recover",
				Usage:     "Move a corrupt database aside",
				UsageText: "calm db recover",
				Description: `Renames calm.db (and its -wal/-shm files) to calm.db.corrupt.<timestamp>
so the next command starts with an empty database. Runs without opening the
database.`,
				Action: cmd.runRecover,
			},
		},
	})

	return app
}

func (cmd *DBCmd) runStatus(ctx context.Context, c *cli.Command) error {
	applied, err := cmd.app.DB.Applied(ctx)
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}

	out := c.Root().Writer
	if cmd.flags.JSON {
		return iojson.WriteIndent(out, applied)
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("VERSION", "NAME", "APPLIED")
	for _, m := range applied {
		tbl.AddRow(m.Version, m.Name, m.AppliedAt.Local().Format(time.DateTime))
	}
	_, _ = fmt.Fprintln(out, tbl)
	_, _ = fmt.Fprintf(out, "database: %s\n", cmd.app.DB.Path())
	return nil
}

func (cmd *DBCmd) runRollback(ctx context.Context, c *cli.Command) error {
	n, err := strconv.Atoi(cmd.steps)
	if err != nil || n < 1 {
		return fmt.Errorf("--steps must be a positive integer")
	}

	if err := cmd.app.DB.Rollback(ctx, n); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	log.Warn().Int("steps", n).Msg("migrations reverted")
	_, _ = fmt.Fprintf(c.Root().Writer, "reverted %d migration(s)\n", n)
	return nil
}

func (cmd *DBCmd) runRecover(_ context.Context, c *cli.Command) error {
	backup, err := stores.RecoverFromCorruption(cmd.flags.DataDir, time.Now())
	if err != nil {
		return fmt.Errorf("recover database: %w", err)
	}

	out := c.Root().Writer
	if backup == "" {
		_, _ = fmt.Fprintln(out, "no database found, nothing to recover")
		return nil
	}

	log.Warn().Str("backup", backup).Msg("corrupt database moved aside")
	_, _ = fmt.Fprintf(out, "moved database to %s\n", backup)
	return nil
}

// Hint returns a follow-up suggestion for storage errors a user can act on,
// or "" when there is none.
func Hint(err error) string {
	switch {
	case stores.IsCorruptionError(err):
		return "the database looks corrupt; run 'calm db recover' to move it aside"
	case stores.IsBusyError(err):
		return "the database is locked by another calm process; try again"
	}
	return ""
}

// SkipsDatabase reports whether args run a command that must not open the
// database.
func SkipsDatabase(args []string) bool {
	return len(args) >= 2 && args[0] == "db" && args[1] == "recover"
}
