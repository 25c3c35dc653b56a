package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/printer"
)

// DayCmd implements the calm day command group.
type DayCmd struct {
	flags *Flags
	app   *calm.App

	date   string
	create bool
}

// NewDayCmd creates a new day command.
func NewDayCmd(flags *Flags, app *calm.App) *DayCmd {
	return &DayCmd{flags: flags, app: app}
}

func (cmd *DayCmd) dateFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "date",
		Usage:       "ledger date (defaults to today)",
		Destination: &cmd.date,
	}
}

// dateKey is --date or today.
func (cmd *DayCmd) dateKey() string {
	if cmd.date != "" {
		return cmd.date
	}
	return cmd.flags.TodayKey()
}

// Register adds the day command to the application.
func (cmd *DayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "day",
		Usage: "Daily commitments and rituals",
		Description: `Each day has a ledger of committed task ids and the times the morning,
evening and reset rituals were completed.

Examples:
  calm day show
  calm day commit <id> <id>
  calm day add <id> --date 2024-03-14
  calm day ritual evening
  calm day reentry`,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show today's commitments, or a stored ledger",
				UsageText: "calm day show [--date <date>] [--create]",
				Flags: []cli.Flag{
					cmd.dateFlag(),
					&cli.BoolFlag{
						Name:        "create",
						Usage:       "start an empty ledger for the date when none exists",
						Destination: &cmd.create,
					},
				},
				Action: cmd.runShow,
			},
			{
				Name:          "commit",
				ShellComplete: TaskIDCompleter(cmd.app),
				Usage:         "Replace the day's commitments",
				UsageText:     "calm day commit <id>... [--date <date>]",
				Description:   "Every id must name an active task. Duplicates are removed; no ids clears the list.",
				Flags:         []cli.Flag{cmd.dateFlag()},
				Action:        cmd.runCommit,
			},
			{
				Name:          "add",
				ShellComplete: TaskIDCompleter(cmd.app),
				Usage:         "Commit to one more task",
				UsageText:     "calm day add <id> [--date <date>]",
				Flags:         []cli.Flag{cmd.dateFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.change(ctx, c, "committed", cmd.app.Daily.AddCommitment)
				},
			},
			{
				Name:          "rm",
				ShellComplete: TaskIDCompleter(cmd.app),
				Usage:         "Remove a commitment",
				UsageText:     "calm day rm <id> [--date <date>]",
				Flags:         []cli.Flag{cmd.dateFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.change(ctx, c, "uncommitted", cmd.app.Daily.RemoveCommitment)
				},
			},
			{
				Name:      "ritual",
				Usage:     "Mark a ritual completed",
				UsageText: "calm day ritual morning|evening|reset [--date <date>]",
				Flags:     []cli.Flag{cmd.dateFlag()},
				Action:    cmd.runRitual,
			},
			{
				Name:   "reentry",
				Usage:  "Days since the last evening review",
				Action: cmd.runReentry,
			},
		},
	})

	return app
}

func (cmd *DayCmd) runShow(ctx context.Context, c *cli.Command) error {
	if cmd.create {
		l, err := cmd.app.Daily.GetOrCreate(ctx, cmd.dateKey())
		if err != nil {
			return fmt.Errorf("get or create ledger: %w", err)
		}
		return emit(c, cmd.flags, l, func(p *printer.Printer) { p.Ledger(l) })
	}

	if cmd.date != "" && cmd.date != cmd.flags.TodayKey() {
		l, err := cmd.app.Daily.Get(ctx, cmd.date)
		if err != nil {
			return fmt.Errorf("get ledger: %w", err)
		}
		return emit(c, cmd.flags, l, func(p *printer.Printer) { p.Ledger(l) })
	}

	model, err := cmd.app.Daily.TodayModel(ctx, cmd.flags.TodayKey())
	if err != nil {
		return fmt.Errorf("today: %w", err)
	}
	return emit(c, cmd.flags, model, func(p *printer.Printer) { p.Today(model) })
}

func (cmd *DayCmd) runCommit(ctx context.Context, c *cli.Command) error {
	l, err := cmd.app.Daily.SetCommitments(ctx, cmd.dateKey(), c.Args().Slice())
	if err != nil {
		return fmt.Errorf("set commitments: %w", err)
	}
	return emit(c, cmd.flags, l, func(p *printer.Printer) { p.Ledger(l) })
}

type commitmentFunc func(ctx context.Context, dateKey, taskID string) (daily.Ledger, result.Outcome, error)

func (cmd *DayCmd) change(ctx context.Context, c *cli.Command, verb string, fn commitmentFunc) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	l, outcome, err := fn(ctx, cmd.dateKey(), id)
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}

	out := struct {
		Daily   daily.Ledger   `json:"daily"`
		Outcome result.Outcome `json:"outcome"`
	}{l, outcome}
	return emit(c, cmd.flags, out, func(p *printer.Printer) { p.Outcome(verb, id, outcome) })
}

func (cmd *DayCmd) runRitual(ctx context.Context, c *cli.Command) error {
	name, err := requireArg(c, 0, "ritual")
	if err != nil {
		return err
	}
	r, ok := daily.ParseRitual(name)
	if !ok {
		return fmt.Errorf("ritual must be one of morning, evening or reset")
	}

	l, err := cmd.app.Daily.MarkRitualCompleted(ctx, cmd.dateKey(), r)
	if err != nil {
		return fmt.Errorf("mark ritual: %w", err)
	}
	return emit(c, cmd.flags, l, func(p *printer.Printer) { p.Ledger(l) })
}

func (cmd *DayCmd) runReentry(ctx context.Context, c *cli.Command) error {
	status, err := cmd.app.Planner.Reentry(ctx, cmd.flags.TodayKey())
	if err != nil {
		return fmt.Errorf("reentry: %w", err)
	}
	return emit(c, cmd.flags, status, func(p *printer.Printer) { p.Reentry(status) })
}
