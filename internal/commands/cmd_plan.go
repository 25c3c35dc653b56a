package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/printer"
)

type PlanCmd struct {
	flags *Flags
	app   *calm.App

	horizon bool
}

// NewPlanCmd creates a new plan command
func NewPlanCmd(flags *Flags, app *calm.App) *PlanCmd {
	return &PlanCmd{flags: flags, app: app}
}

// Register adds the plan command to the application
func (cmd *PlanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "plan",
		Usage:     "Show the planner",
		UsageText: "calm plan [--horizon] [--json]",
		Description: `Shows active tasks split into overdue, today, tomorrow, the day after,
later and unscheduled, plus how many tasks were finished yesterday.

--horizon limits the view to today, tomorrow and the day after.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "horizon",
				Usage:       "only show the next three days",
				Destination: &cmd.horizon,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PlanCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.horizon {
		h, err := cmd.app.Planner.Horizon(ctx, cmd.flags.TodayKey())
		if err != nil {
			return fmt.Errorf("build horizon: %w", err)
		}
		return emit(c, cmd.flags, h, func(p *printer.Printer) { p.Horizon(h) })
	}

	snap, err := cmd.app.Planner.Snapshot(ctx, cmd.flags.TodayKey())
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}
	return emit(c, cmd.flags, snap, func(p *printer.Printer) { p.Snapshot(snap) })
}
