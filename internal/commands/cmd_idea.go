package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/printer"
)

// IdeaCmd implements the calm idea command group.
type IdeaCmd struct {
	flags *Flags
	app   *calm.App

	ref string
}

// NewIdeaCmd creates a new idea command.
func NewIdeaCmd(flags *Flags, app *calm.App) *IdeaCmd {
	return &IdeaCmd{flags: flags, app: app}
}

// Register adds the idea command to the application.
func (cmd *IdeaCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "idea",
		Usage: "Keep a ranked list of someday ideas",
		Description: `Ideas are kept in a manual order. New ideas go to the bottom.

Examples:
  calm idea add "Learn to bake bread" --ref https://example.com/bread
  calm idea ls
  calm idea up <id>
  calm idea reorder <id> 1
  calm idea archive <id>`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add an idea",
				UsageText: "calm idea add <title> [--ref <url>]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "ref",
						Usage:       "http(s) reference link",
						Destination: &cmd.ref,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List active ideas in order",
				Action:  cmd.runList,
			},
			{
				Name:          "up",
				ShellComplete: IdeaIDCompleter(cmd.app),
				Usage:         "Move an idea one place up",
				UsageText:     "calm idea up <id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.move(ctx, c, idea.Up)
				},
			},
			{
				Name:          "down",
				ShellComplete: IdeaIDCompleter(cmd.app),
				Usage:         "Move an idea one place down",
				UsageText:     "calm idea down <id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return cmd.move(ctx, c, idea.Down)
				},
			},
			{
				Name:          "reorder",
				ShellComplete: IdeaIDCompleter(cmd.app),
				Usage:         "Move an idea to a position",
				UsageText:     "calm idea reorder <id> <position>",
				Description:   "Positions start at 1 and are clamped to the list.",
				Action:        cmd.runReorder,
			},
			{
				Name:          "archive",
				ShellComplete: IdeaIDCompleter(cmd.app),
				Usage:         "Archive an idea",
				UsageText:     "calm idea archive <id>",
				Action:        cmd.runArchive,
			},
		},
	})

	return app
}

func (cmd *IdeaCmd) runAdd(ctx context.Context, c *cli.Command) error {
	var ref *string
	if cmd.ref != "" {
		ref = &cmd.ref
	}

	created, err := cmd.app.Ideas.Create(ctx, strings.Join(c.Args().Slice(), " "), ref)
	if err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return emit(c, cmd.flags, created, func(p *printer.Printer) { p.Ideas([]idea.Idea{created}) })
}

func (cmd *IdeaCmd) runList(ctx context.Context, c *cli.Command) error {
	ideas, err := cmd.app.Ideas.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list ideas: %w", err)
	}
	return emit(c, cmd.flags, ideas, func(p *printer.Printer) { p.Ideas(ideas) })
}

func (cmd *IdeaCmd) move(ctx context.Context, c *cli.Command, dir idea.Direction) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	if _, err := cmd.app.Ideas.Move(ctx, id, dir); err != nil {
		return fmt.Errorf("move idea: %w", err)
	}
	return cmd.runList(ctx, c)
}

func (cmd *IdeaCmd) runReorder(ctx context.Context, c *cli.Command) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}
	raw, err := requireArg(c, 1, "position")
	if err != nil {
		return err
	}
	pos, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("position must be a number")
	}

	if _, err := cmd.app.Ideas.Reorder(ctx, id, pos-1); err != nil {
		return fmt.Errorf("reorder idea: %w", err)
	}
	return cmd.runList(ctx, c)
}

func (cmd *IdeaCmd) runArchive(ctx context.Context, c *cli.Command) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	outcome, err := cmd.app.Ideas.Archive(ctx, id)
	if err != nil {
		return fmt.Errorf("archive idea: %w", err)
	}
	return emit(c, cmd.flags, outcomeJSON{ID: id, Outcome: outcome}, func(p *printer.Printer) {
		p.Outcome("archived", id, outcome)
	})
}
