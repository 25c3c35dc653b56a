package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/task"
	"github.com/colonyops/calm/internal/printer"
)

// TaskCmd implements the calm task command group.
type TaskCmd struct {
	flags *Flags
	app   *calm.App

	// add/edit flags
	due    string
	length string
	title  string

	// ls flags
	status string
	order  string
	asc    bool
	limit  string

	// due flags
	clear bool
}

// NewTaskCmd creates a new task command.
func NewTaskCmd(flags *Flags, app *calm.App) *TaskCmd {
	return &TaskCmd{flags: flags, app: app}
}

// Register adds the task command to the application.
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "task",
		Aliases: []string{"t"},
		Usage:   "Manage tasks",
		Description: `Task commands create, schedule and finish tasks.

Due dates accept YYYY-MM-DD or an alias: td, tm, mon..sun.

Examples:
  calm task add "Write report" --due tm --length 45
  calm task quick "call the bank fri 15m"
  calm task ls --order due --asc
  calm task due <id> 2024-03-20
  calm task done <id>`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.quickCmd(),
			cmd.listCmd(),
			cmd.editCmd(),
			cmd.doneCmd(),
			cmd.dropCmd(),
			cmd.dueCmd(),
			NewTaskImportCmd(cmd.flags, cmd.app).Command(),
		},
	})

	return app
}

func (cmd *TaskCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a task",
		UsageText: "calm task add <title> [--due <date>] [--length <minutes>]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "due",
				Aliases:     []string{"d"},
				Usage:       "due date (YYYY-MM-DD or alias)",
				Destination: &cmd.due,
			},
			&cli.StringFlag{
				Name:        "length",
				Aliases:     []string{"l"},
				Usage:       "focus session length in minutes (1-480)",
				Destination: &cmd.length,
			},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	in := calm.NewTask{Title: strings.Join(c.Args().Slice(), " ")}

	if cmd.due != "" {
		due := resolveDue(cmd.due, cmd.flags.Now())
		in.DueDate = &due
	}
	if cmd.length != "" {
		n, err := parseMinutes(cmd.length)
		if err != nil {
			return err
		}
		in.SessionLengthMinutes = &n
	}

	t, err := cmd.app.Tasks.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return emit(c, cmd.flags, t, func(p *printer.Printer) { p.Task(t) })
}

func (cmd *TaskCmd) quickCmd() *cli.Command {
	return &cli.Command{
		Name:      "quick",
		Aliases:   []string{"q"},
		Usage:     "Create a task from free text",
		UsageText: "calm task quick <text...>",
		Description: `Parses a date alias (td, tm, mon..sun) and a duration ("45m", "for 1h")
out of the text. Durations outside 1-480 minutes are ignored.`,
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := cmd.app.Tasks.QuickAdd(ctx, strings.Join(c.Args().Slice(), " "))
			if err != nil {
				return fmt.Errorf("quick add: %w", err)
			}
			return emit(c, cmd.flags, t, func(p *printer.Printer) { p.Task(t) })
		},
	}
}

func (cmd *TaskCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks",
		UsageText: "calm task ls [--status active|done|dropped] [--order created|due|updated] [--asc] [--limit n]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "status",
				Usage:       "filter by status",
				Value:       string(task.StatusActive),
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "order",
				Usage:       "order by created, due or updated",
				Value:       string(task.OrderCreated),
				Destination: &cmd.order,
			},
			&cli.BoolFlag{
				Name:        "asc",
				Usage:       "ascending order (default newest first)",
				Destination: &cmd.asc,
			},
			&cli.StringFlag{
				Name:        "limit",
				Usage:       "maximum number of tasks",
				Destination: &cmd.limit,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *TaskCmd) runList(ctx context.Context, c *cli.Command) error {
	order, ok := task.ParseOrderBy(cmd.order)
	if !ok {
		return fmt.Errorf("--order must be one of created, due or updated")
	}

	filter := task.ListFilter{
		Status:    task.Status(cmd.status),
		OrderBy:   order,
		Ascending: cmd.asc,
	}
	if cmd.limit != "" {
		n, err := strconv.Atoi(cmd.limit)
		if err != nil || n < 0 {
			return fmt.Errorf("--limit must be a non-negative integer")
		}
		filter.Limit = n
	}

	tasks, err := cmd.app.Tasks.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	return emit(c, cmd.flags, tasks, func(p *printer.Printer) { p.Tasks(tasks) })
}

func (cmd *TaskCmd) editCmd() *cli.Command {
	return &cli.Command{
		Name:          "edit",
		ShellComplete: TaskIDCompleter(cmd.app),
		Usage:         "Change a task's title, due date or length",
		UsageText:     `calm task edit <id> [--title <title>] [--due <date>] [--length <minutes>]`,
		Description: `Only the flags given are changed. --due "" clears the due date and
--length 0 clears the session length.`,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "new title", Destination: &cmd.title},
			&cli.StringFlag{Name: "due", Usage: "new due date", Destination: &cmd.due},
			&cli.StringFlag{Name: "length", Usage: "new session length in minutes", Destination: &cmd.length},
		},
		Action: cmd.runEdit,
	}
}

func (cmd *TaskCmd) runEdit(ctx context.Context, c *cli.Command) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	var u task.Update
	if c.IsSet("title") {
		u.Title = &cmd.title
	}
	if c.IsSet("due") {
		due := resolveDue(cmd.due, cmd.flags.Now())
		u.DueDate = &due
	}
	if c.IsSet("length") {
		n, err := strconv.Atoi(strings.TrimSpace(cmd.length))
		if err != nil {
			return fmt.Errorf("--length must be a number of minutes")
		}
		u.SessionLengthMinutes = &n
	}
	if u.Empty() {
		return fmt.Errorf("nothing to change; pass --title, --due or --length")
	}

	t, err := cmd.app.Tasks.Update(ctx, id, u, cmd.flags.TodayKey())
	if err != nil {
		return fmt.Errorf("edit task: %w", err)
	}
	return emit(c, cmd.flags, t, func(p *printer.Printer) { p.Task(t) })
}

func (cmd *TaskCmd) doneCmd() *cli.Command {
	return &cli.Command{
		Name:          "done",
		ShellComplete: TaskIDCompleter(cmd.app),
		Usage:         "Mark a task done",
		UsageText:     "calm task done <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.finish(ctx, c, "done", cmd.app.Tasks.MarkDone)
		},
	}
}

func (cmd *TaskCmd) dropCmd() *cli.Command {
	return &cli.Command{
		Name:          "drop",
		ShellComplete: TaskIDCompleter(cmd.app),
		Usage:         "Drop a task without finishing it",
		UsageText:     "calm task drop <id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			return cmd.finish(ctx, c, "dropped", cmd.app.Tasks.Drop)
		},
	}
}

func (cmd *TaskCmd) finish(ctx context.Context, c *cli.Command, verb string, fn func(context.Context, string) (result.Outcome, error)) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	outcome, err := fn(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", verb, err)
	}

	out := outcomeJSON{ID: id, Outcome: outcome}
	return emit(c, cmd.flags, out, func(p *printer.Printer) { p.Outcome(verb, id, outcome) })
}

func (cmd *TaskCmd) dueCmd() *cli.Command {
	return &cli.Command{
		Name:          "due",
		ShellComplete: TaskIDCompleter(cmd.app),
		Usage:         "Reschedule a task",
		UsageText:     "calm task due <id> <date> | calm task due <id> --clear",
		Description:   `Moving a task off today also removes it from today's commitments.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "clear", Usage: "remove the due date", Destination: &cmd.clear},
		},
		Action: cmd.runDue,
	}
}

func (cmd *TaskCmd) runDue(ctx context.Context, c *cli.Command) error {
	id, err := requireArg(c, 0, "id")
	if err != nil {
		return err
	}

	var due *string
	if !cmd.clear {
		raw, err := requireArg(c, 1, "date")
		if err != nil {
			return err
		}
		key := resolveDue(raw, cmd.flags.Now())
		due = &key
	}

	t, err := cmd.app.Tasks.SetDueDate(ctx, id, due, cmd.flags.TodayKey())
	if err != nil {
		return fmt.Errorf("set due date: %w", err)
	}
	return emit(c, cmd.flags, t, func(p *printer.Printer) { p.Task(t) })
}

type outcomeJSON struct {
	ID      string         `json:"id"`
	Outcome result.Outcome `json:"outcome"`
}

func parseMinutes(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("--length must be a number of minutes")
	}
	return n, nil
}
