package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/task"
)

// typingFlag reports whether the last typed argument is a flag, in which
// case completion falls back to the default flag behavior.
func typingFlag(cmd *cli.Command) bool {
	args := cmd.Args()
	if !args.Present() {
		return false
	}
	last := args.Slice()[args.Len()-1]
	return len(last) > 0 && last[0] == '-'
}

// TaskIDCompleter suggests active task ids, with titles for shells that
// show descriptions.
func TaskIDCompleter(app *calm.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if typingFlag(cmd) {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}

		tasks, err := app.Tasks.List(ctx, task.ListFilter{Status: task.StatusActive})
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, t := range tasks {
			_, _ = fmt.Fprintf(w, "%s:%s\n", t.ID, t.Title)
		}
	}
}

// IdeaIDCompleter suggests active idea ids.
func IdeaIDCompleter(app *calm.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if typingFlag(cmd) {
			cli.DefaultCompleteWithFlags(ctx, cmd)
			return
		}

		ideas, err := app.Ideas.ListActive(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, it := range ideas {
			_, _ = fmt.Fprintf(w, "%s:%s\n", it.ID, it.Title)
		}
	}
}
