// Command docgen generates CLI reference documentation from the calm command
// definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	app := &calm.App{}

	root := &cli.Command{
		Name:      "calm",
		Usage:     "Plan the day without the noise",
		UsageText: "calm [global options] command [command options]",
		Description: `Calm keeps a short list of dated tasks, a ranked idea backlog and a
daily ledger of what you committed to.

Run 'calm plan' to see the week at a glance.
Run 'calm serve' to expose the planner and focus timer over HTTP.`,
		Flags: commands.GlobalFlags(flags),
	}

	root = commands.NewTaskCmd(flags, app).Register(root)
	root = commands.NewIdeaCmd(flags, app).Register(root)
	root = commands.NewDayCmd(flags, app).Register(root)
	root = commands.NewPlanCmd(flags, app).Register(root)
	root = commands.NewServeCmd(flags, app).Register(root)
	root = commands.NewDBCmd(flags, app).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
