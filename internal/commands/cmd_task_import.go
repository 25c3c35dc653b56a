package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/core/validate"
	"github.com/colonyops/calm/pkg/iojson"
	"github.com/colonyops/calm/pkg/randid"
)

const (
	StatusCreated = "created" // StatusCreated indicates the task was created.
	StatusFailed  = "failed"  // StatusFailed indicates the task could not be created.
	StatusSkipped = "skipped" // StatusSkipped indicates the task was not attempted due to failure threshold.
	maxFailures   = 3         // maxFailures is the number of failures before the import stops.
)

// TaskImportCmd creates many tasks from a JSON document.
type TaskImportCmd struct {
	flags *Flags
	app   *calm.App
	fr    *iojson.FileReader[ImportInput]
}

// NewTaskImportCmd creates the task import subcommand.
func NewTaskImportCmd(flags *Flags, app *calm.App) *TaskImportCmd {
	return &TaskImportCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[ImportInput]{},
	}
}

// Command returns the cli definition.
func (cmd *TaskImportCmd) Command() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Create tasks from JSON input",
		UsageText: `calm task import [-f file]

Read from stdin:
  echo '{"tasks":[{"title":"Pay rent","due_date":"2024-04-01"}]}' | calm task import

Read from file:
  calm task import -f tasks.json`,
		Description: `Creates tasks in input order. The whole document is validated first;
processing stops after 3 failures and the remaining tasks are reported as
skipped.

Input JSON schema:
  {
    "tasks": [
      {"title": "required", "due_date": "YYYY-MM-DD", "session_length_minutes": 25}
    ]
  }

Output is JSON with an import id and a result for each task.`,
		Flags:  []cli.Flag{cmd.fr.Flag()},
		Action: cmd.run,
	}
}

func (cmd *TaskImportCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer
	importID := randid.Generate(6)
	logger := logging.Component("import").With().Str("import_id", importID).Logger()

	input, err := cmd.fr.Read()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		_ = iojson.WriteError(out, fmt.Sprintf("read input: %s", err), nil)
		return err
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		_ = iojson.WriteError(out, fmt.Sprintf("invalid input: %s", err), nil)
		return err
	}

	output := ImportOutput{
		ImportID: importID,
		Results:  cmd.createAll(ctx, logger, input.Tasks),
	}

	logger.Info().
		Int("total", len(input.Tasks)).
		Int("created", countByStatus(output.Results, StatusCreated)).
		Int("failed", countByStatus(output.Results, StatusFailed)).
		Int("skipped", countByStatus(output.Results, StatusSkipped)).
		Msg("import complete")

	return iojson.WriteIndent(out, output)
}

func (cmd *TaskImportCmd) createAll(ctx context.Context, logger zerolog.Logger, tasks []calm.NewTask) []ImportResult {
	results := make([]ImportResult, 0, len(tasks))

	failures := 0
	for i, in := range tasks {
		if failures >= maxFailures {
			logger.Warn().Int("index", i).Msg("skipping remaining tasks due to failure threshold")
			for _, rest := range tasks[i:] {
				results = append(results, ImportResult{Title: rest.Title, Status: StatusSkipped})
			}
			break
		}

		t, err := cmd.app.Tasks.Create(ctx, in)
		if err != nil {
			failures++
			logger.Error().Err(err).Int("index", i).Msg("task creation failed")
			results = append(results, ImportResult{Title: in.Title, Status: StatusFailed, Error: err.Error()})
			continue
		}

		results = append(results, ImportResult{Title: t.Title, TaskID: t.ID, Status: StatusCreated})
	}

	return results
}

// ImportInput is the JSON input schema for task import.
type ImportInput struct {
	Tasks []calm.NewTask `json:"tasks"`
}

// Validate checks titles and session lengths of every entry.
func (in ImportInput) Validate() error {
	if len(in.Tasks) == 0 {
		return criterio.NewFieldErrors("tasks", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	for i, t := range in.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)

		if _, err := validate.Title(t.Title); err != nil {
			errs = errs.Append(field+".title", fmt.Errorf("title is required"))
			continue
		}
		if t.SessionLengthMinutes != nil && !validate.InSessionRange(*t.SessionLengthMinutes) {
			errs = errs.Append(field+".session_length_minutes",
				fmt.Errorf("must be between %d and %d", validate.MinSessionMinutes, validate.MaxSessionMinutes))
		}
	}

	return errs.ToError()
}

// ImportResult is the outcome for one input task.
type ImportResult struct {
	Title  string `json:"title"`
	TaskID string `json:"task_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ImportOutput is the JSON output schema.
type ImportOutput struct {
	ImportID string         `json:"import_id"`
	Results  []ImportResult `json:"results"`
}

func countByStatus(results []ImportResult, status string) int {
	count := 0
	for _, r := range results {
		if r.Status == status {
			count++
		}
	}
	return count
}
