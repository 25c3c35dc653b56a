package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/calm/pkg/iojson"
)

type ConfigCmd struct {
	flags *Flags
}

// NewConfigCmd creates a new config command.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config command to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "calm config validate [--json]",
				Description: "Validates the loaded configuration, the config file path and the data directory.",
				Action:      cmd.runValidate,
			},
			{
				Name:        "show",
				Usage:       "Print the effective configuration",
				UsageText:   "calm config show",
				Description: "Prints the configuration after defaults are applied, as YAML.",
				Action:      cmd.runShow,
			},
		},
	})

	return app
}

type configIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	out := c.Root().Writer
	err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)

	var issues []configIssue
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			issues = append(issues, configIssue{Field: fe.Field, Message: fe.Err.Error()})
		}
	default:
		issues = append(issues, configIssue{Field: "config", Message: err.Error()})
	}

	if cmd.flags.JSON {
		if werr := iojson.WriteIndent(out, struct {
			Valid  bool          `json:"valid"`
			Errors []configIssue `json:"errors,omitempty"`
		}{len(issues) == 0, issues}); werr != nil {
			return werr
		}
	} else {
		for _, is := range issues {
			_, _ = fmt.Fprintf(out, "✘ %s: %s\n", is.Field, is.Message)
		}
		if len(issues) == 0 {
			_, _ = fmt.Fprintln(out, "✔ Configuration is valid")
		}
	}

	if len(issues) > 0 {
		return cli.Exit(fmt.Sprintf("%d error(s) found", len(issues)), 1)
	}
	return nil
}

func (cmd *ConfigCmd) runShow(_ context.Context, c *cli.Command) error {
	enc := yaml.NewEncoder(c.Root().Writer)
	enc.SetIndent(2)
	if err := enc.Encode(cmd.flags.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
