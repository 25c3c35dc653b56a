package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/commands"
	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/data/db"
	"github.com/colonyops/calm/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		calmApp   = &calm.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "calm",
		Usage:     "Plan the day without the noise",
		UsageText: "calm [global options] command [command options]",
		Description: `Calm keeps a short list of dated tasks, a ranked idea backlog and a
daily ledger of what you committed to.

Run 'calm plan' to see the week at a glance.
Run 'calm serve' to expose the planner and focus timer over HTTP.`,
		Version:               build(),
		EnableShellCompletion: true,
		Flags:                 commands.GlobalFlags(flags),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := flags.ValidateToday(); err != nil {
				return ctx, err
			}

			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// db recover must run against a file that may not open cleanly
			if commands.SkipsDatabase(c.Args().Slice()) {
				return ctx, nil
			}

			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			bus := eventbus.New(0)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			eventbus.NewNotificationRouter(bus).Register()

			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*calmApp = *calm.NewApp(cfg, database, bus, logging.Component("calm"), flags.Now)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if busCancel != nil {
				busCancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewTaskCmd(flags, calmApp).Register(app)
	app = commands.NewIdeaCmd(flags, calmApp).Register(app)
	app = commands.NewDayCmd(flags, calmApp).Register(app)
	app = commands.NewPlanCmd(flags, calmApp).Register(app)
	app = commands.NewServeCmd(flags, calmApp).Register(app)
	app = commands.NewDBCmd(flags, calmApp).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if hint := commands.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
