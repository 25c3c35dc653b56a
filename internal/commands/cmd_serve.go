package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/logging"
	"github.com/colonyops/calm/internal/web"
)

type ServeCmd struct {
	flags *Flags
	app   *calm.App

	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags, app *calm.App) *ServeCmd {
	return &ServeCmd{flags: flags, app: app}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the HTTP API and focus timer",
		UsageText: "calm serve [--addr host:port]",
		Description: `Serves the JSON API under /api and runs the focus session controller.
Focus state is pushed on /api/focus/stream and domain events on /api/events
as server-sent events. Stops on SIGINT or SIGTERM.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr from config)",
				Sources:     cli.EnvVars("CALM_ADDR"),
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := cmd.app.Config
	addr := cmd.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	log := logging.Component("serve")

	hub := web.NewHub(cfg.Server.EventBuffer, log)
	web.BridgeEvents(cmd.app.Bus, hub)

	ctrl := cmd.app.NewFocusController(web.NewSurfacePresenter(hub, log))
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			log.Error().Err(err).Msg("focus controller stopped")
		}
	}()

	srv := web.NewServer(web.Options{
		App:    cmd.app,
		Focus:  ctrl,
		Hub:    hub,
		Logger: log,
		Now:    cmd.flags.Now,
	})

	_, _ = fmt.Fprintf(c.Root().Writer, "calm listening on http://%s\n", addr)
	return srv.Run(ctx, addr)
}
