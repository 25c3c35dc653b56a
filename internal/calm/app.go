// Package calm wires the stores, event bus and focus controller into the
// services consumed by the CLI and HTTP surfaces.
package calm

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/core/eventbus"
	"github.com/colonyops/calm/internal/core/focus"
	"github.com/colonyops/calm/internal/data/db"
	"github.com/colonyops/calm/internal/data/stores"
)

// App is the central entry point for all calm operations.
// Commands and the web server consume App instead of raw stores.
type App struct {
	Tasks   *TaskService
	Ideas   *IdeaService
	Daily   *DailyService
	Planner *PlannerService

	Bus    *eventbus.EventBus
	Config *config.Config
	DB     *db.DB

	log zerolog.Logger
	now Clock
}

// NewApp builds the SQLite stores over database and the services on top.
// A nil now uses the system clock.
func NewApp(cfg *config.Config, database *db.DB, bus *eventbus.EventBus, log zerolog.Logger, now Clock) *App {
	now = now.orSystem()

	taskStore := stores.NewTaskStore(database)
	dailyStore := stores.NewDailyStore(database)
	ideaStore := stores.NewIdeaStore(database)

	dailySvc := NewDailyService(dailyStore, taskStore, bus, log, now)

	return &App{
		Tasks:   NewTaskService(taskStore, dailySvc, bus, log, now),
		Ideas:   NewIdeaService(ideaStore, bus, log, now),
		Daily:   dailySvc,
		Planner: NewPlannerService(taskStore, dailyStore, log),
		Bus:     bus,
		Config:  cfg,
		DB:      database,
		log:     log,
		now:     now,
	}
}

// NewFocusController builds a controller from the focus config. The caller
// runs it with Controller.Run.
func (a *App) NewFocusController(presenter focus.Presenter) *focus.Controller {
	fc := a.Config.Focus
	return focus.NewController(focus.Options{
		Now:                     a.now,
		TickInterval:            fc.TickInterval,
		DefaultSessionMinutes:   fc.DefaultSessionMinutes,
		DefaultExtensionMinutes: fc.DefaultExtensionMinutes,
		MaxSessionMinutes:       fc.MaxSessionMinutes,
		Presenter:               presenter,
		Logger:                  a.log,
	})
}
