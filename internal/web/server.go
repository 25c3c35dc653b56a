// Package web serves the planner over HTTP: a JSON API for every display
// operation plus server-sent event streams for focus state and domain events.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/focus"
	"github.com/colonyops/calm/internal/core/logging"
)

// Options configures a Server.
type Options struct {
	App    *calm.App
	Focus  *focus.Controller
	Hub    *Hub
	Logger zerolog.Logger
	Now    func() time.Time
}

// Server is the calm HTTP server.
type Server struct {
	app    *calm.App
	focus  *focus.Controller
	hub    *Hub
	log    zerolog.Logger
	now    func() time.Time
	router *gin.Engine
}

// NewServer creates the router and registers every route.
func NewServer(opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		app:   opts.App,
		focus: opts.Focus,
		hub:   opts.Hub,
		log:   logging.ComponentOf(opts.Logger, "web"),
		now:   opts.Now,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(s.log))
	s.router = router

	api := router.Group("/api", todayParam())
	{
		api.GET("/planner", s.handlePlanner)
		api.GET("/planner/horizon", s.handleHorizon)
		api.GET("/reentry", s.handleReentry)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/quick", s.handleQuickAddTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.POST("/tasks/:id/done", s.handleMarkTaskDone)
		api.POST("/tasks/:id/drop", s.handleDropTask)
		api.PUT("/tasks/:id/due", s.handleSetTaskDueDate)

		api.GET("/ideas", s.handleListIdeas)
		api.POST("/ideas", s.handleCreateIdea)
		api.POST("/ideas/:id/move", s.handleMoveIdea)
		api.POST("/ideas/:id/reorder", s.handleReorderIdea)
		api.POST("/ideas/:id/archive", s.handleArchiveIdea)

		api.GET("/daily/today", s.handleTodayModel)
		api.GET("/daily/:date", s.handleGetDaily)
		api.PUT("/daily/:date/commitments", s.handleSetCommitments)
		api.POST("/daily/:date/commitments", s.handleAddCommitment)
		api.DELETE("/daily/:date/commitments/:taskId", s.handleRemoveCommitment)
		api.POST("/daily/:date/rituals/:ritual", s.handleMarkRitual)

		api.GET("/focus/state", s.handleFocusState)
		api.POST("/focus/start", s.handleFocusStart)
		api.POST("/focus/stop", s.handleFocusStop)
		api.POST("/focus/continue", s.handleFocusContinue)
		api.POST("/focus/extend", s.handleFocusExtend)
		api.POST("/focus/close-complete", s.handleFocusCloseComplete)
		api.GET("/focus/stream", s.handleFocusStream)

		api.GET("/events", s.handleEvents)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down. Request
// contexts derive from ctx so open streams end with it.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

// todayKey reads ?today= and falls back to the server's local date.
func (s *Server) todayKey(c *gin.Context) string {
	if key := c.Query("today"); key != "" {
		return key
	}
	return datekey.Today(s.now())
}
