package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/colonyops/calm/internal/calm"
	"github.com/colonyops/calm/internal/core/task"
)

func (s *Server) handlePlanner(c *gin.Context) {
	snap, err := s.app.Planner.Snapshot(c.Request.Context(), s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, snap)
}

func (s *Server) handleHorizon(c *gin.Context) {
	h, err := s.app.Planner.Horizon(c.Request.Context(), s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, h)
}

func (s *Server) handleReentry(c *gin.Context) {
	status, err := s.app.Planner.Reentry(c.Request.Context(), s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, status)
}

func (s *Server) handleListTasks(c *gin.Context) {
	order, ok := task.ParseOrderBy(c.Query("order"))
	if !ok {
		badRequest(c, "order must be one of created, due or updated")
		return
	}

	filter := task.ListFilter{
		Status:    task.Status(c.DefaultQuery("status", string(task.StatusActive))),
		OrderBy:   order,
		Ascending: c.Query("asc") == "true",
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		filter.Limit = n
	}

	tasks, err := s.app.Tasks.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(c *gin.Context) {
	t, err := s.app.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var in calm.NewTask
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := s.app.Tasks.Create(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, t)
}

type quickAddRequest struct {
	Input string `json:"input"`
}

func (s *Server) handleQuickAddTask(c *gin.Context) {
	var req quickAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := s.app.Tasks.QuickAdd(c.Request.Context(), req.Input)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var u task.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := s.app.Tasks.Update(c.Request.Context(), c.Param("id"), u, s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}

func (s *Server) handleMarkTaskDone(c *gin.Context) {
	outcome, err := s.app.Tasks.MarkDone(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOutcome(c, outcome, gin.H{"id": c.Param("id")})
}

func (s *Server) handleDropTask(c *gin.Context) {
	outcome, err := s.app.Tasks.Drop(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOutcome(c, outcome, gin.H{"id": c.Param("id")})
}

type dueDateRequest struct {
	DueDate *string `json:"due_date"`
}

func (s *Server) handleSetTaskDueDate(c *gin.Context) {
	var req dueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t, err := s.app.Tasks.SetDueDate(c.Request.Context(), c.Param("id"), req.DueDate, s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, t)
}
