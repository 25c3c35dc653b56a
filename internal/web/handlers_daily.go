package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colonyops/calm/internal/core/daily"
)

func (s *Server) handleTodayModel(c *gin.Context) {
	model, err := s.app.Daily.TodayModel(c.Request.Context(), s.todayKey(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, model)
}

func (s *Server) handleGetDaily(c *gin.Context) {
	l, err := s.app.Daily.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, l)
}

type setCommitmentsRequest struct {
	TaskIDs []string `json:"task_ids"`
}

func (s *Server) handleSetCommitments(c *gin.Context) {
	var req setCommitmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	l, err := s.app.Daily.SetCommitments(c.Request.Context(), c.Param("date"), req.TaskIDs)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, l)
}

type addCommitmentRequest struct {
	TaskID string `json:"task_id"`
}

func (s *Server) handleAddCommitment(c *gin.Context) {
	var req addCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	l, outcome, err := s.app.Daily.AddCommitment(c.Request.Context(), c.Param("date"), req.TaskID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOutcome(c, outcome, gin.H{"daily": l})
}

func (s *Server) handleRemoveCommitment(c *gin.Context) {
	l, outcome, err := s.app.Daily.RemoveCommitment(c.Request.Context(), c.Param("date"), c.Param("taskId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOutcome(c, outcome, gin.H{"daily": l})
}

func (s *Server) handleMarkRitual(c *gin.Context) {
	r, ok := daily.ParseRitual(c.Param("ritual"))
	if !ok {
		badRequest(c, "ritual must be one of morning, evening or reset")
		return
	}

	l, err := s.app.Daily.MarkRitualCompleted(c.Request.Context(), c.Param("date"), r)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, l)
}
