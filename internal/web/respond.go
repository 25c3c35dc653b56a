package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colonyops/calm/internal/core/daily"
	"github.com/colonyops/calm/internal/core/idea"
	"github.com/colonyops/calm/internal/core/result"
	"github.com/colonyops/calm/internal/core/task"
	"github.com/colonyops/calm/internal/core/validate"
)

// genericFailure is the only message a client sees for unexpected errors.
const genericFailure = "could not complete that action"

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondOutcome(c *gin.Context, outcome result.Outcome, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["outcome"] = outcome
	respond(c, http.StatusOK, data)
}

// badRequest reports a malformed body or parameter.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}

// fail maps err to a status: validation 400, not found 404, anything else
// 500 with details kept in the log.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := genericFailure

	switch {
	case validate.IsValidation(err):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, task.ErrNotFound),
		errors.Is(err, idea.ErrNotFound),
		errors.Is(err, daily.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	default:
		s.log.Error().Ctx(c.Request.Context()).Err(err).Str("route", c.FullPath()).Msg("request failed")
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   msg,
	})
}
