package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colonyops/calm/internal/core/idea"
)

func (s *Server) handleListIdeas(c *gin.Context) {
	ideas, err := s.app.Ideas.ListActive(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, ideas)
}

type createIdeaRequest struct {
	Title        string  `json:"title"`
	ReferenceURL *string `json:"reference_url"`
}

func (s *Server) handleCreateIdea(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	it, err := s.app.Ideas.Create(c.Request.Context(), req.Title, req.ReferenceURL)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, it)
}

type moveIdeaRequest struct {
	Direction idea.Direction `json:"direction"`
}

func (s *Server) handleMoveIdea(c *gin.Context) {
	var req moveIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	written, err := s.app.Ideas.Move(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"written": written})
}

type reorderIdeaRequest struct {
	TargetIndex *int `json:"target_index"`
}

func (s *Server) handleReorderIdea(c *gin.Context) {
	var req reorderIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.TargetIndex == nil {
		badRequest(c, "target_index is required")
		return
	}

	written, err := s.app.Ideas.Reorder(c.Request.Context(), c.Param("id"), *req.TargetIndex)
	if err != nil {
		s.fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"written": written})
}

func (s *Server) handleArchiveIdea(c *gin.Context) {
	outcome, err := s.app.Ideas.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondOutcome(c, outcome, gin.H{"id": c.Param("id")})
}
