package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/colonyops/calm/internal/core/focus"
)

// Focus channel event names.
const (
	EventFocusState   = "focus:state"
	EventFocusSurface = "focus:surface"
)

func (s *Server) handleFocusState(c *gin.Context) {
	c.JSON(http.StatusOK, s.focus.State())
}

func (s *Server) handleFocusStart(c *gin.Context) {
	var req focus.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.focus.Start(c.Request.Context(), req))
}

func (s *Server) handleFocusStop(c *gin.Context) {
	c.JSON(http.StatusOK, s.focus.Stop(c.Request.Context()))
}

func (s *Server) handleFocusContinue(c *gin.Context) {
	c.JSON(http.StatusOK, s.focus.Continue(c.Request.Context()))
}

func (s *Server) handleFocusCloseComplete(c *gin.Context) {
	c.JSON(http.StatusOK, s.focus.CloseComplete(c.Request.Context()))
}

type extendRequest struct {
	Minutes *int `json:"minutes"`
}

func (s *Server) handleFocusExtend(c *gin.Context) {
	var req extendRequest
	// An empty body means the default extension.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, s.focus.Extend(c.Request.Context(), req.Minutes))
}

// handleFocusStream pushes the current session, then every transition and
// surface change, until the client goes away.
func (s *Server) handleFocusStream(c *gin.Context) {
	states, unsubscribe := s.focus.Subscribe()
	defer unsubscribe()
	msgs, leave := s.hub.Subscribe()
	defer leave()

	ctx := c.Request.Context()
	startStream(c)
	writeEvent(c, EventFocusState, s.focus.State())

	for {
		select {
		case <-ctx.Done():
			return
		case sess, ok := <-states:
			if !ok {
				return
			}
			writeEvent(c, EventFocusState, sess)
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if isFocusEvent(m.Event) {
				writeEvent(c, m.Event, m.Data)
			}
		}
	}
}

// handleEvents streams domain change events.
func (s *Server) handleEvents(c *gin.Context) {
	msgs, leave := s.hub.Subscribe()
	defer leave()

	ctx := c.Request.Context()
	startStream(c)

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-msgs:
			if !ok {
				return
			}
			if !isFocusEvent(m.Event) {
				writeEvent(c, m.Event, m.Data)
			}
		}
	}
}

func startStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
}

func writeEvent(c *gin.Context, event string, data any) {
	c.SSEvent(event, data)
	c.Writer.Flush()
}
