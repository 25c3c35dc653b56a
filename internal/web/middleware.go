package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/calm/internal/core/datekey"
	"github.com/colonyops/calm/internal/core/logging"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// requestID assigns every request an id, echoes it in the response and
// stores it in the request context for the logging hook.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)

		ctx := logging.WithRequestID(c.Request.Context(), id)
		ctx = logging.WithSurface(ctx, "http")
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// todayParam rejects a malformed ?today= override before any handler runs.
func todayParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.Query("today"); key != "" && !datekey.Valid(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "today must be a YYYY-MM-DD date",
			})
			return
		}
		c.Next()
	}
}

func accessLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Debug()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.Ctx(c.Request.Context()).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
