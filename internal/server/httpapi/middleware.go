package httpapi

import (
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// requireAuth rejects requests without a valid session cookie and stores
// the verified claims on the context.
func (s *Server) requireAuth(c *gin.Context) {
	claims, err := s.gate.Authenticate(c.Request)
	if err != nil {
		s.logger.Debug(c.Request.Context(), "unauthenticated request", "path", c.Request.URL.Path, "error", err)
		abortError(c, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

func claimsFrom(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}

// observe logs every request and records its metrics. Server errors log at
// error level, client errors at warn.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(c.Request.Method, route, status, latency)

		ctx := c.Request.Context()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error(ctx, "http request", args...)
		case status >= http.StatusBadRequest:
			s.logger.Warn(ctx, "http request", args...)
		default:
			s.logger.Info(ctx, "http request", args...)
		}
	}
}

func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		abortError(c, http.StatusInternalServerError, msgServerError)
	})
}
