package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/gin-gonic/gin"
)

// health reports liveness and whether the database answers a ping.
func (s *Server) health(c *gin.Context) {
	database := "connected"
	if err := s.dashboard.Ping(c.Request.Context()); err != nil {
		s.logger.Warn(c.Request.Context(), "database ping failed", "error", err)
		database = "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": database})
}

func (s *Server) stats(c *gin.Context) {
	st, err := s.dashboard.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) faqs(c *gin.Context) {
	list, err := s.dashboard.FAQs(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// report lists archived letters of one kind for the requested period.
func (s *Server) report(c *gin.Context) {
	kind := models.LetterKind(c.Param("kind"))
	if !kind.Valid() {
		abortError(c, http.StatusBadRequest, msgInvalidLetterKind)
		return
	}
	filter, ok := s.letterFilter(c)
	if !ok {
		return
	}
	period, err := periodFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	rep, err := s.letters.Report(c.Request.Context(), kind, period, filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
