package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/gin-gonic/gin"
)

// optionalID accepts a number, a numeric string, an empty string or null.
type optionalID struct {
	value *int64
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		b = []byte(s)
	}
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	if v != 0 {
		o.value = &v
	}
	return nil
}

// letterRequest is the create/update body of both letter kinds. Incoming
// letters use sender/incomingDate, outgoing ones destination/outgoingDate.
type letterRequest struct {
	LetterNumber      string     `json:"letterNumber"`
	Sender            string     `json:"sender"`
	Destination       string     `json:"destination"`
	IncomingDate      string     `json:"incomingDate"`
	OutgoingDate      string     `json:"outgoingDate"`
	Subject           string     `json:"subject"`
	ClassificationID  optionalID `json:"classificationId"`
	NumberOfCopies    int        `json:"numberOfCopies"`
	ArchiveFileNumber string     `json:"archiveFileNumber"`
	IsArchived        bool       `json:"isArchived"`
}

func (r letterRequest) input(kind models.LetterKind) services.LetterInput {
	in := services.LetterInput{
		LetterNumber:      r.LetterNumber,
		Party:             r.Sender,
		Date:              r.IncomingDate,
		Subject:           r.Subject,
		ClassificationID:  r.ClassificationID.value,
		NumberOfCopies:    r.NumberOfCopies,
		ArchiveFileNumber: r.ArchiveFileNumber,
		IsArchived:        r.IsArchived,
	}
	if kind == models.Outgoing {
		in.Party, in.Date = r.Destination, r.OutgoingDate
	}
	return in
}

func (s *Server) letterRoutes(g *gin.RouterGroup, kind models.LetterKind) {
	g.GET("", s.listLetters(kind))
	g.POST("", s.createLetter(kind))
	g.GET("/archived", s.archivedLetters(kind))
	g.GET("/:id", s.getLetter(kind))
	g.PUT("/:id", s.updateLetter(kind))
	g.DELETE("/:id", s.deleteLetter(kind))
}

func (s *Server) listLetters(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := s.letters.List(c.Request.Context(), kind, models.LetterFilter{Search: c.Query("search")})
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// archivedLetters lists archived letters, optionally narrowed by
// classification, search text and report period.
func (s *Server) archivedLetters(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := s.letterFilter(c)
		if !ok {
			return
		}
		period, err := periodFromQuery(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		filter.Archived = true
		filter.From, filter.To = period.Range()

		rows, err := s.letters.List(c.Request.Context(), kind, filter)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func (s *Server) getLetter(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		l, err := s.letters.Get(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			s.failNotFound(c, err, msgLetterNotFound)
			return
		}
		c.JSON(http.StatusOK, l)
	}
}

func (s *Server) createLetter(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req letterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, msgBadRequest)
			return
		}

		claims := claimsFrom(c)
		l, err := s.letters.Create(c.Request.Context(), kind, claims.UserID, req.input(kind))
		if err != nil {
			s.fail(c, err)
			return
		}
		s.logger.Info(c.Request.Context(), "letter created", "kind", kind, "id", l.ID, "user_id", claims.UserID)
		c.JSON(http.StatusCreated, gin.H{"id": l.ID, "success": true})
	}
}

func (s *Server) updateLetter(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req letterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		if err := s.letters.Update(c.Request.Context(), kind, c.Param("id"), req.input(kind)); err != nil {
			s.failNotFound(c, err, msgLetterNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func (s *Server) deleteLetter(kind models.LetterKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.letters.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
			s.failNotFound(c, err, msgLetterNotFound)
			return
		}
		s.logger.Info(c.Request.Context(), "letter deleted", "kind", kind, "id", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// letterFilter reads search and classificationId. On a malformed
// classificationId it writes a 400 and returns false.
func (s *Server) letterFilter(c *gin.Context) (models.LetterFilter, bool) {
	filter := models.LetterFilter{Search: c.Query("search")}
	if raw := c.Query("classificationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortError(c, http.StatusBadRequest, msgInvalidClassFilter)
			return filter, false
		}
		filter.ClassificationID = &id
	}
	return filter, true
}

func periodFromQuery(c *gin.Context) (services.ReportPeriod, error) {
	return services.ParseReportPeriod(
		c.Query("period"), c.Query("month"), c.Query("year"),
		c.Query("startDate"), c.Query("endDate"),
	)
}
