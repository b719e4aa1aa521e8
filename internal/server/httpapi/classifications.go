package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/gin-gonic/gin"
)

type classificationRequest struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	ShelfLocation string `json:"shelfLocation"`
}

func (r classificationRequest) input() services.ClassificationInput {
	return services.ClassificationInput{Code: r.Code, Description: r.Description, ShelfLocation: r.ShelfLocation}
}

func classificationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

func (s *Server) listClassifications(c *gin.Context) {
	list, err := s.classifications.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) getClassification(c *gin.Context) {
	id, ok := classificationID(c)
	if !ok {
		return
	}
	cl, err := s.classifications.Get(c.Request.Context(), id)
	if err != nil {
		s.failNotFound(c, err, msgClassNotFound)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (s *Server) createClassification(c *gin.Context) {
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	cl, err := s.classifications.Create(c.Request.Context(), req.input())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (s *Server) updateClassification(c *gin.Context) {
	id, ok := classificationID(c)
	if !ok {
		return
	}
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	cl, err := s.classifications.Update(c.Request.Context(), id, req.input())
	if err != nil {
		s.failNotFound(c, err, msgClassNotFound)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (s *Server) deleteClassification(c *gin.Context) {
	id, ok := classificationID(c)
	if !ok {
		return
	}
	if err := s.classifications.Delete(c.Request.Context(), id); err != nil {
		s.failNotFound(c, err, msgClassNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
