package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/gin-gonic/gin"
)

// upload accepts a multipart form with file, referenceType and referenceId.
func (s *Server) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortError(c, http.StatusBadRequest, fmt.Sprintf("File size exceeds %dMB limit", s.cfg.MaxUploadSize>>20))
			return
		}
		abortError(c, http.StatusBadRequest, msgInvalidMultipart)
		return
	}

	data, err := readFormFile(fh)
	if err != nil {
		s.fail(c, err)
		return
	}

	claims := claimsFrom(c)
	f, err := s.files.Upload(c.Request.Context(), services.UploadInput{
		Name:          fh.Filename,
		MIMEType:      fh.Header.Get("Content-Type"),
		Data:          data,
		ReferenceType: c.PostForm("referenceType"),
		ReferenceID:   c.PostForm("referenceId"),
		UserID:        claims.UserID,
	})
	if err != nil {
		s.failNotFound(c, err, msgLetterNotFound)
		return
	}

	s.logger.Info(c.Request.Context(), "file uploaded", "id", f.ID, "size", f.FileSize, "reference_id", f.ReferenceID)
	c.JSON(http.StatusOK, gin.H{
		"id":           f.ID,
		"originalName": f.OriginalName,
		"fileType":     f.FileType,
		"fileSize":     f.FileSize,
		"fileUrl":      f.FileURL(),
	})
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

// file streams an attachment inline with its stored content type.
func (s *Server) file(c *gin.Context) {
	f, err := s.files.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failNotFound(c, err, msgFileNotFound)
		return
	}
	disposition := mime.FormatMediaType("inline", map[string]string{"filename": f.OriginalName})
	if disposition == "" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, f.ContentType(), f.Data)
}
