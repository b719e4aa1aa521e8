package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/gin-gonic/gin"
)

// User-facing messages.
const (
	msgUnauthorized       = "Unauthorized"
	msgNoToken            = "Tidak ada token"
	msgTokenInvalid       = "Token tidak valid"
	msgLoginMissing       = "Username dan password harus diisi"
	msgLoginFailed        = "Username atau password salah"
	msgRegisterMissing    = "Username, password, dan nama lengkap harus diisi"
	msgPasswordTooShort   = "Password minimal 6 karakter"
	msgUsernameTaken      = "Username sudah digunakan"
	msgEmailTaken         = "Email sudah digunakan"
	msgCodeTaken          = "Kode klasifikasi sudah digunakan"
	msgLetterNotFound     = "Surat tidak ditemukan"
	msgFileNotFound       = "File not found"
	msgClassNotFound      = "Klasifikasi tidak ditemukan"
	msgUserNotFound       = "Pengguna tidak ditemukan"
	msgNotFound           = "Data tidak ditemukan"
	msgBadRequest         = "Permintaan tidak valid"
	msgServerError        = "Terjadi kesalahan pada server"
	msgTooManyAttempts    = "Terlalu banyak percobaan, silakan coba lagi nanti"
	msgRegistered         = "Registrasi berhasil. Silakan login dengan akun Anda."
	msgLoggedOut          = "Logout berhasil"
	msgProfileUpdated     = "Profile updated successfully"
	msgAccountDeleted     = "Account deleted successfully"
	msgInvalidID          = "ID tidak valid"
	msgInvalidLetterKind  = "Jenis surat tidak valid"
	msgInvalidMultipart   = "No file provided"
	msgInvalidClassFilter = "classificationId tidak valid"
)

var conflictMessages = map[string]string{
	"username": msgUsernameTaken,
	"email":    msgEmailTaken,
	"code":     msgCodeTaken,
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// fail maps a service error onto a status code and message. Unclassified
// errors become 500; their text is added as "detail" outside production.
func (s *Server) fail(c *gin.Context, err error) {
	s.failNotFound(c, err, msgNotFound)
}

func (s *Server) failNotFound(c *gin.Context, err error, notFound string) {
	var (
		verr     *common.ValidationError
		conflict *common.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		abortError(c, http.StatusBadRequest, verr.Message)
	case errors.As(err, &conflict):
		msg, ok := conflictMessages[conflict.Field]
		if !ok {
			msg = conflict.Error()
		}
		abortError(c, http.StatusConflict, msg)
	case errors.Is(err, common.ErrorNotFound):
		abortError(c, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrInvalidCredentials):
		abortError(c, http.StatusUnauthorized, msgLoginFailed)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		abortError(c, http.StatusUnauthorized, msgUnauthorized)
	default:
		s.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		body := gin.H{"error": msgServerError}
		if !s.cfg.IsProduction() {
			body["detail"] = err.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	}
}
