package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, auth.SessionCookie(token, int(s.cfg.SessionTTL.Seconds()), s.cfg.IsProduction()))
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, auth.ClearedCookie(s.cfg.IsProduction()))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, msgLoginMissing)
		return
	}

	res, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrMissingCredentials):
		abortError(c, http.StatusBadRequest, msgLoginMissing)
		return
	case errors.Is(err, common.ErrInvalidCredentials):
		s.metrics.login(loginFailure)
		abortError(c, http.StatusUnauthorized, msgLoginFailed)
		return
	default:
		s.metrics.login(loginError)
		s.fail(c, err)
		return
	}

	s.metrics.login(loginSuccess)
	s.setSessionCookie(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": res.Identity})
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, msgRegisterMissing)
		return
	}

	u, err := s.users.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrMissingCredentials):
		abortError(c, http.StatusBadRequest, msgRegisterMissing)
		return
	case errors.Is(err, common.ErrPasswordTooShort):
		abortError(c, http.StatusBadRequest, msgPasswordTooShort)
		return
	default:
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", u.ID, "username", u.Username)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msgRegistered, "userId": u.ID})
}

// logout only clears the cookie; the token itself stays valid until it expires.
func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msgLoggedOut})
}

// me returns the identity carried by the session token. With fresh=true the
// profile is re-read from the store instead.
func (s *Server) me(c *gin.Context) {
	if _, err := c.Request.Cookie(common.AuthCookieName); err != nil {
		abortError(c, http.StatusUnauthorized, msgNoToken)
		return
	}
	claims, err := s.gate.Authenticate(c.Request)
	if err != nil {
		abortError(c, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	if c.Query("fresh") != "true" {
		c.JSON(http.StatusOK, gin.H{"user": claims.Identity})
		return
	}

	u, err := s.gate.Fresh(c.Request.Context(), claims)
	if err != nil {
		s.failNotFound(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": services.IdentityOf(u)})
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	claims := claimsFrom(c)
	u, err := s.users.UpdateProfile(c.Request.Context(), claims.UserID, services.ProfileInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		s.failNotFound(c, err, msgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgProfileUpdated, "user": services.IdentityOf(u)})
}

func (s *Server) deleteProfile(c *gin.Context) {
	claims := claimsFrom(c)
	if err := s.users.DeleteAccount(c.Request.Context(), claims.UserID); err != nil {
		s.failNotFound(c, err, msgUserNotFound)
		return
	}
	s.logger.Info(c.Request.Context(), "account deleted", "user_id", claims.UserID)
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": msgAccountDeleted})
}
