// Package httpapi exposes the e-Arsip JSON API over HTTP using gin.
//
// Every route lives under /api. Apart from health, login, register and
// logout, routes require a valid auth_token cookie; any valid token grants
// full access.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/earsip/internal/logging"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/config"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators of the HTTP server. Limiter and Metrics may be nil.
type Deps struct {
	Config          *config.Config
	Logger          logging.Logger
	Gate            *auth.Gate
	Users           *services.UserService
	Letters         *services.LetterService
	Files           *services.FileService
	Classifications *services.ClassificationService
	Dashboard       *services.DashboardService
	Limiter         RateLimiter
	Metrics         *Metrics
}

type Server struct {
	cfg             *config.Config
	logger          logging.Logger
	gate            *auth.Gate
	users           *services.UserService
	letters         *services.LetterService
	files           *services.FileService
	classifications *services.ClassificationService
	dashboard       *services.DashboardService
	limiter         RateLimiter
	metrics         *Metrics
	engine          *gin.Engine
}

func New(d Deps) *Server {
	s := &Server{
		cfg:             d.Config,
		logger:          d.Logger.With("module", "http_server"),
		gate:            d.Gate,
		users:           d.Users,
		letters:         d.Letters,
		files:           d.Files,
		classifications: d.Classifications,
		dashboard:       d.Dashboard,
		limiter:         d.Limiter,
		metrics:         d.Metrics,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Mode returns the gin mode for cfg. The mode is process-wide; main applies
// it once with gin.SetMode.
func Mode(cfg *config.Config) string {
	if cfg.IsProduction() {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.cfg.MaxUploadSize
	r.Use(s.observe(), s.recovery())

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.rateLimit("login"), s.login)
	authGroup.POST("/register", s.rateLimit("register"), s.register)
	authGroup.POST("/logout", s.logout)
	authGroup.GET("/me", s.me)

	protected := api.Group("", s.requireAuth)
	protected.PUT("/auth/profile", s.updateProfile)
	protected.DELETE("/auth/profile", s.deleteProfile)

	s.letterRoutes(protected.Group("/incoming-letters"), models.Incoming)
	s.letterRoutes(protected.Group("/outgoing-letters"), models.Outgoing)

	protected.POST("/upload", s.upload)
	protected.GET("/files/:id", s.file)

	protected.GET("/classifications", s.listClassifications)
	protected.POST("/classifications", s.createClassification)
	protected.GET("/classifications/:id", s.getClassification)
	protected.PUT("/classifications/:id", s.updateClassification)
	protected.DELETE("/classifications/:id", s.deleteClassification)

	protected.GET("/faqs", s.faqs)
	protected.GET("/dashboard/stats", s.stats)
	protected.GET("/reports/:kind", s.report)

	r.NoRoute(func(c *gin.Context) {
		abortError(c, http.StatusNotFound, msgNotFound)
	})

	return r
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
