// Package server assembles the e-Arsip server: it opens the database, runs
// migrations, builds the services and runs the HTTP API and the internal
// gRPC health endpoint until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/logging"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/config"
	"github.com/dmitrijs2005/earsip/internal/server/httpapi"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/dmitrijs2005/earsip/internal/server/storage"

	gs "github.com/dmitrijs2005/earsip/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	limiter httpapi.RateLimiter
	http    *httpapi.Server
	grpc    *gs.GRPCServer
}

// openDB is a seam for tests.
var openDB = dbx.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "using the default JWT secret; set JWT_SECRET outside development")
	}

	db, err := openDB(ctx, c.DatabaseDSN, dbx.PoolOptions{
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
		ConnectTimeout:  c.DBConnectTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, db, repomanager.NewPostgresRepositoryManager())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	blobs, err := storage.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	codec := auth.NewTokenCodec(c.SecretKey, c.SessionTTL)
	hasher := auth.NewPasswordHasher(c.BcryptCost)
	dashboard := services.NewDashboardService(db, rm)

	limiter := httpapi.NewMemoryRateLimiter()
	if c.RateLimitRedisAddr != "" {
		rl, err := httpapi.NewRedisRateLimiter(ctx, c.RateLimitRedisAddr, c.RateLimitRedisPass, c.RateLimitRedisDB, logger)
		if err != nil {
			logger.Warn(ctx, "redis rate limiter unavailable, using in-memory limiter", "error", err)
		} else {
			limiter.Close()
			limiter = rl
		}
	}

	var metrics *httpapi.Metrics
	if c.MetricsEnabled {
		metrics = httpapi.NewMetrics()
	}

	app := &App{config: c, logger: logger, db: db, limiter: limiter}
	app.http = httpapi.New(httpapi.Deps{
		Config:          c,
		Logger:          logger,
		Gate:            auth.NewGate(codec, rm.Users(db)),
		Users:           services.NewUserService(db, rm, codec, hasher),
		Letters:         services.NewLetterService(db, rm),
		Files:           services.NewFileService(db, rm, blobs, c.MaxUploadSize, logger),
		Classifications: services.NewClassificationService(db, rm),
		Dashboard:       dashboard,
		Limiter:         limiter,
		Metrics:         metrics,
	})
	if c.GRPCAddr != "" {
		app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, dashboard)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// Either server failing stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)
	app.initSignalHandler(cancelFunc)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, "server failed", "server", name, "error", err)
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", name, err)
			}
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(1)
	go run("http", app.http.Run)
	if app.grpc != nil {
		wg.Add(1)
		go run("grpc", app.grpc.Run)
	}

	wg.Wait()
	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
	return firstErr
}

func (app *App) close(ctx context.Context) {
	app.limiter.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
}
