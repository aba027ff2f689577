// Package server wires the portal together: database pool, services, the
// web facade, the gRPC health endpoint and background jobs. It handles
// graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/farmportal/internal/logging"
	"github.com/dmitrijs2005/farmportal/internal/server/config"
	"github.com/dmitrijs2005/farmportal/internal/server/jobs"
	"github.com/dmitrijs2005/farmportal/internal/server/oauth"
	"github.com/dmitrijs2005/farmportal/internal/server/oauthstate"
	"github.com/dmitrijs2005/farmportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/farmportal/internal/server/services"

	gs "github.com/dmitrijs2005/farmportal/internal/server/grpc"
	internalhttp "github.com/dmitrijs2005/farmportal/internal/server/http"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	redis         *redis.Client
	authService   *services.AuthService
	schemeService *services.SchemeService
	httpServer    *http.Server
	grpcServer    *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxOpenConns)

	app := &App{config: c, logger: logger, db: db}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	states, rdb, err := newStateStore(ctx, c)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	app.redis = rdb

	app.authService = services.NewAuthService(db, rm, c)
	app.schemeService = services.NewSchemeService(db, rm)

	provider := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
	})

	web, err := internalhttp.NewServer(c, app.authService, app.schemeService, provider, states, db, logger)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("http init error: %w", err)
	}

	app.httpServer = &http.Server{
		Addr:              c.HTTPAddr,
		Handler:           web.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	app.grpcServer = gs.NewGRPCServer(c.GRPCAddr, logger)

	return app, nil
}

// newStateStore picks Redis when an address is configured and falls back to
// process memory otherwise. The returned client is nil in the memory case.
func newStateStore(ctx context.Context, c *config.Config) (oauthstate.Store, *redis.Client, error) {
	if c.RedisAddr == "" {
		return oauthstate.NewMemoryStore(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return oauthstate.NewRedisStore(rdb), rdb, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() { app.startGRPCServer(ctx, cancelFunc) })
	run(func() { app.startHTTPServer(ctx, cancelFunc) })
	run(func() {
		jobs.RunSessionSweeper(ctx, app.config.SessionSweepInterval, app.authService, app.logger)
	})
	run(func() {
		jobs.RunHealthMonitor(ctx, app.config.HealthCheckInterval, app.db, app.logger, app.grpcServer.SetServing)
	})

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

// close releases the Redis client and the pool. It is safe on a partially
// built App.
func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
