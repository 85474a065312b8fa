// Package app assembles the auth service: configuration, stores, services,
// and the HTTP server, with graceful startup and shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/ordercraft/auth/internal/auth/http"
	"github.com/ordercraft/auth/internal/auth/service"
	"github.com/ordercraft/auth/internal/auth/store"
	"github.com/ordercraft/auth/internal/auth/store/drivers/redis"
	"github.com/ordercraft/auth/internal/auth/store/drivers/sqlite"
	"github.com/ordercraft/auth/internal/auth/store/remote"
	"github.com/ordercraft/auth/pkg/jwtx"
	"github.com/ordercraft/auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Backends. db is nil when both the identity and session backends
	// are external (remote user service + redis).
	db          *sqlite.Store
	redisClient goredis.UniversalClient
	identities  store.Identities
	sessions    store.Sessions

	sessionsPing   httpapi.Pinger
	identitiesPing httpapi.Pinger

	// Services
	tokenService        *service.TokenService
	authService         *service.AuthService
	sessionService      *service.SessionService
	authorizeService    *service.AuthorizeService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	key, err := jwtx.KeyFromBase64(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWT_SECRET: %w", err)
	}
	signer, err := jwtx.NewSignerHS256(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signer: %w", err)
	}
	verifier := jwtx.NewVerifierHS256(key, cfg.Issuer)

	if err := app.initBackends(); err != nil {
		return nil, err
	}

	app.initServices(signer)
	app.initHTTP(verifier)

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"credentials_backend", app.cfg.CredentialsBackend,
		"sessions_backend", app.cfg.SessionsBackend,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initBackends wires the identity and session backends. SQLite is only
// opened when at least one backend is local.
func (app *Application) initBackends() error {
	needSQLite := app.cfg.CredentialsBackend != "remote" || app.cfg.SessionsBackend != "redis"

	if needSQLite {
		host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
		db, err := sqlite.NewStore(host)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db

		if err := db.ApplyMigrations(); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply database migrations: %w", err)
		}
		app.logger.Info("database migrations applied successfully")
	}

	switch app.cfg.CredentialsBackend {
	case "remote":
		if app.cfg.UserServiceURL == "" {
			return fmt.Errorf("AUTH_USER_SERVICE_URL is required with the remote credentials backend")
		}
		identities := remote.NewIdentities(remote.Config{
			BaseURL: app.cfg.UserServiceURL,
			Timeout: app.cfg.StoreTimeout,
		})
		app.identities = identities
		app.identitiesPing = identities.Ping
	default:
		app.identities = app.db.Identities()
		app.identitiesPing = app.db.Ping
	}

	switch app.cfg.SessionsBackend {
	case "redis":
		if app.cfg.RedisAddr == "" {
			return fmt.Errorf("AUTH_REDIS_ADDR is required with the redis sessions backend")
		}
		app.redisClient = goredis.NewUniversalClient(&goredis.UniversalOptions{
			Addrs: []string{app.cfg.RedisAddr},
		})
		sessions := redis.NewSessions(app.redisClient, app.cfg.RedisPrefix)
		app.sessions = sessions
		app.sessionsPing = sessions.Ping
	default:
		app.sessions = app.db.Sessions()
		app.sessionsPing = app.db.Ping
	}

	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices(signer *jwtx.HS256Signer) {
	app.tokenService = &service.TokenService{
		Signer:    signer,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTokenTTL,
	}

	app.sessionService = &service.SessionService{
		Sessions:     app.sessions,
		Identities:   app.identities,
		Tokens:       app.tokenService,
		RefreshTTL:   app.cfg.RefreshTokenTTL,
		ExtendBy:     app.cfg.RefreshExtension,
		MaxSessions:  app.cfg.MaxSessions,
		PurgeExpired: app.cfg.PurgeExpiredSessions,
		CallTimeout:  app.cfg.StoreTimeout,
	}

	app.authService = &service.AuthService{
		Identities:  app.identities,
		Sessions:    app.sessionService,
		Tokens:      app.tokenService,
		CallTimeout: app.cfg.StoreTimeout,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.sessions,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP(verifier jwtx.Verifier) {
	app.authorizeService = &service.AuthorizeService{
		Verifier:          verifier,
		ProtectedPrefixes: app.cfg.ProtectedPrefixes,
	}

	router := httpapi.NewRouter(
		verifier,
		BuildVersion,
		app.logger,
		app.sessionsPing,
		app.identitiesPing,
	)

	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.AuthorizeService = app.authorizeService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
