package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spendtrack/auth/internal/auth/directory"
	httpapi "github.com/spendtrack/auth/internal/auth/http"
	"github.com/spendtrack/auth/internal/auth/service"
	"github.com/spendtrack/auth/internal/auth/store"
	redisstore "github.com/spendtrack/auth/internal/auth/store/drivers/redis"
	"github.com/spendtrack/auth/pkg/jwtx"
	"github.com/spendtrack/auth/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies. The
// session store client is owned here: created during startup, injected into
// the services that need it, released during graceful shutdown.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	sessions store.SessionStore
	codec    *jwtx.HS256Codec
	users    *directory.InMemory

	// Services
	tokenService      *service.TokenService
	credentialService *service.CredentialService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

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

	codec, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.initSessionStore()
	if err := app.initDirectory(); err != nil {
		return nil, err
	}
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Release the session store client
	if err := app.sessions.Close(); err != nil {
		app.logger.Error("error closing session store", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initSessionStore connects the process-wide Redis client and wraps it in
// the session store.
func (app *Application) initSessionStore() {
	client := goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%d", app.cfg.RedisHost, app.cfg.RedisPort),
	})

	app.sessions = redisstore.NewStore(client,
		redisstore.WithPrefix(app.cfg.SessionKeyPrefix),
		redisstore.WithTTL(app.cfg.RefreshTokenTTL),
		redisstore.WithOpTimeout(app.cfg.StoreOpTimeout),
	)
}

// initDirectory wires the user directory stand-in and seeds the optional dev
// account.
func (app *Application) initDirectory() error {
	app.users = directory.NewInMemory()

	if app.cfg.SeedEmail != "" && app.cfg.SeedPassword != "" {
		u, err := app.users.Seed(app.cfg.SeedName, app.cfg.SeedEmail, app.cfg.SeedPassword)
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
		app.logger.Info("seeded dev account", "user_id", u.ID, "email", u.Email)
	}

	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Codec:      app.codec,
		Sessions:   app.sessions,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.credentialService = &service.CredentialService{Users: app.users}
}

// initHTTP wires the router and HTTP server
func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(app.codec, BuildVersion, app.sessions, app.logger)
	app.router.TokenService = app.tokenService
	app.router.CredentialService = app.credentialService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
