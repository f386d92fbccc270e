// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server assembles the echo application and runs it.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/oliverandrich/go-redirector/internal/assets"
	"codeberg.org/oliverandrich/go-redirector/internal/cache"
	"codeberg.org/oliverandrich/go-redirector/internal/config"
	"codeberg.org/oliverandrich/go-redirector/internal/database"
	"codeberg.org/oliverandrich/go-redirector/internal/handlers"
	"codeberg.org/oliverandrich/go-redirector/internal/i18n"
	"codeberg.org/oliverandrich/go-redirector/internal/middleware"
	"codeberg.org/oliverandrich/go-redirector/internal/repository"
	authsvc "codeberg.org/oliverandrich/go-redirector/internal/services/auth"
	"codeberg.org/oliverandrich/go-redirector/internal/services/redirects"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

// App is a fully wired echo instance together with the resources it owns.
type App struct {
	Echo    *echo.Echo
	closers []func() error
}

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			slog.Error("failed to release resources", "error", closeErr)
		}
	}()

	return startWithGracefulShutdown(ctx, app.Echo, cfg)
}

// New opens the database and optional cache, builds the services and
// registers middleware and routes.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	// Database (migrations are applied on open)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to init i18n: %w", initErr)
	}

	repo := repository.New(db)

	// Auth
	secret := cfg.Auth.TokenSecret
	if secret == "" {
		secret = authsvc.DevelopmentSecret
		slog.Warn("insecure_token_secret",
			"hint", "set --token-secret or SECRET_KEY before storing real data",
		)
	}
	tokens, err := authsvc.NewTokenService(authsvc.TokenConfig{
		Secret: []byte(secret),
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}
	auth := authsvc.NewService(repo, authsvc.NewHasher(cfg.Auth.BcryptCost), tokens)

	// Redirects, optionally behind the Redis cache
	var opts []redirects.Option
	if cfg.Cache.RedisURL != "" {
		client, connErr := cache.Connect(ctx, cfg.Cache.RedisURL)
		if connErr != nil {
			_ = app.Close()
			return nil, connErr
		}
		app.closers = append(app.closers, client.Close)
		opts = append(opts, redirects.WithCache(cache.NewRedirectCache(client, cfg.Cache.TTL)))
		slog.Info("resolve cache enabled", "ttl", cfg.Cache.TTL)
	}
	redirectSvc, err := redirects.NewService(repo, cfg.Redirects.CodeLength, opts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to create redirect service: %w", err)
	}

	// Frontend
	frontend, err := assets.Load(cfg.Frontend.Dir)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to load frontend: %w", err)
	}
	slog.Info("frontend loaded", "source", frontend.Source())

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg)
	setupRoutes(e, routes{
		pages:     handlers.New(repo, redirectSvc, frontend),
		auth:      handlers.NewAuth(auth),
		redirects: handlers.NewRedirects(redirectSvc),
		identity:  auth,
		frontend:  frontend,
	})

	app.Echo = e
	return app, nil
}

// Close releases the resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

type routes struct {
	pages     *handlers.Handlers
	auth      *handlers.AuthHandlers
	redirects *handlers.RedirectHandlers
	identity  middleware.IdentityResolver
	frontend  *assets.Frontend
}

func setupRoutes(e *echo.Echo, r routes) {
	// Static files
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static", r.frontend.FileServer())))

	e.GET("/health", r.pages.Health)

	// API
	api := e.Group("/api")
	api.POST("/register", r.auth.Register)
	api.POST("/login", r.auth.Login)

	list := e.Group("/api/redirects", middleware.RequireAccount(r.identity))
	for _, path := range []string{"", "/"} {
		list.GET(path, r.redirects.List)
		list.POST(path, r.redirects.Create)
	}
	list.PUT("/:id", r.redirects.Update)
	list.DELETE("/:id", r.redirects.Delete)

	// SPA shell and shortcodes
	e.GET("/*", r.pages.Fallback)
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	errChan := make(chan error, 2)

	// HTTP challenge server for ACME mode
	var httpServer *http.Server

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	switch tlsResult.Mode {
	case TLSModeOff:
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(ctx, e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		httpServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("http to https redirect active", "addr", ":80")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeManual:
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(ctx, e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// startTLSServer starts the Echo server with a custom TLS configuration.
func startTLSServer(ctx context.Context, e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
