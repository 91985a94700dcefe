package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/auth"
	"github.com/okofalt/cellsync-server/internal/config"
	"github.com/okofalt/cellsync-server/internal/core"
	"github.com/okofalt/cellsync-server/internal/ratelimit"
	"github.com/okofalt/cellsync-server/internal/store"
	"github.com/okofalt/cellsync-server/internal/store/sqlite"
	transporthttp "github.com/okofalt/cellsync-server/internal/transport/http"
)

// App wires together the room, store, and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	room            *core.Room
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("ban store initialized")

	registry := core.NewRegistry(cfg.Room.Capacity)
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxPerWindow)
	room := core.NewRoom(registry, limiter, core.Options{
		Capacity:     cfg.Room.Capacity,
		TickInterval: cfg.Room.TickInterval,
		StaleTimeout: cfg.Room.StaleTimeout,
	}, logger)

	authService := auth.NewService(cfg.Admin.PasswordHash, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL)
	server := transporthttp.NewServer(room, authService, st, *cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		room:            room,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the broadcast scheduler and the HTTP server, and blocks until
// context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.room.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the store and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
