// Package stubserver собирает локальный стаб-бэкенд портала: хранилище
// в памяти, сервис аутентификации и HTTP-сервер с полным набором
// маршрутов /api/auth/...
package stubserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/hostfolio/portal/internal/config"
	"github.com/hostfolio/portal/internal/lib/jwt"
	"github.com/hostfolio/portal/internal/stub/service"
	"github.com/hostfolio/portal/internal/stub/state"
)

// App — процесс стаб-бэкенда.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *state.State
}

// New создает приложение стаб-бэкенда.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := state.New()
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTTL)
	authService := service.NewAuthService(store, jwtMaker)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, store, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.StubServer.Timeout,
		WriteTimeout: cfg.StubServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
