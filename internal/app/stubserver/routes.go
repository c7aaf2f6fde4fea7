// Package stubserver предоставляет маршруты стаб-бэкенда.
package stubserver

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	authlogin "github.com/hostfolio/portal/internal/stub/handlers/auth/login"
	authprofile "github.com/hostfolio/portal/internal/stub/handlers/auth/profile"
	authrefresh "github.com/hostfolio/portal/internal/stub/handlers/auth/refresh"
	contractcancel "github.com/hostfolio/portal/internal/stub/handlers/contract/cancel"
	contractread "github.com/hostfolio/portal/internal/stub/handlers/contract/read"
	contractsign "github.com/hostfolio/portal/internal/stub/handlers/contract/sign"
	contracttemplate "github.com/hostfolio/portal/internal/stub/handlers/contract/template"
	convclose "github.com/hostfolio/portal/internal/stub/handlers/conversation/close"
	convcreate "github.com/hostfolio/portal/internal/stub/handlers/conversation/create"
	convlist "github.com/hostfolio/portal/internal/stub/handlers/conversation/list"
	convread "github.com/hostfolio/portal/internal/stub/handlers/conversation/read"
	convsend "github.com/hostfolio/portal/internal/stub/handlers/conversation/send"
	"github.com/hostfolio/portal/internal/stub/handlers/health"
	notiflist "github.com/hostfolio/portal/internal/stub/handlers/notification/list"
	notifmarkall "github.com/hostfolio/portal/internal/stub/handlers/notification/markall"
	notifmarkread "github.com/hostfolio/portal/internal/stub/handlers/notification/markread"
	notifunread "github.com/hostfolio/portal/internal/stub/handlers/notification/unreadcount"
	substatus "github.com/hostfolio/portal/internal/stub/handlers/subscription/status"
	"github.com/hostfolio/portal/internal/stub/service"
	"github.com/hostfolio/portal/internal/stub/state"
)

// RegisterRoutes регистрирует все маршруты стаб-бэкенда.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *service.AuthService, store *state.State, parser middlewarectx.TokenParser) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(50, 100)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login/", authlogin.New(logger, authService).ServeHTTP)
		r.Post("/auth/token/refresh/", authrefresh.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(parser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))

			r.Get("/auth/profile/", authprofile.New(logger, authService).ServeHTTP)

			r.Get("/auth/notifications/", notiflist.New(logger, store).ServeHTTP)
			r.Get("/auth/notifications/unread-count/", notifunread.New(logger, store).ServeHTTP)
			r.Post("/auth/notifications/{id}/read/", notifmarkread.New(logger, store).ServeHTTP)
			r.Post("/auth/notifications/read-all/", notifmarkall.New(logger, store).ServeHTTP)

			r.Get("/auth/subscription-status/", substatus.New(logger, store).ServeHTTP)

			r.Get("/auth/contract-template/", contracttemplate.New(logger, store).ServeHTTP)
			r.Get("/auth/contract/", contractread.New(logger, store).ServeHTTP)
			r.Post("/auth/contract/sign/", contractsign.New(logger, store).ServeHTTP)
			r.Post("/auth/contract/cancel/", contractcancel.New(logger, store).ServeHTTP)

			r.Get("/auth/conversations/", convlist.New(logger, store).ServeHTTP)
			r.Post("/auth/conversations/", convcreate.New(logger, store).ServeHTTP)
			r.Get("/auth/conversations/{id}/", convread.New(logger, store).ServeHTTP)
			r.Post("/auth/conversations/{id}/messages/", convsend.New(logger, store).ServeHTTP)
			r.Post("/auth/conversations/{id}/close/", convclose.New(logger, store).ServeHTTP)
		})
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
}
