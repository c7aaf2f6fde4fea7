// Package list реализует HTTP-обработчик выдачи списка переписок хоста
// с опциональным фильтром по статусу (?status=open|closed).
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	"github.com/hostfolio/portal/internal/http/response"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Service описывает интерфейс чтения переписок.
type Service interface {
	Conversations(ctx context.Context, userID int64, statusFilter string) ([]models.Conversation, error)
}

// Handler обрабатывает HTTP-запросы списка переписок.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.conversation.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	list, err := h.svc.Conversations(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		log.Error("failed to list conversations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if list == nil {
		list = []models.Conversation{}
	}

	render.JSON(w, r, list)
}
