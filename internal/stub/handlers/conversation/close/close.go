// Package close реализует HTTP-обработчик закрытия переписки.
package close

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	"github.com/hostfolio/portal/internal/http/response"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/stub/state"
)

// Service описывает интерфейс закрытия переписки.
type Service interface {
	CloseConversation(ctx context.Context, userID, id int64) error
}

// Handler обрабатывает HTTP-запросы закрытия переписки.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.conversation.close"

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

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid conversation id"))
		return
	}

	if err := h.svc.CloseConversation(r.Context(), userID, id); err != nil {
		if errors.Is(err, state.ErrConversationNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("conversation not found"))
			return
		}
		log.Error("failed to close conversation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("conversation closed", slog.Int64("conversation_id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
