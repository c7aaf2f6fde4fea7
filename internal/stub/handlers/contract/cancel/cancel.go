// Package cancel реализует HTTP-обработчик запроса расторжения договора.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	"github.com/hostfolio/portal/internal/http/response"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
	"github.com/hostfolio/portal/internal/stub/state"
)

// Service описывает интерфейс расторжения договора.
type Service interface {
	RequestCancellation(ctx context.Context, userID int64, reason string) (*models.Contract, error)
}

// Handler обрабатывает HTTP-запросы расторжения.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.cancel"

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

	var req models.CancelContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	contract, err := h.svc.RequestCancellation(r.Context(), userID, req.CancellationReason)
	if err != nil {
		if errors.Is(err, state.ErrContractNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("contract not found"))
			return
		}
		log.Error("failed to request cancellation", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("cancellation requested", slog.Int64("user_id", userID))
	render.JSON(w, r, contract)
}
