// Package read реализует HTTP-обработчик выдачи договора тенанта.
// Когда договора ещё нет, возвращается тело вида {"status":"no_contract"}
// без остальных полей — именно такую форму ждёт клиент портала.
package read

import (
	"context"
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

// Service описывает интерфейс чтения договора.
type Service interface {
	Contract(ctx context.Context, userID int64) (*models.Contract, error)
}

// Handler обрабатывает HTTP-запросы чтения договора.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.read"

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

	contract, err := h.svc.Contract(r.Context(), userID)
	if err != nil {
		if errors.Is(err, state.ErrContractNotFound) {
			render.JSON(w, r, map[string]string{"status": models.ContractNoContract})
			return
		}
		log.Error("failed to load contract", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, contract)
}
