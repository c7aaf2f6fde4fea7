// Package sign реализует HTTP-обработчик подписания договора по
// действующему шаблону.
package sign

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	"github.com/hostfolio/portal/internal/http/response"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
	"github.com/hostfolio/portal/internal/stub/state"
)

// Service описывает интерфейс подписания договора.
type Service interface {
	SignContract(ctx context.Context, userID int64) (*models.Contract, error)
}

// Handler обрабатывает HTTP-запросы подписания.
type Handler struct {
	log      *slog.Logger
	svc      Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{
		log:      log,
		svc:      svc,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.sign"

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

	var req models.SignContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	contract, err := h.svc.SignContract(r.Context(), userID)
	if err != nil {
		if errors.Is(err, state.ErrContractSigned) {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("contract already signed"))
			return
		}
		log.Error("failed to sign contract", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("contract signed", slog.Int64("user_id", userID))
	render.JSON(w, r, contract)
}
