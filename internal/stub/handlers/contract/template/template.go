// Package template реализует HTTP-обработчик выдачи действующего шаблона
// договора обслуживания.
package template

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/hostfolio/portal/internal/http/response"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Service описывает интерфейс чтения шаблона договора.
type Service interface {
	ContractTemplate(ctx context.Context) (*models.ContractTemplate, error)
}

// Handler обрабатывает HTTP-запросы шаблона договора.
type Handler struct {
	log *slog.Logger
	svc Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, svc Service) *Handler {
	return &Handler{log: log, svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contract.template"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tpl, err := h.svc.ContractTemplate(r.Context())
	if err != nil {
		log.Error("failed to load contract template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, tpl)
}
