// Package health реализует HTTP-обработчик проверки живости стаб-бэкенда.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/hostfolio/portal/internal/http/response"
)

// Handler отвечает на запросы проверки живости.
type Handler struct{}

// New создает новый экземпляр Handler.
func New() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(map[string]string{"status": "alive"}))
}
