package markread_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hostfolio/portal/internal/http/middlewarectx"
	"github.com/hostfolio/portal/internal/stub/handlers/notification/markread"
	"github.com/hostfolio/portal/internal/stub/state"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) MarkRead(ctx context.Context, userID, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// newRouter монтирует обработчик за подменой JWT middleware, кладущей
// фиксированного пользователя в контекст.
func newRouter(h *markread.Handler, userID int64, authenticated bool) chi.Router {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if authenticated {
				ctx := context.WithValue(req.Context(), middlewarectx.UserID, userID)
				req = req.WithContext(ctx)
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/auth/notifications/{id}/read/", h.ServeHTTP)
	return r
}

func TestHandler_MarkRead(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		authenticated  bool
		setupMock      func(m *ServiceMock)
		wantStatusCode int
	}{
		{
			name:          "success",
			path:          "/auth/notifications/3/read/",
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("MarkRead", mock.Anything, int64(1), int64(3)).Return(nil).Once()
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unauthorized",
			path:           "/auth/notifications/3/read/",
			authenticated:  false,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid id",
			path:           "/auth/notifications/abc/read/",
			authenticated:  true,
			setupMock:      func(_ *ServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:          "unknown notification",
			path:          "/auth/notifications/999/read/",
			authenticated: true,
			setupMock: func(m *ServiceMock) {
				m.On("MarkRead", mock.Anything, int64(1), int64(999)).
					Return(state.ErrNotificationNotFound).Once()
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock := new(ServiceMock)
			tt.setupMock(svcMock)
			router := newRouter(markread.New(newNoopLogger(), svcMock), 1, tt.authenticated)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			svcMock.AssertExpectations(t)
		})
	}
}
