package login_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hostfolio/portal/internal/models"
	"github.com/hostfolio/portal/internal/stub/handlers/auth/login"
	"github.com/hostfolio/portal/internal/stub/service"
)

type AuthMock struct{ mock.Mock }

func (m *AuthMock) Login(ctx context.Context, email, password string) (*models.LoginPayload, error) {
	args := m.Called(ctx, email, password)
	payload, _ := args.Get(0).(*models.LoginPayload)
	return payload, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *AuthMock)
		wantStatusCode int
		wantAccess     string
	}{
		{
			name: "success",
			body: `{"email":"demo@hostfolio.io","password":"hostfolio-demo"}`,
			setupMock: func(m *AuthMock) {
				m.On("Login", mock.Anything, "demo@hostfolio.io", "hostfolio-demo").
					Return(&models.LoginPayload{
						User:   models.User{ID: 1, Email: "demo@hostfolio.io", IsHost: true},
						Access: "access-1", Refresh: "refresh-1",
					}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantAccess:     "access-1",
		},
		{
			name:           "malformed json",
			body:           `{"email":`,
			setupMock:      func(_ *AuthMock) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing password",
			body:           `{"email":"demo@hostfolio.io"}`,
			setupMock:      func(_ *AuthMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name:           "not an email",
			body:           `{"email":"not-an-email","password":"x"}`,
			setupMock:      func(_ *AuthMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid credentials",
			body: `{"email":"demo@hostfolio.io","password":"wrong"}`,
			setupMock: func(m *AuthMock) {
				m.On("Login", mock.Anything, "demo@hostfolio.io", "wrong").
					Return(nil, service.ErrInvalidCredentials).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthMock)
			tt.setupMock(authMock)
			handler := login.New(newNoopLogger(), authMock)

			req := httptest.NewRequest(http.MethodPost, "/auth/login/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			if tt.wantAccess != "" {
				var payload models.LoginPayload
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
				assert.Equal(t, tt.wantAccess, payload.Access)
				assert.Equal(t, int64(1), payload.User.ID)
			}
			authMock.AssertExpectations(t)
		})
	}
}
