package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/hostfolio/portal/internal/lib/jwt"
	"github.com/hostfolio/portal/internal/lib/password"
	"github.com/hostfolio/portal/internal/models"
)

type UserRepositoryMock struct{ mock.Mock }

func (m *UserRepositoryMock) UserByEmail(ctx context.Context, email string) (*models.User, *models.HostProfile, string, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	profile, _ := args.Get(1).(*models.HostProfile)
	return user, profile, args.String(2), args.Error(3)
}

func (m *UserRepositoryMock) UserByID(ctx context.Context, id int64) (*models.User, *models.HostProfile, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	profile, _ := args.Get(1).(*models.HostProfile)
	return user, profile, args.Error(2)
}

type JWTMakerMock struct{ mock.Mock }

func (m *JWTMakerMock) GenerateToken(userID int64, email string, isHost bool) (string, error) {
	args := m.Called(userID, email, isHost)
	return args.String(0), args.Error(1)
}

func (m *JWTMakerMock) GenerateRefreshToken(userID int64, email string, isHost bool) (string, error) {
	args := m.Called(userID, email, isHost)
	return args.String(0), args.Error(1)
}

func (m *JWTMakerMock) ParseToken(tokenStr string) (*jwtlib.CustomClaims, error) {
	args := m.Called(tokenStr)
	claims, _ := args.Get(0).(*jwtlib.CustomClaims)
	return claims, args.Error(1)
}

func demoUser() *models.User {
	return &models.User{ID: 1, Email: "demo@hostfolio.io", FullName: "Demo Host", IsHost: true}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secret-pass")
	require.NoError(t, err)

	tests := []struct {
		name      string
		password  string
		setupMock func(r *UserRepositoryMock, j *JWTMakerMock)
		wantErr   error
	}{
		{
			name:     "success",
			password: "secret-pass",
			setupMock: func(r *UserRepositoryMock, j *JWTMakerMock) {
				r.On("UserByEmail", mock.Anything, "demo@hostfolio.io").
					Return(demoUser(), &models.HostProfile{ID: 1}, hash, nil).Once()
				j.On("GenerateToken", int64(1), "demo@hostfolio.io", true).
					Return("access-token", nil).Once()
				j.On("GenerateRefreshToken", int64(1), "demo@hostfolio.io", true).
					Return("refresh-token", nil).Once()
			},
		},
		{
			name:     "unknown user",
			password: "secret-pass",
			setupMock: func(r *UserRepositoryMock, _ *JWTMakerMock) {
				r.On("UserByEmail", mock.Anything, "demo@hostfolio.io").
					Return(nil, nil, "", errors.New("user not found")).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			password: "not-the-password",
			setupMock: func(r *UserRepositoryMock, _ *JWTMakerMock) {
				r.On("UserByEmail", mock.Anything, "demo@hostfolio.io").
					Return(demoUser(), nil, hash, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			maker := new(JWTMakerMock)
			tt.setupMock(repo, maker)
			svc := NewAuthService(repo, maker)

			payload, err := svc.Login(context.Background(), "demo@hostfolio.io", tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, payload)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "access-token", payload.Access)
				assert.Equal(t, "refresh-token", payload.Refresh)
				assert.Equal(t, int64(1), payload.User.ID)
			}
			repo.AssertExpectations(t)
			maker.AssertExpectations(t)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	maker.On("ParseToken", "refresh-1").
		Return(&jwtlib.CustomClaims{UserID: 1, Email: "demo@hostfolio.io", IsHost: true}, nil).Once()
	repo.On("UserByID", mock.Anything, int64(1)).
		Return(demoUser(), &models.HostProfile{ID: 1}, nil).Once()
	maker.On("GenerateToken", int64(1), "demo@hostfolio.io", true).
		Return("access-2", nil).Once()
	maker.On("GenerateRefreshToken", int64(1), "demo@hostfolio.io", true).
		Return("refresh-2", nil).Once()
	svc := NewAuthService(repo, maker)

	payload, err := svc.Refresh(context.Background(), "refresh-1")

	require.NoError(t, err)
	assert.Equal(t, "access-2", payload.Access)
	assert.Equal(t, "refresh-2", payload.Refresh)
	maker.AssertExpectations(t)
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	maker.On("ParseToken", "garbage").
		Return(nil, errors.New("token is malformed")).Once()
	svc := NewAuthService(repo, maker)

	payload, err := svc.Refresh(context.Background(), "garbage")

	require.Error(t, err)
	assert.Nil(t, payload)
	repo.AssertNotCalled(t, "UserByID", mock.Anything, mock.Anything)
}

func TestAuthService_Profile(t *testing.T) {
	repo := new(UserRepositoryMock)
	maker := new(JWTMakerMock)
	repo.On("UserByID", mock.Anything, int64(1)).
		Return(demoUser(), &models.HostProfile{ID: 1, CompanyName: "Seaside Stays OÜ"}, nil).Once()
	svc := NewAuthService(repo, maker)

	payload, err := svc.Profile(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "demo@hostfolio.io", payload.User.Email)
	require.NotNil(t, payload.HostProfile)
	assert.Equal(t, "Seaside Stays OÜ", payload.HostProfile.CompanyName)
}
