// Package service содержит бизнес-логику стаб-бэкенда: аутентификация
// демонстрационного хоста и выпуск JWT токенов.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hostfolio/portal/internal/lib/jwt"
	"github.com/hostfolio/portal/internal/lib/password"
	"github.com/hostfolio/portal/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре почта/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для чтения пользователей.
type UserRepository interface {
	// UserByEmail возвращает пользователя, профиль и хэш пароля по почте.
	UserByEmail(ctx context.Context, email string) (*models.User, *models.HostProfile, string, error)

	// UserByID возвращает пользователя и профиль по идентификатору.
	UserByID(ctx context.Context, id int64) (*models.User, *models.HostProfile, error)
}

// AuthService отвечает за логин, обновление токенов и выдачу профиля.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Login проверяет пароль пользователя и собирает полный ответ логина:
// пользователь, профиль хоста и пара токенов.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.LoginPayload, error) {
	const op = "service.auth.Login"

	user, profile, hash, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(hash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.IsHost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.ID, user.Email, user.IsHost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.LoginPayload{
		User:        *user,
		HostProfile: profile,
		Access:      access,
		Refresh:     refresh,
	}, nil
}

// Refresh проверяет refresh-токен и выпускает свежую пару токенов.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.RefreshPayload, error) {
	const op = "service.auth.Refresh"

	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, _, err := s.users.UserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	access, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.IsHost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.ID, user.Email, user.IsHost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.RefreshPayload{Access: access, Refresh: refresh}, nil
}

// Profile возвращает пользователя и профиль хоста по идентификатору.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.ProfilePayload, error) {
	const op = "service.auth.Profile"

	user, profile, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.ProfilePayload{User: *user, HostProfile: profile}, nil
}
