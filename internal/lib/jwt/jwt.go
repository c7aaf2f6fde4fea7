// Package jwt реализует генерацию и парсинг JWT токенов локального
// стаб-бэкенда с пользовательскими claim полями.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создаёт access-токен для пользователя портала.
	GenerateToken(userID int64, email string, isHost bool) (string, error)
	// GenerateRefreshToken создаёт refresh-токен с увеличенным TTL.
	GenerateRefreshToken(userID int64, email string, isHost bool) (string, error)
	// ParseToken возвращает *CustomClaims, если токен корректен.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserID              int64  `json:"user_id"` // Идентификатор пользователя
	Email               string `json:"email"`   // Электронная почта
	IsHost              bool   `json:"is_host"` // Признак хоста
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// MakerImpl реализует Maker с использованием секретного ключа и TTL.
type MakerImpl struct {
	secretKey  string
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, tokenTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		tokenTTL:   tokenTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateToken создает access-токен, подписывая его секретным ключом.
func (j *MakerImpl) GenerateToken(userID int64, email string, isHost bool) (string, error) {
	return j.generate(userID, email, isHost, j.tokenTTL)
}

// GenerateRefreshToken создает refresh-токен с TTL refreshTTL.
func (j *MakerImpl) GenerateRefreshToken(userID int64, email string, isHost bool) (string, error) {
	return j.generate(userID, email, isHost, j.refreshTTL)
}

func (j *MakerImpl) generate(userID int64, email string, isHost bool, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserID: userID,
		Email:  email,
		IsHost: isHost,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает CustomClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	return claims, nil
}
