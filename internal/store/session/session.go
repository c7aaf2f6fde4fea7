// Package session содержит витрину сессии: аутентифицированный пользователь,
// профиль хоста и пара токенов. Витрина не ходит в сеть, мутируется только
// явными событиями логина и логаута.
package session

import (
	"sync"

	"github.com/hostfolio/portal/internal/models"
)

// Store процессная ячейка состояния сессии. Безопасна для конкурентного
// чтения; мутируют её только собственные методы.
type Store struct {
	mu          sync.RWMutex
	user        *models.User
	hostProfile *models.HostProfile
	access      string
	refresh     string
	subscribers []func()
}

// New создает пустую витрину: пользователь не аутентифицирован.
func New() *Store {
	return &Store{}
}

// Login целиком заменяет состояние сессии данными логина. Операция
// синхронная, тотальная и идемпотентная при повторении.
func (s *Store) Login(payload models.LoginPayload) {
	s.mu.Lock()
	user := payload.User
	s.user = &user
	s.hostProfile = payload.HostProfile
	s.access = payload.Access
	s.refresh = payload.Refresh
	s.mu.Unlock()

	s.notify()
}

// Logout целиком очищает состояние сессии. Повторный вызов — no-op.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.hostProfile = nil
	s.access = ""
	s.refresh = ""
	s.mu.Unlock()

	s.notify()
}

// SetTokens заменяет пару токенов после обновления access-токена.
// Пользователь и профиль не трогаются.
func (s *Store) SetTokens(access, refresh string) {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.mu.Unlock()

	s.notify()
}

// Tokens возвращает текущие access и refresh токены.
func (s *Store) Tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.refresh
}

// User возвращает копию текущего пользователя или nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// HostProfile возвращает копию профиля хоста или nil.
func (s *Store) HostProfile() *models.HostProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.hostProfile == nil {
		return nil
	}
	profile := *s.hostProfile
	return &profile
}

// IsAuthenticated истинно тогда и только тогда, когда пользователь задан.
// Оба факта живут в одном поле, рассинхронизация невозможна.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Subscribe регистрирует синхронный колбэк на каждую мутацию витрины.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
