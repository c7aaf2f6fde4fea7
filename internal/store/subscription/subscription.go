// Package subscription содержит витрину прав тенанта: план, пробный период
// и блокировка портала. Витрина только читает серверную правду; никакая
// клиентская логика не переопределяет PortalLocked.
package subscription

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-playground/validator"

	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Accessor контракт удалённого доступа, нужный витрине.
type Accessor interface {
	Get(ctx context.Context, path string, out any) error
}

// Store витрина снимка подписки. До первой успешной загрузки держит
// оптимистичный плейсхолдер (активный триал), который сервер ещё не
// подтверждал.
type Store struct {
	api      Accessor
	log      *slog.Logger
	validate *validator.Validate

	mu       sync.RWMutex
	snapshot models.SubscriptionStatus
	loaded   bool

	// Монотонные номера запросов восстанавливают порядок "последний
	// отправленный побеждает" при перекрывающихся Fetch.
	seq        uint64
	appliedSeq uint64
}

// New создает витрину с оптимистичным снимком по умолчанию.
func New(api Accessor, log *slog.Logger) *Store {
	return &Store{
		api:      api,
		log:      log,
		validate: validator.New(),
		snapshot: models.DefaultSubscriptionStatus(),
	}
}

// Fetch загружает снимок прав и заменяет его атомарно: частично
// разобранный или невалидный ответ отбрасывается целиком, прежний снимок
// остаётся. Любой исход (включая отказ для пользователей без подписки)
// помечает витрину загруженной. Ответ запроса, отправленного раньше уже
// применённого, отбрасывается.
func (s *Store) Fetch(ctx context.Context) {
	const op = "store.subscription.Fetch"

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	var snap models.SubscriptionStatus
	err := s.api.Get(ctx, "/auth/subscription-status/", &snap)
	if err == nil {
		err = s.validate.Struct(snap)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.appliedSeq {
		s.log.Debug("dropping stale subscription response",
			slog.Uint64("seq", seq), slog.Uint64("applied", s.appliedSeq), sl.Op(op))
		return
	}
	s.appliedSeq = seq

	if err != nil {
		// Пользователи без понятия подписки и сетевые отказы выглядят
		// одинаково: прежние значения остаются, loaded взводится.
		s.log.Warn("failed to fetch subscription status", sl.Err(err), sl.Op(op))
		s.loaded = true
		return
	}

	s.snapshot = snap
	s.loaded = true
}

// Status возвращает текущий снимок прав.
func (s *Store) Status() models.SubscriptionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// IsPortalLocked истинно, только если так сказал последний серверный снимок.
func (s *Store) IsPortalLocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.PortalLocked
}

// Loaded сообщает, завершилась ли хотя бы одна попытка загрузки.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
