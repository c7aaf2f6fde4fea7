// Package notification содержит витрину ленты уведомлений тенанта с
// производным счётчиком непрочитанных. Сетевые отказы не покидают витрину:
// лента уведомлений не должна блокировать остальной интерфейс, поэтому
// ошибка логируется и явно отбрасывается, а вызывающий при желании
// повторяет Fetch.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Accessor контракт удалённого доступа, нужный витрине.
type Accessor interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Store витрина уведомлений. Инвариант: после любой успешной мутации
// unreadCount равен количеству записей с Read == false и не бывает
// отрицательным.
type Store struct {
	api Accessor
	log *slog.Logger

	mu            sync.RWMutex
	notifications []models.Notification
	unreadCount   int
	loaded        bool
}

// New создает витрину с пустой лентой.
func New(api Accessor, log *slog.Logger) *Store {
	return &Store{api: api, log: log}
}

// Fetch загружает полную ленту тенанта. При успехе список заменяется
// целиком, счётчик пересчитывается по факту. При отказе данные не
// трогаются, но витрина помечается загруженной, чтобы потребители не
// крутили спиннер вечно.
func (s *Store) Fetch(ctx context.Context) {
	const op = "store.notification.Fetch"

	var list []models.Notification
	err := s.api.Get(ctx, "/auth/notifications/", &list)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warn("failed to fetch notifications", sl.Err(err), sl.Op(op))
		s.loaded = true
		return
	}

	s.notifications = list
	s.unreadCount = models.CountUnread(list)
	s.loaded = true
}

// FetchUnreadCount загружает только скалярный счётчик и перезаписывает его,
// не трогая ленту. До следующего полного Fetch счётчик и лента могут
// расходиться — это документированное поведение, а не дефект.
func (s *Store) FetchUnreadCount(ctx context.Context) {
	const op = "store.notification.FetchUnreadCount"

	var payload models.UnreadCount
	if err := s.api.Get(ctx, "/auth/notifications/unread-count/", &payload); err != nil {
		s.log.Warn("failed to fetch unread count", sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.unreadCount = payload.Count
	s.mu.Unlock()
}

// MarkRead просит бэкенд отметить одно уведомление прочитанным. Мутация
// не оптимистична: локальное состояние меняется только после успеха,
// поэтому откатывать нечего. Счётчик уменьшается на единицу с полом в ноль.
func (s *Store) MarkRead(ctx context.Context, id int64) {
	const op = "store.notification.MarkRead"

	path := fmt.Sprintf("/auth/notifications/%d/read/", id)
	if err := s.api.Post(ctx, path, nil, nil); err != nil {
		s.log.Warn("failed to mark notification read",
			slog.Int64("id", id), sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	if s.unreadCount > 0 {
		s.unreadCount--
	}
}

// MarkAllRead просит бэкенд отметить прочитанной всю ленту. Идемпотентна:
// повторный вызов оставляет счётчик в нуле и все флаги взведёнными.
func (s *Store) MarkAllRead(ctx context.Context) {
	const op = "store.notification.MarkAllRead"

	if err := s.api.Post(ctx, "/auth/notifications/read-all/", nil, nil); err != nil {
		s.log.Warn("failed to mark all notifications read", sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.unreadCount = 0
}

// Notifications возвращает копию ленты в серверном порядке.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Notification, len(s.notifications))
	copy(list, s.notifications)
	return list
}

// UnreadCount возвращает кешированный счётчик непрочитанных.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unreadCount
}

// Loaded сообщает, завершилась ли хотя бы одна попытка полной загрузки.
// Пустой успех и отказ неразличимы — осознанное упрощение исходного слоя.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
