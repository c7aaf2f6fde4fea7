// Package message содержит витрину переписок хоста с поддержкой: список
// диалогов и активный диалог с сообщениями. Все отказы молчаливые, в духе
// витрины уведомлений.
package message

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// Accessor контракт удалённого доступа, нужный витрине.
type Accessor interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Store витрина переписок.
type Store struct {
	api Accessor
	log *slog.Logger

	mu            sync.RWMutex
	conversations []models.Conversation
	active        *models.ConversationDetail
	loaded        bool
	sending       bool
}

// New создает пустую витрину переписок.
func New(api Accessor, log *slog.Logger) *Store {
	return &Store{api: api, log: log}
}

// FetchConversations загружает список переписок, опционально фильтруя по
// статусу. Отказ оставляет прежний список, но взводит loaded.
func (s *Store) FetchConversations(ctx context.Context, statusFilter string) {
	const op = "store.message.FetchConversations"

	path := "/auth/conversations/"
	if statusFilter != "" {
		path += "?status=" + url.QueryEscape(statusFilter)
	}

	var list []models.Conversation
	err := s.api.Get(ctx, path, &list)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warn("failed to fetch conversations", sl.Err(err), sl.Op(op))
		s.loaded = true
		return
	}

	s.conversations = list
	s.loaded = true
}

// FetchConversation загружает одну переписку с сообщениями.
func (s *Store) FetchConversation(ctx context.Context, id int64) {
	const op = "store.message.FetchConversation"

	var detail models.ConversationDetail
	path := fmt.Sprintf("/auth/conversations/%d/", id)
	if err := s.api.Get(ctx, path, &detail); err != nil {
		s.log.Warn("failed to fetch conversation",
			slog.Int64("id", id), sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.active = &detail
	s.mu.Unlock()
}

// SendMessage отправляет сообщение в переписку и обновляет список, чтобы
// превью последнего сообщения не отставало.
func (s *Store) SendMessage(ctx context.Context, conversationID int64, body string) {
	const op = "store.message.SendMessage"

	s.setSending(true)
	defer s.setSending(false)

	var detail models.ConversationDetail
	path := fmt.Sprintf("/auth/conversations/%d/messages/", conversationID)
	req := models.SendMessageRequest{Body: body}
	if err := s.api.Post(ctx, path, req, &detail); err != nil {
		s.log.Warn("failed to send message",
			slog.Int64("conversation_id", conversationID), sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.active = &detail
	s.mu.Unlock()

	s.refreshList(ctx, op)
}

// CreateConversation создает новую переписку и делает её активной.
func (s *Store) CreateConversation(ctx context.Context, subject, body string, hostID int64) {
	const op = "store.message.CreateConversation"

	s.setSending(true)
	defer s.setSending(false)

	var detail models.ConversationDetail
	req := models.CreateConversationRequest{Subject: subject, Body: body, HostID: hostID}
	if err := s.api.Post(ctx, "/auth/conversations/", req, &detail); err != nil {
		s.log.Warn("failed to create conversation", sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.active = &detail
	s.mu.Unlock()

	s.refreshList(ctx, op)
}

// CloseConversation закрывает переписку и перечитывает список и деталь.
func (s *Store) CloseConversation(ctx context.Context, id int64) {
	const op = "store.message.CloseConversation"

	path := fmt.Sprintf("/auth/conversations/%d/close/", id)
	if err := s.api.Post(ctx, path, nil, nil); err != nil {
		s.log.Warn("failed to close conversation",
			slog.Int64("id", id), sl.Err(err), sl.Op(op))
		return
	}

	s.refreshList(ctx, op)
	s.FetchConversation(ctx, id)
}

func (s *Store) refreshList(ctx context.Context, op string) {
	var list []models.Conversation
	if err := s.api.Get(ctx, "/auth/conversations/", &list); err != nil {
		s.log.Warn("failed to refresh conversation list", sl.Err(err), sl.Op(op))
		return
	}

	s.mu.Lock()
	s.conversations = list
	s.mu.Unlock()
}

func (s *Store) setSending(v bool) {
	s.mu.Lock()
	s.sending = v
	s.mu.Unlock()
}

// Conversations возвращает копию списка переписок.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]models.Conversation, len(s.conversations))
	copy(list, s.conversations)
	return list
}

// Active возвращает копию активной переписки или nil.
func (s *Store) Active() *models.ConversationDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	detail := *s.active
	return &detail
}

// Loaded сообщает, завершилась ли попытка загрузки списка.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Sending истинно, пока выполняется отправка или создание.
func (s *Store) Sending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sending
}
