// Package state реализует хранилище стаб-бэкенда в памяти процесса.
// Хранилище наполняется демонстрационными данными одного хоста и живёт
// ровно столько, сколько живёт процесс: персистентность стаб-бэкенду
// не нужна.
package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hostfolio/portal/internal/lib/password"
	"github.com/hostfolio/portal/internal/models"
)

// Ошибки уровня хранилища.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrContractNotFound     = errors.New("contract not found")
	ErrContractSigned       = errors.New("contract already signed")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")
)

// DemoEmail и DemoPassword — учётные данные демонстрационного хоста.
const (
	DemoEmail    = "demo@hostfolio.io"
	DemoPassword = "hostfolio-demo"
)

type userRecord struct {
	user         models.User
	profile      models.HostProfile
	passwordHash string
}

type conversationRecord struct {
	conv     models.Conversation
	messages []models.Message
}

// State — хранилище демонстрационных данных. Безопасно для конкурентного
// использования.
type State struct {
	mu            sync.RWMutex
	users         []userRecord
	notifications map[int64][]models.Notification
	subscriptions map[int64]models.SubscriptionStatus
	contracts     map[int64]*models.Contract
	template      models.ContractTemplate
	conversations map[int64][]*conversationRecord
	nextID        int64
}

// New создает хранилище и наполняет его данными демонстрационного хоста.
func New() (*State, error) {
	const op = "state.New"

	hash, err := password.GetHash(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &State{
		notifications: make(map[int64][]models.Notification),
		subscriptions: make(map[int64]models.SubscriptionStatus),
		contracts:     make(map[int64]*models.Contract),
		conversations: make(map[int64][]*conversationRecord),
		nextID:        1000,
	}
	s.seed(hash)
	return s, nil
}

func (s *State) seed(passwordHash string) {
	now := time.Now().UTC()
	trialEnds := now.AddDate(0, 0, 9)

	user := models.User{
		ID:       1,
		Email:    DemoEmail,
		FullName: "Demo Host",
		IsHost:   true,
	}
	profile := models.HostProfile{
		ID:                 1,
		CompanyName:        "Seaside Stays OÜ",
		Status:             "active",
		OnboardingStep:     "completed",
		SubscriptionPlan:   "free_trial",
		SubscriptionStatus: models.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
		PropertyType:       "apartment",
		NumProperties:      3,
		NumUnits:           11,
		Country:            "EE",
		Timezone:           "Europe/Tallinn",
		DefaultCurrency:    "EUR",
		PreferredLanguage:  "en",
		CreatedAt:          &now,
	}
	s.users = append(s.users, userRecord{user: user, profile: profile, passwordHash: passwordHash})

	s.notifications[user.ID] = []models.Notification{
		{ID: 1, Category: "booking", Title: "New booking", Message: "Apartment 2B booked for 4 nights", ActionURL: "/bookings/214", CreatedAt: now.Add(-26 * time.Hour), Read: true},
		{ID: 2, Category: "payment", Title: "Payout sent", Message: "Payout of 312.40 EUR is on its way", ActionURL: "/payouts", CreatedAt: now.Add(-20 * time.Hour), Read: true},
		{ID: 3, Category: "system", Title: "Trial ending soon", Message: "Your free trial ends in 9 days", ActionURL: "/billing", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: 4, Category: "booking", Title: "Guest message", Message: "A guest asked about early check-in", ActionURL: "/messages", CreatedAt: now.Add(-40 * time.Minute)},
	}

	s.subscriptions[user.ID] = models.SubscriptionStatus{
		Plan:               "free_trial",
		Status:             models.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
		TrialDaysRemaining: 9,
		MaxOTAConnections:  2,
	}

	s.template = models.ContractTemplate{
		ID:        1,
		Version:   "2.1",
		Title:     "Hostfolio Service Agreement",
		Body:      "This agreement governs the use of the Hostfolio property management platform...",
		CreatedAt: now.AddDate(0, -2, 0),
	}

	s.conversations[user.ID] = []*conversationRecord{
		{
			conv: models.Conversation{
				ID:                 1,
				Subject:            "Payout schedule question",
				Status:             "open",
				HostCompany:        profile.CompanyName,
				HostEmail:          user.Email,
				LastMessageAt:      now.Add(-2 * time.Hour),
				UnreadCount:        1,
				LastMessagePreview: "We process payouts every Tuesday.",
				CreatedAt:          now.Add(-30 * time.Hour),
			},
			messages: []models.Message{
				{ID: 1, Body: "When are payouts processed?", IsFromHost: true, SenderName: "Demo Host", Read: true, CreatedAt: now.Add(-30 * time.Hour)},
				{ID: 2, Body: "We process payouts every Tuesday.", IsFromHost: false, SenderName: "Support", CreatedAt: now.Add(-2 * time.Hour)},
			},
		},
	}
}

func (s *State) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// UserByEmail возвращает пользователя, профиль и хэш пароля по почте.
func (s *State) UserByEmail(_ context.Context, email string) (*models.User, *models.HostProfile, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if strings.EqualFold(rec.user.Email, email) {
			user, profile := rec.user, rec.profile
			return &user, &profile, rec.passwordHash, nil
		}
	}
	return nil, nil, "", ErrUserNotFound
}

// UserByID возвращает пользователя и профиль по идентификатору.
func (s *State) UserByID(_ context.Context, id int64) (*models.User, *models.HostProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.users {
		if rec.user.ID == id {
			user, profile := rec.user, rec.profile
			return &user, &profile, nil
		}
	}
	return nil, nil, ErrUserNotFound
}

// Notifications возвращает уведомления пользователя, новые первыми.
func (s *State) Notifications(_ context.Context, userID int64) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.notifications[userID]
	list := make([]models.Notification, len(src))
	copy(list, src)
	// Новые первыми, как отдаёт настоящий бэкенд.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// UnreadCount возвращает число непрочитанных уведомлений пользователя.
func (s *State) UnreadCount(_ context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead помечает одно уведомление прочитанным.
func (s *State) MarkRead(_ context.Context, userID, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[userID]
	for i := range list {
		if list[i].ID == notificationID {
			list[i].Read = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *State) MarkAllRead(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[userID]
	for i := range list {
		list[i].Read = true
	}
	return nil
}

// SubscriptionStatus возвращает снимок подписки пользователя.
func (s *State) SubscriptionStatus(_ context.Context, userID int64) (*models.SubscriptionStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.subscriptions[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &snap, nil
}

// SetSubscriptionStatus заменяет снимок подписки. Используется тестами
// и отладочными сценариями блокировки портала.
func (s *State) SetSubscriptionStatus(_ context.Context, userID int64, snap models.SubscriptionStatus) {
	s.mu.Lock()
	s.subscriptions[userID] = snap
	s.mu.Unlock()
}

// ContractTemplate возвращает действующий шаблон договора.
func (s *State) ContractTemplate(_ context.Context) (*models.ContractTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl := s.template
	return &tpl, nil
}

// Contract возвращает договор пользователя или ErrContractNotFound,
// если хост ещё ничего не подписывал.
func (s *State) Contract(_ context.Context, userID int64) (*models.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contracts[userID]
	if !ok {
		return nil, ErrContractNotFound
	}
	contract := *c
	return &contract, nil
}

// SignContract подписывает договор по действующему шаблону. Повторная
// подпись при живом договоре — ошибка.
func (s *State) SignContract(_ context.Context, userID int64) (*models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.contracts[userID]; ok && existing.Status == models.ContractActive {
		return nil, ErrContractSigned
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 0, 1)
	c := &models.Contract{
		ID:                       s.nextIDLocked(),
		Version:                  s.template.Version,
		Status:                   models.ContractActive,
		SignedAt:                 &now,
		ServiceStartDate:         &start,
		CancellationNoticeMonths: 3,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	s.contracts[userID] = c
	contract := *c
	return &contract, nil
}

// RequestCancellation переводит договор в режим ожидания расторжения:
// сервис действует до конца срока уведомления, после чего доступ
// становится только на чтение.
func (s *State) RequestCancellation(_ context.Context, userID int64, reason string) (*models.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[userID]
	if !ok {
		return nil, ErrContractNotFound
	}

	now := time.Now().UTC()
	serviceEnd := now.AddDate(0, c.CancellationNoticeMonths, 0)
	readOnlyUntil := serviceEnd.AddDate(0, 6, 0)
	daysUntilEnd := int(time.Until(serviceEnd).Hours() / 24)
	daysUntilExpiry := int(time.Until(readOnlyUntil).Hours() / 24)

	c.Status = models.ContractCancellationRequested
	c.CancellationRequestedAt = &now
	c.ServiceEndDate = &serviceEnd
	c.ReadOnlyAccessUntil = &readOnlyUntil
	c.DaysUntilServiceEnd = &daysUntilEnd
	c.DaysUntilAccessExpires = &daysUntilExpiry
	c.UpdatedAt = now

	contract := *c
	return &contract, nil
}

// Conversations возвращает переписки пользователя, опционально фильтруя
// по статусу.
func (s *State) Conversations(_ context.Context, userID int64, statusFilter string) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []models.Conversation
	for _, rec := range s.conversations[userID] {
		if statusFilter != "" && rec.conv.Status != statusFilter {
			continue
		}
		list = append(list, rec.conv)
	}
	return list, nil
}

// Conversation возвращает переписку с сообщениями.
func (s *State) Conversation(_ context.Context, userID, id int64) (*models.ConversationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.findConversationLocked(userID, id)
	if err != nil {
		return nil, err
	}
	return detailOf(rec), nil
}

// SendMessage добавляет сообщение хоста в открытую переписку.
func (s *State) SendMessage(_ context.Context, userID, id int64, body string) (*models.ConversationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.findConversationLocked(userID, id)
	if err != nil {
		return nil, err
	}
	if rec.conv.Status == "closed" {
		return nil, ErrConversationClosed
	}

	user := s.users[0].user
	now := time.Now().UTC()
	msg := models.Message{
		ID:         s.nextIDLocked(),
		Body:       body,
		IsFromHost: true,
		SenderName: user.FullName,
		Read:       true,
		CreatedAt:  now,
	}
	rec.messages = append(rec.messages, msg)
	rec.conv.LastMessageAt = now
	rec.conv.LastMessagePreview = body
	return detailOf(rec), nil
}

// CreateConversation открывает новую переписку с первым сообщением хоста.
func (s *State) CreateConversation(_ context.Context, userID int64, subject, body string) (*models.ConversationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, profile := s.users[0].user, s.users[0].profile
	now := time.Now().UTC()
	rec := &conversationRecord{
		conv: models.Conversation{
			ID:                 s.nextIDLocked(),
			Subject:            subject,
			Status:             "open",
			HostCompany:        profile.CompanyName,
			HostEmail:          user.Email,
			LastMessageAt:      now,
			LastMessagePreview: body,
			CreatedAt:          now,
		},
		messages: []models.Message{
			{ID: s.nextIDLocked(), Body: body, IsFromHost: true, SenderName: user.FullName, Read: true, CreatedAt: now},
		},
	}
	s.conversations[userID] = append(s.conversations[userID], rec)
	return detailOf(rec), nil
}

// CloseConversation закрывает переписку. Закрытие закрытой — no-op.
func (s *State) CloseConversation(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.findConversationLocked(userID, id)
	if err != nil {
		return err
	}
	rec.conv.Status = "closed"
	return nil
}

func (s *State) findConversationLocked(userID, id int64) (*conversationRecord, error) {
	for _, rec := range s.conversations[userID] {
		if rec.conv.ID == id {
			return rec, nil
		}
	}
	return nil, ErrConversationNotFound
}

func detailOf(rec *conversationRecord) *models.ConversationDetail {
	msgs := make([]models.Message, len(rec.messages))
	copy(msgs, rec.messages)
	return &models.ConversationDetail{
		ID:            rec.conv.ID,
		Subject:       rec.conv.Subject,
		Status:        rec.conv.Status,
		HostCompany:   rec.conv.HostCompany,
		HostEmail:     rec.conv.HostEmail,
		LastMessageAt: rec.conv.LastMessageAt,
		Messages:      msgs,
		CreatedAt:     rec.conv.CreatedAt,
	}
}
