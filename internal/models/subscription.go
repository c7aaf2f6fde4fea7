package models

import "time"

// Статусы подписки, которые присылает бэкенд. Клиент переходы не вычисляет,
// он только отображает последний ответ сервера.
const (
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
)

// SubscriptionStatus снимок прав тенанта: план, состояние пробного периода,
// блокировка портала и лимит подключений к внешним каналам. Снимок только
// для чтения, обновляется целиком.
type SubscriptionStatus struct {
	Plan               string     `json:"subscription_plan" validate:"required"`
	Status             string     `json:"subscription_status" validate:"required"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	TrialDaysRemaining int        `json:"trial_days_remaining"`
	TrialExpired       bool       `json:"is_trial_expired"`
	PortalLocked       bool       `json:"is_portal_locked"`
	MaxOTAConnections  int        `json:"max_ota_connections"`
}

// DefaultSubscriptionStatus возвращает оптимистичный снимок до первой
// успешной загрузки: активный пробный период на 14 дней, без блокировки.
func DefaultSubscriptionStatus() SubscriptionStatus {
	return SubscriptionStatus{
		Plan:               "free_trial",
		Status:             SubscriptionTrialing,
		TrialDaysRemaining: 14,
		TrialExpired:       false,
		PortalLocked:       false,
		MaxOTAConnections:  2,
	}
}
