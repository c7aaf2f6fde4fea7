// Package models содержит доменные модели клиентского слоя портала:
// пользователь, профиль хоста, уведомления, статус подписки, договор
// и переписка. На проводе все поля в snake_case, семантические имена
// живут на стороне Go.
package models

import "time"

// User представляет аутентифицированного пользователя портала.
// Заменяется целиком при логине и очищается целиком при логауте,
// частичная мутация не допускается.
type User struct {
	ID       int64  `json:"id"`        // Уникальный идентификатор пользователя
	Email    string `json:"email"`     // Электронная почта
	FullName string `json:"full_name"` // Отображаемое имя
	IsHost   bool   `json:"is_host"`   // Признак хоста (владельца объектов)
}

// HostProfile описывает профиль организации хоста, привязанный к тенанту.
type HostProfile struct {
	ID                 int64      `json:"id"`
	CompanyName        string     `json:"company_name"`
	Status             string     `json:"status"`
	OnboardingStep     string     `json:"onboarding_step"`
	SubscriptionPlan   string     `json:"subscription_plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	PropertyType       string     `json:"property_type"`
	NumProperties      int        `json:"num_properties"`
	NumUnits           int        `json:"num_units"`
	Country            string     `json:"country,omitempty"`
	Timezone           string     `json:"timezone,omitempty"`
	DefaultCurrency    string     `json:"default_currency,omitempty"`
	PreferredLanguage  string     `json:"preferred_language,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty"`
}

// LoginPayload данные, возвращаемые бэкендом при успешном логине.
type LoginPayload struct {
	User        User         `json:"user"`
	HostProfile *HostProfile `json:"host_profile,omitempty"`
	Access      string       `json:"access"`
	Refresh     string       `json:"refresh"`
}

// LoginRequest тело запроса логина.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfilePayload ответ на запрос профиля текущего пользователя.
type ProfilePayload struct {
	User        User         `json:"user"`
	HostProfile *HostProfile `json:"host_profile,omitempty"`
}

// RefreshRequest тело запроса обновления access-токена.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshPayload ответ на обновление токена. Refresh может отсутствовать,
// если бэкенд не ротирует refresh-токены.
type RefreshPayload struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
