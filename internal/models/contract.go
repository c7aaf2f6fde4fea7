package models

import "time"

// Статусы договора обслуживания.
const (
	ContractNoContract            = "no_contract"
	ContractPending               = "pending"
	ContractActive                = "active"
	ContractCancellationRequested = "cancellation_requested"
	ContractCancelled             = "cancelled"
	ContractExpired               = "expired"
)

// ContractTemplate актуальный шаблон договора, который хост подписывает.
type ContractTemplate struct {
	ID        int64     `json:"id"`
	Version   string    `json:"version"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Contract состояние договора тенанта. Если договора ещё нет, бэкенд
// возвращает тело вида {"status": "no_contract"} без остальных полей.
type Contract struct {
	ID                        int64      `json:"id"`
	Version                   string     `json:"version"`
	Status                    string     `json:"status"`
	SignedAt                  *time.Time `json:"signed_at"`
	ServiceStartDate          *time.Time `json:"service_start_date"`
	CancellationRequestedAt   *time.Time `json:"cancellation_requested_at"`
	CancellationNoticeMonths  int        `json:"cancellation_notice_months"`
	ServiceEndDate            *time.Time `json:"service_end_date"`
	ReadOnlyAccessUntil       *time.Time `json:"read_only_access_until"`
	DaysUntilServiceEnd       *int       `json:"days_until_service_end"`
	DaysUntilAccessExpires    *int       `json:"days_until_access_expires"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

// SignContractRequest тело запроса подписания договора.
type SignContractRequest struct {
	Agreement bool `json:"agreement" validate:"required"`
}

// CancelContractRequest тело запроса расторжения.
type CancelContractRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}
