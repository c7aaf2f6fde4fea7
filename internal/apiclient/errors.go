package apiclient

import (
	"errors"
	"fmt"
)

// Kind классифицирует отказ удалённого доступа. Слою витрин все три вида
// безразличны (он их молча отбрасывает), но тип делает отбрасывание
// явным и проверяемым.
type Kind int

const (
	// KindTransport сетевая ошибка, ответ не получен.
	KindTransport Kind = iota
	// KindStatus получен ответ с кодом вне 2xx.
	KindStatus
	// KindDecode тело ответа не удалось разобрать.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// ErrPortalLocked возвращается, когда мутация отклонена на клиенте из-за
// блокировки портала. Это не ошибка бэкенда: запрос не отправлялся.
var ErrPortalLocked = errors.New("account is suspended, upgrade or update payment to continue")

// FetchError описывает отказ одного запроса к бэкенду.
type FetchError struct {
	Kind       Kind   // Классификация отказа
	Op         string // Метод и путь, например "GET /auth/notifications/"
	StatusCode int    // HTTP-код, только для KindStatus
	Err        error  // Исходная ошибка
}

func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
