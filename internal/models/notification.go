package models

import "time"

// Notification событие в ленте тенанта. Порядок записей задаёт сервер,
// клиент его не пересортировывает. Локально мутируется только флаг Read.
type Notification struct {
	ID        int64     `json:"id"`         // Уникален в пределах тенанта
	Category  string    `json:"category"`   // Тег категории (booking, payment, system...)
	Title     string    `json:"title"`      // Заголовок
	Message   string    `json:"message"`    // Текст уведомления
	Read      bool      `json:"is_read"`    // Прочитано ли
	ActionURL string    `json:"action_url"` // Непрозрачная ссылка перехода
	CreatedAt time.Time `json:"created_at"` // Время создания на сервере
}

// UnreadCount ответ конечной точки со скалярным счётчиком непрочитанных.
type UnreadCount struct {
	Count int `json:"count"`
}

// CountUnread возвращает количество непрочитанных уведомлений в списке.
func CountUnread(list []Notification) int {
	var n int
	for _, item := range list {
		if !item.Read {
			n++
		}
	}
	return n
}
