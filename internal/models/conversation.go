package models

import "time"

// Message одно сообщение в переписке хоста с поддержкой.
type Message struct {
	ID         int64     `json:"id"`
	Body       string    `json:"body"`
	IsFromHost bool      `json:"is_from_host"`
	SenderName string    `json:"sender_name"`
	Read       bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation элемент списка переписок.
type Conversation struct {
	ID                 int64     `json:"id"`
	Subject            string    `json:"subject"`
	Status             string    `json:"status"`
	HostCompany        string    `json:"host_company"`
	HostEmail          string    `json:"host_email"`
	LastMessageAt      time.Time `json:"last_message_at"`
	UnreadCount        int       `json:"unread_count"`
	LastMessagePreview string    `json:"last_message_preview"`
	CreatedAt          time.Time `json:"created_at"`
}

// ConversationDetail переписка вместе с сообщениями.
type ConversationDetail struct {
	ID            int64     `json:"id"`
	Subject       string    `json:"subject"`
	Status        string    `json:"status"`
	HostCompany   string    `json:"host_company"`
	HostEmail     string    `json:"host_email"`
	LastMessageAt time.Time `json:"last_message_at"`
	Messages      []Message `json:"messages"`
	CreatedAt     time.Time `json:"created_at"`
}

// SendMessageRequest тело отправки сообщения в переписку.
type SendMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

// CreateConversationRequest тело создания новой переписки.
type CreateConversationRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
	HostID  int64  `json:"host_id,omitempty"`
}
