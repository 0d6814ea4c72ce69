package models

import "time"

type Conversation struct {
	ID         int64     `json:"id"`
	CustomerID int64     `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// CustomerID is nil for admin and system authored messages; the sender
// side is derived from that, never stored separately.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	CustomerID     *int64    `json:"customer_id"`
	ContentType    string    `json:"content_type"`
	Body           string    `json:"body"`
	Markdown       bool      `json:"markdown"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *Message) FromCustomer() bool {
	return m.CustomerID != nil
}

// ConversationRead is a per-party cursor into a conversation's message
// stream. LastReadMessageID is intentionally not a database foreign key;
// the relationship is validated in ReadService.AdvanceCursor.
type ConversationRead struct {
	ID                int64     `json:"id"`
	ConversationID    int64     `json:"conversation_id"`
	IsAdmin           bool      `json:"is_admin"`
	LastReadMessageID *int64    `json:"last_read_message_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ConversationSummary is one admin-inbox row: the conversation, its admin
// read cursor, the newest message and the derived unread count.
type ConversationSummary struct {
	ID                 int64    `json:"id"`
	ConversationReadID int64    `json:"conversation_read_id"`
	CustomerID         int64    `json:"customer_id"`
	UnreadCount        int      `json:"unread_count"`
	LatestMessage      *Message `json:"latest_message,omitempty"`
}
