package storage

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Conversation is a locally created chat thread. ID is generated on the
// client; ServerConversationID stays empty until the backend assigns one.
type Conversation struct {
	Seq                  int64     `json:"-" db:"seq"`
	ID                   string    `json:"id" db:"id"`
	Title                string    `json:"title" db:"title"`
	ServerConversationID string    `json:"server_conversation_id" db:"server_conversation_id"`
	TitleFinalized       bool      `json:"title_finalized" db:"title_finalized"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Message is a committed chat message. Messages are never edited.
type Message struct {
	Seq            int64     `json:"-" db:"seq"`
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Role           Role      `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
