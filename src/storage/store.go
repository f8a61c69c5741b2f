// Package storage holds conversations and their committed messages.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Drivers accepted by New.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

var (
	// ErrNotFound indicates the conversation does not exist
	ErrNotFound = errors.New("conversation not found")

	// ErrUnknownDriver indicates an unsupported store driver
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Store persists conversations for the lifetime of the process.
// Conversations and messages are listed in insertion order.
type Store interface {
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context) ([]Conversation, error)
	UpdateConversation(ctx context.Context, c *Conversation) error
	DeleteConversation(ctx context.Context, id string) error

	AppendMessage(ctx context.Context, m *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)

	Close() error
}

// New opens a store for the named driver. The sqlite driver uses a private
// in-memory database.
func New(driver string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return Open(":memory:")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// prepareConversation fills generated fields before insert.
func prepareConversation(c *Conversation) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
}

// prepareMessage fills generated fields before insert.
func prepareMessage(m *Message) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}
