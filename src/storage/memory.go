package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var _ Store = (*Memory)(nil)

// Memory is a map-backed Store.
type Memory struct {
	mu       sync.RWMutex
	seq      int64
	convs    map[string]*Conversation
	messages map[string][]Message
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		convs:    make(map[string]*Conversation),
		messages: make(map[string][]Message),
	}
}

func (m *Memory) CreateConversation(ctx context.Context, c *Conversation) error {
	prepareConversation(c)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.convs[c.ID]; ok {
		return fmt.Errorf("conversation %s already exists", c.ID)
	}
	m.seq++
	c.Seq = m.seq
	stored := *c
	m.convs[c.ID] = &stored
	return nil
}

func (m *Memory) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.convs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *Memory) ListConversations(ctx context.Context) ([]Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Conversation, 0, len(m.convs))
	for _, c := range m.convs {
		out = append(out, *c)
	}
	sortBySeq(out, func(c Conversation) int64 { return c.Seq })
	return out, nil
}

func (m *Memory) UpdateConversation(ctx context.Context, c *Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.convs[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	stored.Title = c.Title
	stored.ServerConversationID = c.ServerConversationID
	stored.TitleFinalized = c.TitleFinalized
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

func (m *Memory) DeleteConversation(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.convs[id]; !ok {
		return ErrNotFound
	}
	delete(m.convs, id)
	delete(m.messages, id)
	return nil
}

func (m *Memory) AppendMessage(ctx context.Context, msg *Message) error {
	prepareMessage(msg)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.convs[msg.ConversationID]; !ok {
		return ErrNotFound
	}
	m.seq++
	msg.Seq = m.seq
	m.messages[msg.ConversationID] = append(m.messages[msg.ConversationID], *msg)
	return nil
}

func (m *Memory) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.convs[conversationID]; !ok {
		return nil, ErrNotFound
	}
	msgs := m.messages[conversationID]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (m *Memory) Close() error { return nil }
