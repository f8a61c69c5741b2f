package viewmodel

import (
	"time"

	"github.com/elee1766/streamchat/src/storage"
)

// EventType represents the type of view model event
type EventType string

const (
	// Conversation events
	EventConversationCreated  EventType = "conversation_created"
	EventConversationDeleted  EventType = "conversation_deleted"
	EventConversationSwitched EventType = "conversation_switched"
	EventMessageReplayed      EventType = "message_replayed"
	EventTitleChanged         EventType = "title_changed"

	// User events
	EventUserMessage  EventType = "user_message"
	EventInputPrefill EventType = "input_prefill"

	// Assistant events
	EventAssistantStreamStart EventType = "assistant_stream_start"
	EventAssistantRender      EventType = "assistant_render"
	EventAssistantMessage     EventType = "assistant_message"
	EventLoadingChanged       EventType = "loading_changed"

	// System events
	EventError EventType = "error"
)

// Event is the base interface for all view model events
type Event interface {
	GetType() EventType
	GetTimestamp() time.Time
	GetConversationID() string
}

// BaseEvent contains common fields for all events. ConversationID is the
// local id of the conversation the event belongs to.
type BaseEvent struct {
	Type           EventType `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
}

func (e BaseEvent) GetType() EventType        { return e.Type }
func (e BaseEvent) GetTimestamp() time.Time   { return e.Timestamp }
func (e BaseEvent) GetConversationID() string { return e.ConversationID }

func newBase(t EventType, conversationID string) BaseEvent {
	return BaseEvent{Type: t, Timestamp: time.Now(), ConversationID: conversationID}
}

// ConversationCreatedEvent announces a new, empty conversation
type ConversationCreatedEvent struct {
	BaseEvent
	Title string `json:"title"`
}

// ConversationDeletedEvent announces a removed conversation
type ConversationDeletedEvent struct {
	BaseEvent
}

// ConversationSwitchedEvent announces a new active conversation. It is
// followed by one MessageReplayedEvent per stored message.
type ConversationSwitchedEvent struct {
	BaseEvent
	Title        string `json:"title"`
	MessageCount int    `json:"message_count"`
}

// MessageReplayedEvent carries one stored message during a replay
type MessageReplayedEvent struct {
	BaseEvent
	Role     storage.Role `json:"role"`
	Content  string       `json:"content"`
	Rendered string       `json:"rendered"`
}

// TitleChangedEvent announces a derived conversation title
type TitleChangedEvent struct {
	BaseEvent
	Title string `json:"title"`
}

// UserMessageEvent represents a submitted user message
type UserMessageEvent struct {
	BaseEvent
	Content string `json:"content"`
}

// InputPrefillEvent asks the input surface to prefill text for editing
type InputPrefillEvent struct {
	BaseEvent
	Text string `json:"text"`
}

// AssistantStreamStartEvent marks the start of an assistant reply
type AssistantStreamStartEvent struct {
	BaseEvent
}

// AssistantRenderEvent carries the full rendering of the reply so far.
// Each one replaces the previous one.
type AssistantRenderEvent struct {
	BaseEvent
	Raw      string `json:"raw"`
	Rendered string `json:"rendered"`
}

// AssistantMessageEvent represents a committed assistant message
type AssistantMessageEvent struct {
	BaseEvent
	Content  string `json:"content"`
	Rendered string `json:"rendered"`
	Partial  bool   `json:"partial"`  // committed after a transport error
	Fallback bool   `json:"fallback"` // synthetic error text, nothing was received
}

// LoadingChangedEvent toggles the loading indicator
type LoadingChangedEvent struct {
	BaseEvent
	Loading bool `json:"loading"`
}

// ErrorEvent represents a failure surfaced to the user
type ErrorEvent struct {
	BaseEvent
	Error   error  `json:"error"`
	Context string `json:"context"` // Where the error occurred
}
