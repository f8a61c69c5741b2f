// Package sse decodes chat stream frames into typed events.
//
// A frame is one line of server-pushed data of the form `data: <json>`.
// The JSON payload carries an optional conversation_id and an optional
// content field; content equal to "[DONE]" terminates the stream.
package sse

import "fmt"

const (
	// DataPrefix is the optional marker in front of every frame payload.
	DataPrefix = "data:"

	// DoneSentinel is the content value signalling the terminal event.
	DoneSentinel = "[DONE]"

	// DefaultMaxFrameSize is the largest single frame a reader decoder accepts.
	DefaultMaxFrameSize = 64 * 1024
)

// Kind identifies the variant of an Event.
type Kind int

const (
	KindMalformed Kind = iota
	KindIDAssigned
	KindContentChunk
	KindDone
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindIDAssigned:
		return "id_assigned"
	case KindContentChunk:
		return "content_chunk"
	case KindDone:
		return "done"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one decoded frame.
type Event struct {
	Kind Kind

	// ConversationID is set for KindIDAssigned.
	ConversationID string

	// Content is set for KindContentChunk.
	Content string

	// Err is set for KindMalformed and is always a *ParseError.
	Err error
}

// IDAssigned builds a KindIDAssigned event.
func IDAssigned(id string) Event {
	return Event{Kind: KindIDAssigned, ConversationID: id}
}

// ContentChunk builds a KindContentChunk event.
func ContentChunk(text string) Event {
	return Event{Kind: KindContentChunk, Content: text}
}

// Done builds the terminal event.
func Done() Event {
	return Event{Kind: KindDone}
}

// IsTerminal reports whether no further content follows this event.
func (e Event) IsTerminal() bool {
	return e.Kind == KindDone
}

// payload is the JSON object carried by a frame.
type payload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// Stream is a lazy, finite, non-restartable sequence of events.
type Stream interface {
	// Read returns the next event. It returns io.EOF once the input is
	// exhausted and ErrStreamClosed after Close.
	Read() (Event, error)

	// Close releases the underlying transport. It is safe to call more
	// than once.
	Close() error
}
