package sse

import (
	"errors"
	"io"
	"strings"
)

// StreamCallback is called for each event in a stream.
type StreamCallback func(ev Event) error

// StreamToCallback reads a stream until the terminal event and calls the
// callback for each event, including the terminal one. The stream is
// closed on return. Reaching end of input without a terminal event
// returns ErrIncompleteStream.
func StreamToCallback(stream Stream, callback StreamCallback) error {
	defer stream.Close()

	for {
		ev, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrIncompleteStream
			}
			return err
		}

		if err := callback(ev); err != nil {
			return err
		}

		if ev.IsTerminal() {
			return nil
		}
	}
}

// Collected is the aggregate of a whole stream.
type Collected struct {
	ConversationID string
	Content        string
}

// Collect reads a stream to its terminal event and aggregates it. On error
// the partial aggregate is returned alongside the error.
func Collect(stream Stream) (Collected, error) {
	var (
		out     Collected
		content strings.Builder
	)

	err := StreamToCallback(stream, func(ev Event) error {
		switch ev.Kind {
		case KindIDAssigned:
			if out.ConversationID == "" {
				out.ConversationID = ev.ConversationID
			}
		case KindContentChunk:
			content.WriteString(ev.Content)
		}
		return nil
	})

	out.Content = content.String()
	return out, err
}
