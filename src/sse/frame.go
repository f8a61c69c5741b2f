package sse

import (
	"bytes"
	"encoding/json"
)

// ParseFrame classifies a single frame.
//
// The data prefix is stripped when present. A conversation id wins over
// content, and the done sentinel wins over ordinary content. Anything else,
// including invalid JSON, yields a KindMalformed event carrying a *ParseError.
func ParseFrame(frame []byte) Event {
	data := bytes.TrimSpace(frame)
	data = bytes.TrimPrefix(data, []byte(DataPrefix))
	data = bytes.TrimSpace(data)

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Event{Kind: KindMalformed, Err: &ParseError{Frame: string(frame), Err: err}}
	}

	switch {
	case p.ConversationID != "":
		return IDAssigned(p.ConversationID)
	case p.Content == DoneSentinel:
		return Done()
	case p.Content != "":
		return ContentChunk(p.Content)
	}

	return Event{Kind: KindMalformed, Err: &ParseError{Frame: string(frame)}}
}

// isSeparator reports whether a line is an SSE separator or comment rather
// than a frame.
func isSeparator(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	return len(trimmed) == 0 || trimmed[0] == ':'
}
