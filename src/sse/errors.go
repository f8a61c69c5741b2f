package sse

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamClosed is returned by Read after Close.
	ErrStreamClosed = errors.New("stream closed")

	// ErrFrameTooLarge indicates a single frame exceeded the configured limit.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")

	// ErrIncompleteStream indicates the input ended before the terminal event.
	ErrIncompleteStream = errors.New("stream ended before terminal event")
)

// ParseError describes a frame that could not be classified.
type ParseError struct {
	Frame string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed frame %q: %v", e.Frame, e.Err)
	}
	return fmt.Sprintf("malformed frame %q: no recognized field", e.Frame)
}

// Unwrap returns the underlying JSON error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// TransportError wraps a stream-level failure.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("stream transport error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is, or wraps, a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
