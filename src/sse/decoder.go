package sse

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

var _ Stream = (*Decoder)(nil)

// MessageSource delivers pre-delimited messages, one frame per message.
type MessageSource interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	Close() error
}

// DecoderConfig configures a Decoder.
type DecoderConfig struct {
	Logger       *slog.Logger
	MaxFrameSize int // reader decoders only
}

// Decoder turns frames into events. Malformed frames are logged and skipped.
type Decoder struct {
	next   func() ([]byte, error)
	closer io.Closer
	logger *slog.Logger

	finished  bool
	err       error
	dropped   int
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewReaderDecoder decodes frames from an arbitrarily chunked byte stream.
// A frame is only parsed once its line terminator has been read; a trailing
// unterminated line at end of input is discarded. If r implements io.Closer
// it is closed by Close.
func NewReaderDecoder(r io.Reader, cfg DecoderConfig) *Decoder {
	d := newDecoder(cfg)

	maxSize := cfg.MaxFrameSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFrameSize
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(4096, maxSize)), maxSize)
	scanner.Split(d.splitFrames)

	d.next = func() ([]byte, error) {
		if scanner.Scan() {
			return scanner.Bytes(), nil
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				return nil, ErrFrameTooLarge
			}
			return nil, err
		}
		return nil, io.EOF
	}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	return d
}

// NewMessageDecoder decodes frames delivered as discrete messages.
func NewMessageDecoder(ctx context.Context, src MessageSource, cfg DecoderConfig) *Decoder {
	d := newDecoder(cfg)
	d.next = func() ([]byte, error) {
		return src.ReadMessage(ctx)
	}
	d.closer = src
	return d
}

func newDecoder(cfg DecoderConfig) *Decoder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{
		logger: logger.With("component", "sse_decoder"),
	}
}

// splitFrames is a bufio.SplitFunc yielding only terminated lines.
func (d *Decoder) splitFrames(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[:i], []byte{'\r'}), nil
	}
	if atEOF && len(data) > 0 {
		d.logger.Debug("discarding unterminated frame at end of input", "bytes", len(data))
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// Read returns the next recognized event.
func (d *Decoder) Read() (Event, error) {
	for {
		if d.closed.Load() {
			return Event{}, ErrStreamClosed
		}
		if d.finished {
			if d.err != nil {
				return Event{}, d.err
			}
			return Event{}, io.EOF
		}

		frame, err := d.next()
		if err != nil {
			d.finished = true
			if d.closed.Load() {
				return Event{}, ErrStreamClosed
			}
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			d.err = &TransportError{Err: err}
			return Event{}, d.err
		}

		if isSeparator(frame) {
			continue
		}

		ev := ParseFrame(frame)
		if ev.Kind == KindMalformed {
			d.dropped++
			d.logger.Debug("dropping malformed frame", "error", ev.Err)
			continue
		}
		return ev, nil
	}
}

// Dropped returns the number of malformed frames skipped so far.
func (d *Decoder) Dropped() int {
	return d.dropped
}

// Close closes the underlying source exactly once.
func (d *Decoder) Close() error {
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		if d.closer != nil {
			d.closeErr = d.closer.Close()
		}
	})
	return d.closeErr
}
