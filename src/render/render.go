// Package render converts assistant markdown into display text.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Output formats.
const (
	FormatTerminal = "terminal"
	FormatHTML     = "html"
	FormatPlain    = "plain"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown render format")

// Renderer turns a complete markdown document into display text. Render
// must be a pure function of its input so a partial message can be
// re-rendered in full on every chunk. Implementations are safe for
// concurrent use.
type Renderer interface {
	Render(markdown string) (string, error)
	Format() string
}

// Options configures New.
type Options struct {
	Format   string
	Style    string // glamour style name, "auto" or empty for auto-detection
	WordWrap int
	Logger   *slog.Logger
}

// New builds the renderer for opts.Format. A terminal renderer that cannot
// be initialized falls back to plain text.
func New(opts Options) (Renderer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "renderer")

	switch strings.ToLower(opts.Format) {
	case FormatTerminal, "":
		r, err := NewTerminal(opts.Style, opts.WordWrap)
		if err != nil {
			logger.Warn("terminal renderer unavailable, using plain text", "error", err)
			return Plain{}, nil
		}
		return r, nil
	case FormatHTML:
		return NewHTML(), nil
	case FormatPlain:
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// Plain passes markdown through untouched.
type Plain struct{}

func (Plain) Render(markdown string) (string, error) { return markdown, nil }
func (Plain) Format() string                         { return FormatPlain }
