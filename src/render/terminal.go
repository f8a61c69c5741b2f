package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWordWrap is used when no wrap width is configured.
const DefaultWordWrap = 80

// Terminal renders markdown with ANSI styling. Render calls are
// serialized; the glamour renderer keeps per-render state.
type Terminal struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

// NewTerminal creates a glamour-backed renderer. style is a glamour
// standard style name ("dark", "light", "notty", ...) or "auto".
func NewTerminal(style string, wordWrap int) (*Terminal, error) {
	if wordWrap <= 0 {
		wordWrap = DefaultWordWrap
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	return &Terminal{renderer: r}, nil
}

func (t *Terminal) Render(markdown string) (string, error) {
	t.mu.Lock()
	out, err := t.renderer.Render(markdown)
	t.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func (t *Terminal) Format() string { return FormatTerminal }
