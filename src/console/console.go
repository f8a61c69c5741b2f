// Package console prints view model events to a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"

	"github.com/elee1766/streamchat/src/storage"
	"github.com/elee1766/streamchat/src/theme"
	"github.com/elee1766/streamchat/src/viewmodel"
)

var _ viewmodel.Listener = (*Processor)(nil)

// ProcessorConfig configures the console event processor
type ProcessorConfig struct {
	Out        io.Writer
	Styles     theme.Styles
	StreamMode bool // redraw the reply in place on every chunk
	RawMode    bool // print only committed assistant text
	Width      int  // terminal width used to count wrapped lines, 0 if unknown
}

// Processor renders events for the active conversation. Events for other
// conversations are not drawn.
type Processor struct {
	config ProcessorConfig

	mu       sync.Mutex
	activeID string
	drawn    int // lines of in-progress output below the cursor origin
	prefill  string
}

// NewProcessor creates a new console event processor
func NewProcessor(config ProcessorConfig) *Processor {
	return &Processor{config: config}
}

// Process handles a single event
func (p *Processor) Process(event viewmodel.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.RawMode {
		if msg, ok := event.(*viewmodel.AssistantMessageEvent); ok {
			_, err := fmt.Fprintln(p.config.Out, msg.Rendered)
			return err
		}
		return nil
	}

	switch e := event.(type) {
	case *viewmodel.ConversationSwitchedEvent:
		p.activeID = e.ConversationID
		p.drawn = 0
		return p.printf("\n%s\n", p.config.Styles.Title.Render("── "+e.Title+" ──"))

	case *viewmodel.ConversationDeletedEvent:
		return p.printf("%s\n", p.config.Styles.Muted.Render("conversation deleted"))

	case *viewmodel.TitleChangedEvent:
		if e.ConversationID == p.activeID {
			return p.printf("%s\n", p.config.Styles.Muted.Render("title: "+e.Title))
		}

	case *viewmodel.MessageReplayedEvent:
		if e.ConversationID == p.activeID {
			return p.printMessage(e.Role, e.Rendered)
		}

	case *viewmodel.UserMessageEvent:
		// Typed input is already on screen in the REPL; nothing to echo.

	case *viewmodel.LoadingChangedEvent:
		if e.ConversationID != p.activeID || !p.config.StreamMode {
			return nil
		}
		if e.Loading {
			return p.redraw(p.config.Styles.Muted.Render("…"))
		}
		p.clear()

	case *viewmodel.AssistantRenderEvent:
		if e.ConversationID == p.activeID && p.config.StreamMode {
			return p.redraw(p.label(storage.RoleAssistant) + "\n" + e.Rendered)
		}

	case *viewmodel.AssistantMessageEvent:
		if e.ConversationID != p.activeID {
			return nil
		}
		p.clear()
		body := e.Rendered
		if e.Fallback {
			body = p.config.Styles.Error.Render(body)
		}
		return p.printMessage(storage.RoleAssistant, body)

	case *viewmodel.ErrorEvent:
		if e.ConversationID == p.activeID {
			p.clear()
			return p.printf("%s\n", p.config.Styles.Error.Render(fmt.Sprintf("error in %s: %v", e.Context, e.Error)))
		}

	case *viewmodel.InputPrefillEvent:
		p.prefill = e.Text
	}

	return nil
}

// Close cleans up resources
func (p *Processor) Close() error {
	return nil
}

// TakePrefill returns and clears text queued for the next prompt.
func (p *Processor) TakePrefill() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	text := p.prefill
	p.prefill = ""
	return text
}

func (p *Processor) label(role storage.Role) string {
	if role == storage.RoleUser {
		return p.config.Styles.UserLabel.Render("You")
	}
	return p.config.Styles.AssistantLabel.Render("Assistant")
}

func (p *Processor) printMessage(role storage.Role, body string) error {
	return p.printf("%s\n%s\n\n", p.label(role), body)
}

func (p *Processor) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.config.Out, format, args...)
	return err
}

// redraw replaces the in-progress block with text.
func (p *Processor) redraw(text string) error {
	var b strings.Builder
	b.WriteString(p.erase())
	b.WriteString(text)
	b.WriteString("\n")
	p.drawn = countLines(text, p.config.Width)

	_, err := io.WriteString(p.config.Out, b.String())
	return err
}

// clear removes the in-progress block.
func (p *Processor) clear() {
	if seq := p.erase(); seq != "" {
		io.WriteString(p.config.Out, seq)
	}
	p.drawn = 0
}

func (p *Processor) erase() string {
	if p.drawn == 0 {
		return ""
	}
	return "\r" + ansi.CursorUp(p.drawn) + ansi.EraseScreenBelow
}

// countLines counts terminal rows taken by text, including soft wraps.
func countLines(text string, width int) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		w := ansi.StringWidth(line)
		if width <= 0 || w <= width {
			n++
			continue
		}
		n += (w + width - 1) / width
	}
	return n
}
