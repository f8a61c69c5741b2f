package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elee1766/streamchat/src/storage"
	"github.com/elee1766/streamchat/src/theme"
	"github.com/elee1766/streamchat/src/viewmodel"
)

func base(t viewmodel.EventType, id string) viewmodel.BaseEvent {
	return viewmodel.BaseEvent{Type: t, ConversationID: id}
}

func feed(t *testing.T, p *Processor, events ...viewmodel.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, p.Process(ev))
	}
}

func TestStreamModeRedrawsInPlace(t *testing.T) {
	var out bytes.Buffer
	p := NewProcessor(ProcessorConfig{Out: &out, Styles: theme.NewStyles(theme.Dark), StreamMode: true})

	feed(t, p,
		&viewmodel.ConversationSwitchedEvent{BaseEvent: base(viewmodel.EventConversationSwitched, "c1"), Title: "New Chat"},
		&viewmodel.LoadingChangedEvent{BaseEvent: base(viewmodel.EventLoadingChanged, "c1"), Loading: true},
		&viewmodel.AssistantRenderEvent{BaseEvent: base(viewmodel.EventAssistantRender, "c1"), Raw: "Hel", Rendered: "Hel"},
		&viewmodel.AssistantRenderEvent{BaseEvent: base(viewmodel.EventAssistantRender, "c1"), Raw: "Hello", Rendered: "Hello"},
		&viewmodel.AssistantMessageEvent{BaseEvent: base(viewmodel.EventAssistantMessage, "c1"), Content: "Hello", Rendered: "Hello"},
	)

	s := out.String()
	assert.Contains(t, s, "New Chat")
	assert.Contains(t, s, ansi.CursorUp(1)+ansi.EraseScreenBelow)
	assert.Contains(t, s, ansi.CursorUp(2)+ansi.EraseScreenBelow)
	assert.True(t, strings.HasSuffix(s, "Assistant\nHello\n\n"))
	assert.Zero(t, p.drawn)
}

func TestOtherConversationNotDrawn(t *testing.T) {
	var out bytes.Buffer
	p := NewProcessor(ProcessorConfig{Out: &out, Styles: theme.NewStyles(theme.Dark), StreamMode: true})

	feed(t, p, &viewmodel.ConversationSwitchedEvent{BaseEvent: base(viewmodel.EventConversationSwitched, "c2"), Title: "Other"})
	before := out.Len()

	feed(t, p,
		&viewmodel.AssistantRenderEvent{BaseEvent: base(viewmodel.EventAssistantRender, "c1"), Rendered: "background"},
		&viewmodel.AssistantMessageEvent{BaseEvent: base(viewmodel.EventAssistantMessage, "c1"), Rendered: "background"},
		&viewmodel.TitleChangedEvent{BaseEvent: base(viewmodel.EventTitleChanged, "c1"), Title: "bg"},
	)
	assert.Equal(t, before, out.Len())
}

func TestReplayPrintsMessages(t *testing.T) {
	var out bytes.Buffer
	p := NewProcessor(ProcessorConfig{Out: &out, Styles: theme.NewStyles(theme.Dark)})

	feed(t, p,
		&viewmodel.ConversationSwitchedEvent{BaseEvent: base(viewmodel.EventConversationSwitched, "c1"), Title: "hello", MessageCount: 2},
		&viewmodel.MessageReplayedEvent{BaseEvent: base(viewmodel.EventMessageReplayed, "c1"), Role: storage.RoleUser, Rendered: "hello"},
		&viewmodel.MessageReplayedEvent{BaseEvent: base(viewmodel.EventMessageReplayed, "c1"), Role: storage.RoleAssistant, Rendered: "Hi there"},
	)

	s := out.String()
	assert.Contains(t, s, "You\nhello\n")
	assert.Contains(t, s, "Assistant\nHi there\n")
}

func TestRawMode(t *testing.T) {
	var out bytes.Buffer
	p := NewProcessor(ProcessorConfig{Out: &out, RawMode: true})

	feed(t, p,
		&viewmodel.ConversationSwitchedEvent{BaseEvent: base(viewmodel.EventConversationSwitched, "c1"), Title: "x"},
		&viewmodel.AssistantRenderEvent{BaseEvent: base(viewmodel.EventAssistantRender, "c1"), Rendered: "partial"},
		&viewmodel.ErrorEvent{BaseEvent: base(viewmodel.EventError, "c1"), Error: errors.New("boom"), Context: "stream"},
		&viewmodel.AssistantMessageEvent{BaseEvent: base(viewmodel.EventAssistantMessage, "c1"), Rendered: "<p>done</p>"},
	)
	assert.Equal(t, "<p>done</p>\n", out.String())
}

func TestPrefill(t *testing.T) {
	p := NewProcessor(ProcessorConfig{Out: &bytes.Buffer{}})
	feed(t, p, &viewmodel.InputPrefillEvent{BaseEvent: base(viewmodel.EventInputPrefill, "c1"), Text: "Tell me about "})

	assert.Equal(t, "Tell me about ", p.TakePrefill())
	assert.Empty(t, p.TakePrefill())
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 1, countLines("abc", 0))
	assert.Equal(t, 3, countLines("a\nb\nc", 80))
	assert.Equal(t, 3, countLines(strings.Repeat("x", 25), 10))
	assert.Equal(t, 2, countLines("\x1b[1mbold\x1b[0m\nplain", 10))
}

func TestLoadingOffClearsPlaceholder(t *testing.T) {
	var out bytes.Buffer
	p := NewProcessor(ProcessorConfig{Out: &out, Styles: theme.NewStyles(theme.Dark), StreamMode: true})

	feed(t, p,
		&viewmodel.ConversationSwitchedEvent{BaseEvent: base(viewmodel.EventConversationSwitched, "c1"), Title: "New Chat"},
		&viewmodel.LoadingChangedEvent{BaseEvent: base(viewmodel.EventLoadingChanged, "c1"), Loading: true},
	)
	assert.Equal(t, 1, p.drawn)

	// Done without content: no assistant message follows.
	feed(t, p, &viewmodel.LoadingChangedEvent{BaseEvent: base(viewmodel.EventLoadingChanged, "c1"), Loading: false})
	assert.Zero(t, p.drawn)
	assert.True(t, strings.HasSuffix(out.String(), "\r"+ansi.CursorUp(1)+ansi.EraseScreenBelow))

	out.Reset()
	feed(t, p,
		&viewmodel.LoadingChangedEvent{BaseEvent: base(viewmodel.EventLoadingChanged, "c1"), Loading: true},
	)
	assert.NotContains(t, out.String(), ansi.CursorUp(1))
}
