package viewmodel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/elee1766/streamchat/src/sse"
	"github.com/elee1766/streamchat/src/storage"
)

// Turn is the outcome of one user message.
type Turn struct {
	ConversationID       string
	ServerConversationID string
	Query                string
	Content              string // committed assistant text, empty if none
	Committed            bool
	Err                  error // stream failure, if any
}

// turn is the state of one in-flight reply. It always targets the
// conversation it started in, whatever is active later.
type turn struct {
	vm        *ViewModel
	convID    string
	query     string
	stream    sse.Stream
	closeOnce sync.Once
	content   strings.Builder
	logger    *slog.Logger
	result    Turn
}

// SendUserMessage appends the user message, streams the reply and commits
// it. Blank input returns ErrEmptyInput without side effects. Stream
// failures do not return an error; they are reported in Turn.Err and
// committed according to the error policy.
func (vm *ViewModel) SendUserMessage(ctx context.Context, text string) (*Turn, error) {
	query := strings.TrimSpace(text)
	if query == "" {
		return nil, ErrEmptyInput
	}

	convID := vm.ActiveID()
	if convID == "" {
		return nil, ErrNoActiveConversation
	}

	conv, err := vm.store.GetConversation(ctx, convID)
	if err != nil {
		return nil, wrapStore("load conversation", err)
	}

	msg := &storage.Message{ConversationID: convID, Role: storage.RoleUser, Content: query}
	if err := vm.store.AppendMessage(ctx, msg); err != nil {
		return nil, wrapStore("append user message", err)
	}

	vm.emit(
		&UserMessageEvent{BaseEvent: newBase(EventUserMessage, convID), Content: query},
		&AssistantStreamStartEvent{BaseEvent: newBase(EventAssistantStreamStart, convID)},
		&LoadingChangedEvent{BaseEvent: newBase(EventLoadingChanged, convID), Loading: true},
	)

	t := &turn{
		vm:     vm,
		convID: convID,
		query:  query,
		logger: vm.logger.With("conversation_id", convID),
		result: Turn{
			ConversationID:       convID,
			ServerConversationID: conv.ServerConversationID,
			Query:                query,
		},
	}

	stream, err := vm.opener.OpenStream(ctx, query, conv.ServerConversationID)
	if err != nil {
		t.fail(ctx, err)
		return &t.result, nil
	}
	t.stream = stream
	t.run(ctx)
	return &t.result, nil
}

// RunShortcut sends a shortcut, or asks for it to be prefilled when it
// ends in a space and so expects an argument.
func (vm *ViewModel) RunShortcut(ctx context.Context, shortcut string) (*Turn, error) {
	if strings.TrimSpace(shortcut) == "" {
		return nil, ErrEmptyInput
	}
	if strings.HasSuffix(shortcut, " ") {
		vm.emit(&InputPrefillEvent{BaseEvent: newBase(EventInputPrefill, vm.ActiveID()), Text: shortcut})
		return nil, nil
	}
	return vm.SendUserMessage(ctx, shortcut)
}

func (t *turn) run(ctx context.Context) {
	for {
		ev, err := t.stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = &sse.TransportError{Err: sse.ErrIncompleteStream}
			}
			t.fail(ctx, err)
			return
		}

		switch ev.Kind {
		case sse.KindIDAssigned:
			t.assignID(ctx, ev.ConversationID)
		case sse.KindContentChunk:
			t.content.WriteString(ev.Content)
			raw := t.content.String()
			t.vm.emit(&AssistantRenderEvent{
				BaseEvent: newBase(EventAssistantRender, t.convID),
				Raw:       raw,
				Rendered:  t.vm.render(raw),
			})
		case sse.KindDone:
			t.done(ctx)
			return
		}
	}
}

func (t *turn) assignID(ctx context.Context, serverID string) {
	if t.result.ServerConversationID != "" {
		return
	}
	t.result.ServerConversationID = serverID

	t.vm.mu.Lock()
	defer t.vm.mu.Unlock()

	conv, err := t.vm.store.GetConversation(ctx, t.convID)
	if err != nil {
		t.logger.Warn("cannot store server conversation id", "error", err)
		return
	}
	if conv.ServerConversationID != "" {
		return
	}
	conv.ServerConversationID = serverID
	if err := t.vm.store.UpdateConversation(ctx, conv); err != nil {
		t.logger.Warn("cannot store server conversation id", "error", err)
		return
	}
	t.logger.Debug("server conversation id assigned", "server_conversation_id", serverID)
}

func (t *turn) done(ctx context.Context) {
	t.close()
	ctx = context.WithoutCancel(ctx)

	var events []Event
	if content := t.content.String(); content != "" {
		events = append(events, t.commit(ctx, content, false, false)...)
	} else {
		t.logger.Debug("stream finished without content, nothing committed")
	}
	events = append(events, t.finalizeTitle(ctx)...)
	events = append(events, &LoadingChangedEvent{BaseEvent: newBase(EventLoadingChanged, t.convID), Loading: false})
	t.vm.emit(events...)
}

// fail applies the error policy: partial content is committed as is,
// otherwise the fallback text is committed.
func (t *turn) fail(ctx context.Context, err error) {
	t.close()
	ctx = context.WithoutCancel(ctx)
	t.result.Err = err
	t.logger.Warn("stream failed", "error", err, "received", t.content.Len())

	events := []Event{&ErrorEvent{BaseEvent: newBase(EventError, t.convID), Error: err, Context: "stream"}}
	if content := t.content.String(); content != "" {
		events = append(events, t.commit(ctx, content, true, false)...)
	} else {
		events = append(events, t.commit(ctx, t.vm.config.FallbackText, false, true)...)
	}
	events = append(events, &LoadingChangedEvent{BaseEvent: newBase(EventLoadingChanged, t.convID), Loading: false})
	t.vm.emit(events...)
}

func (t *turn) commit(ctx context.Context, content string, partial, fallback bool) []Event {
	msg := &storage.Message{ConversationID: t.convID, Role: storage.RoleAssistant, Content: content}
	if err := t.vm.store.AppendMessage(ctx, msg); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			t.logger.Info("conversation deleted mid-stream, dropping reply")
		} else {
			t.logger.Error("failed to commit assistant message", "error", err)
		}
		return nil
	}

	t.result.Content = content
	t.result.Committed = true

	rendered := content
	if !fallback {
		rendered = t.vm.render(content)
	}
	return []Event{&AssistantMessageEvent{
		BaseEvent: newBase(EventAssistantMessage, t.convID),
		Content:   content,
		Rendered:  rendered,
		Partial:   partial,
		Fallback:  fallback,
	}}
}

// finalizeTitle derives the title from the first completed exchange.
func (t *turn) finalizeTitle(ctx context.Context) []Event {
	t.vm.mu.Lock()
	defer t.vm.mu.Unlock()

	conv, err := t.vm.store.GetConversation(ctx, t.convID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			t.logger.Error("failed to load conversation for title", "error", err)
		}
		return nil
	}
	if conv.TitleFinalized {
		return nil
	}

	conv.Title = DeriveTitle(t.query, t.vm.config.TitleLength)
	conv.TitleFinalized = true
	if err := t.vm.store.UpdateConversation(ctx, conv); err != nil {
		t.logger.Error("failed to store title", "error", err)
		return nil
	}
	return []Event{&TitleChangedEvent{BaseEvent: newBase(EventTitleChanged, t.convID), Title: conv.Title}}
}

func (t *turn) close() {
	if t.stream == nil {
		return
	}
	t.closeOnce.Do(func() {
		if err := t.stream.Close(); err != nil {
			t.logger.Debug("error closing stream", "error", err)
		}
	})
}
