// Package viewmodel holds chat conversations and turns streamed replies
// into listener events.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/elee1766/streamchat/src/render"
	"github.com/elee1766/streamchat/src/sse"
	"github.com/elee1766/streamchat/src/storage"
)

// StreamOpener starts a reply stream for a query. convoID is the server
// conversation id, empty for a conversation the server has not seen.
type StreamOpener interface {
	OpenStream(ctx context.Context, query, convoID string) (sse.Stream, error)
}

// Config configures a ViewModel
type Config struct {
	Store        storage.Store
	Opener       StreamOpener
	Renderer     render.Renderer // plain text when nil
	Listeners    []Listener
	Logger       *slog.Logger
	DefaultTitle string
	TitleLength  int
	FallbackText string
	Shortcuts    []string
}

// ViewModel owns the conversation list and the active selection. Methods
// are safe for concurrent use; listeners are never called with the lock
// held.
type ViewModel struct {
	config   Config
	store    storage.Store
	opener   StreamOpener
	renderer render.Renderer
	logger   *slog.Logger

	mu        sync.Mutex
	listeners []Listener
	activeID  string
}

// New creates a view model with one fresh active conversation.
func New(ctx context.Context, config Config) (*ViewModel, error) {
	if config.Store == nil {
		return nil, ErrNoStore
	}
	if config.Opener == nil {
		return nil, ErrNoOpener
	}
	if config.DefaultTitle == "" {
		config.DefaultTitle = DefaultTitle
	}
	if config.TitleLength <= 0 {
		config.TitleLength = DefaultTitleLength
	}
	if config.FallbackText == "" {
		config.FallbackText = DefaultFallbackText
	}

	renderer := config.Renderer
	if renderer == nil {
		renderer = render.Plain{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	vm := &ViewModel{
		config:    config,
		store:     config.Store,
		opener:    config.Opener,
		renderer:  renderer,
		logger:    logger.With("component", "view_model"),
		listeners: append([]Listener(nil), config.Listeners...),
	}

	if _, err := vm.CreateConversation(ctx); err != nil {
		return nil, err
	}
	return vm, nil
}

// AddListener registers a listener for subsequent events.
func (vm *ViewModel) AddListener(l Listener) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.listeners = append(vm.listeners, l)
}

// Close closes all listeners.
func (vm *ViewModel) Close() error {
	vm.mu.Lock()
	listeners := vm.listeners
	vm.listeners = nil
	vm.mu.Unlock()

	var errs []error
	for _, l := range listeners {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shortcuts returns the configured input shortcuts.
func (vm *ViewModel) Shortcuts() []string {
	return append([]string(nil), vm.config.Shortcuts...)
}

// ActiveID returns the local id of the active conversation.
func (vm *ViewModel) ActiveID() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.activeID
}

// Active returns the active conversation.
func (vm *ViewModel) Active(ctx context.Context) (*storage.Conversation, error) {
	id := vm.ActiveID()
	if id == "" {
		return nil, ErrNoActiveConversation
	}
	return vm.store.GetConversation(ctx, id)
}

// Conversation returns a conversation by local id.
func (vm *ViewModel) Conversation(ctx context.Context, id string) (*storage.Conversation, error) {
	return vm.store.GetConversation(ctx, id)
}

// Conversations returns all conversations, oldest first.
func (vm *ViewModel) Conversations(ctx context.Context) ([]storage.Conversation, error) {
	return vm.store.ListConversations(ctx)
}

// Messages returns the committed messages of a conversation.
func (vm *ViewModel) Messages(ctx context.Context, id string) ([]storage.Message, error) {
	return vm.store.ListMessages(ctx, id)
}

func (vm *ViewModel) emit(events ...Event) {
	vm.mu.Lock()
	listeners := append([]Listener(nil), vm.listeners...)
	vm.mu.Unlock()

	notify(vm.logger, listeners, events...)
}

// render renders markdown, falling back to the raw text on failure.
func (vm *ViewModel) render(markdown string) string {
	out, err := vm.renderer.Render(markdown)
	if err != nil {
		vm.logger.Debug("render failed, using raw text", "error", err)
		return markdown
	}
	return out
}

func (vm *ViewModel) renderMessage(m storage.Message) string {
	if m.Role == storage.RoleUser {
		return m.Content
	}
	return vm.render(m.Content)
}

func wrapStore(op string, err error) error {
	return fmt.Errorf("failed to %s: %w", op, err)
}
