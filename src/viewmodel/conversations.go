package viewmodel

import (
	"context"
	"errors"

	"github.com/elee1766/streamchat/src/storage"
)

// CreateConversation adds an empty conversation and makes it active.
func (vm *ViewModel) CreateConversation(ctx context.Context) (*storage.Conversation, error) {
	vm.mu.Lock()
	conv, err := vm.createLocked(ctx)
	vm.mu.Unlock()
	if err != nil {
		return nil, err
	}

	vm.emit(
		&ConversationCreatedEvent{BaseEvent: newBase(EventConversationCreated, conv.ID), Title: conv.Title},
		&ConversationSwitchedEvent{BaseEvent: newBase(EventConversationSwitched, conv.ID), Title: conv.Title},
	)
	return conv, nil
}

func (vm *ViewModel) createLocked(ctx context.Context) (*storage.Conversation, error) {
	conv := &storage.Conversation{Title: vm.config.DefaultTitle}
	if err := vm.store.CreateConversation(ctx, conv); err != nil {
		return nil, wrapStore("create conversation", err)
	}
	vm.activeID = conv.ID
	vm.logger.Debug("created conversation", "conversation_id", conv.ID)
	return conv, nil
}

// SwitchActive makes a conversation active and replays its messages.
// Unknown ids are ignored.
func (vm *ViewModel) SwitchActive(ctx context.Context, id string) error {
	vm.mu.Lock()
	if _, err := vm.store.GetConversation(ctx, id); err != nil {
		vm.mu.Unlock()
		if errors.Is(err, storage.ErrNotFound) {
			vm.logger.Debug("ignoring switch to unknown conversation", "conversation_id", id)
			return nil
		}
		return wrapStore("load conversation", err)
	}
	vm.activeID = id
	vm.mu.Unlock()

	return vm.replay(ctx, id)
}

// ReplayActive re-emits the active conversation and its messages.
func (vm *ViewModel) ReplayActive(ctx context.Context) error {
	id := vm.ActiveID()
	if id == "" {
		return ErrNoActiveConversation
	}
	return vm.replay(ctx, id)
}

func (vm *ViewModel) replay(ctx context.Context, id string) error {
	conv, err := vm.store.GetConversation(ctx, id)
	if err != nil {
		return wrapStore("load conversation", err)
	}
	msgs, err := vm.store.ListMessages(ctx, id)
	if err != nil {
		return wrapStore("load messages", err)
	}

	events := make([]Event, 0, len(msgs)+1)
	events = append(events, &ConversationSwitchedEvent{
		BaseEvent:    newBase(EventConversationSwitched, id),
		Title:        conv.Title,
		MessageCount: len(msgs),
	})
	for _, m := range msgs {
		events = append(events, &MessageReplayedEvent{
			BaseEvent: newBase(EventMessageReplayed, id),
			Role:      m.Role,
			Content:   m.Content,
			Rendered:  vm.renderMessage(m),
		})
	}
	vm.emit(events...)
	return nil
}

// DeleteConversation removes a conversation. When the active conversation
// is removed the oldest remaining one becomes active, or a fresh one is
// created if none remain. Unknown ids are ignored.
func (vm *ViewModel) DeleteConversation(ctx context.Context, id string) error {
	vm.mu.Lock()
	if err := vm.store.DeleteConversation(ctx, id); err != nil {
		vm.mu.Unlock()
		if errors.Is(err, storage.ErrNotFound) {
			vm.logger.Debug("ignoring delete of unknown conversation", "conversation_id", id)
			return nil
		}
		return wrapStore("delete conversation", err)
	}
	vm.logger.Debug("deleted conversation", "conversation_id", id)

	if vm.activeID != id {
		vm.mu.Unlock()
		vm.emit(&ConversationDeletedEvent{BaseEvent: newBase(EventConversationDeleted, id)})
		return nil
	}

	remaining, err := vm.store.ListConversations(ctx)
	if err != nil {
		vm.activeID = ""
		vm.mu.Unlock()
		return wrapStore("list conversations", err)
	}

	if len(remaining) > 0 {
		next := remaining[0].ID
		vm.activeID = next
		vm.mu.Unlock()

		vm.emit(&ConversationDeletedEvent{BaseEvent: newBase(EventConversationDeleted, id)})
		return vm.replay(ctx, next)
	}

	conv, err := vm.createLocked(ctx)
	if err != nil {
		vm.activeID = ""
		vm.mu.Unlock()
		return err
	}
	vm.mu.Unlock()

	vm.emit(
		&ConversationDeletedEvent{BaseEvent: newBase(EventConversationDeleted, id)},
		&ConversationCreatedEvent{BaseEvent: newBase(EventConversationCreated, conv.ID), Title: conv.Title},
		&ConversationSwitchedEvent{BaseEvent: newBase(EventConversationSwitched, conv.ID), Title: conv.Title},
	)
	return nil
}

// ResumeServerConversation links the active conversation to an existing
// server conversation, so the next message continues it. It fails once the
// server has already assigned an id.
func (vm *ViewModel) ResumeServerConversation(ctx context.Context, serverID string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.activeID == "" {
		return ErrNoActiveConversation
	}
	conv, err := vm.store.GetConversation(ctx, vm.activeID)
	if err != nil {
		return wrapStore("load conversation", err)
	}
	if conv.ServerConversationID != "" && conv.ServerConversationID != serverID {
		return ErrServerIDAssigned
	}
	conv.ServerConversationID = serverID
	if err := vm.store.UpdateConversation(ctx, conv); err != nil {
		return wrapStore("update conversation", err)
	}
	return nil
}
