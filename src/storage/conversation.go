package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

const conversationColumns = `seq, id, title, server_conversation_id, title_finalized, created_at, updated_at`

// GetConversationByID retrieves a conversation by its ID
func GetConversationByID(ctx context.Context, db sqlscan.Querier, conversationID string) (*Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations WHERE id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations retrieves all conversations, oldest first
func ListConversations(ctx context.Context, db sqlscan.Querier) ([]Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM conversations ORDER BY seq`
	convs := []Conversation{}
	if err := sqlscan.Select(ctx, db, &convs, query); err != nil {
		return nil, err
	}
	return convs, nil
}

// CreateConversation creates a new conversation in the database
func CreateConversation(ctx context.Context, db Execer, conversation *Conversation) error {
	prepareConversation(conversation)

	query := `INSERT INTO conversations (id, title, server_conversation_id, title_finalized, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query,
		conversation.ID,
		conversation.Title,
		conversation.ServerConversationID,
		conversation.TitleFinalized,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if seq, err := res.LastInsertId(); err == nil {
		conversation.Seq = seq
	}
	return nil
}

// UpdateConversation updates the mutable fields of a conversation
func UpdateConversation(ctx context.Context, db Execer, conversation *Conversation) error {
	conversation.UpdatedAt = time.Now()

	query := `UPDATE conversations SET title = ?, server_conversation_id = ?, title_finalized = ?, updated_at = ? WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		conversation.Title,
		conversation.ServerConversationID,
		conversation.TitleFinalized,
		conversation.UpdatedAt,
		conversation.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteConversation deletes a conversation and, by cascade, its messages
func DeleteConversation(ctx context.Context, db Execer, conversationID string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, conversationID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// GetMessagesByConversationID retrieves all messages for a conversation in insertion order
func GetMessagesByConversationID(ctx context.Context, db sqlscan.Querier, conversationID string) ([]Message, error) {
	query := `SELECT seq, id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY seq`
	messages := []Message{}
	if err := sqlscan.Select(ctx, db, &messages, query, conversationID); err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage creates a new message in the database
func CreateMessage(ctx context.Context, db Execer, message *Message) error {
	prepareMessage(message)

	query := `INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, query, message.ID, message.ConversationID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return err
	}
	if seq, err := res.LastInsertId(); err == nil {
		message.Seq = seq
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
