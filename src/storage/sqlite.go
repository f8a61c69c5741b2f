package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"slices"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/001_initial_schema.sql
var initialSchema string

var _ Store = (*DB)(nil)

// DB is a sqlite-backed Store.
type DB struct {
	path string
	db   *sql.DB
}

// Open opens the sqlite database at path and applies migrations. ":memory:"
// gives a private database that lives as long as the DB.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A second pooled connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &DB{path: path, db: db}

	if err := store.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func (d *DB) DB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) CreateConversation(ctx context.Context, c *Conversation) error {
	return CreateConversation(ctx, d.db, c)
}

func (d *DB) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	return GetConversationByID(ctx, d.db, id)
}

func (d *DB) ListConversations(ctx context.Context) ([]Conversation, error) {
	return ListConversations(ctx, d.db)
}

func (d *DB) UpdateConversation(ctx context.Context, c *Conversation) error {
	return UpdateConversation(ctx, d.db, c)
}

func (d *DB) DeleteConversation(ctx context.Context, id string) error {
	return DeleteConversation(ctx, d.db, id)
}

func (d *DB) AppendMessage(ctx context.Context, m *Message) error {
	if _, err := GetConversationByID(ctx, d.db, m.ConversationID); err != nil {
		return err
	}
	return CreateMessage(ctx, d.db, m)
}

func (d *DB) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	if _, err := GetConversationByID(ctx, d.db, conversationID); err != nil {
		return nil, err
	}
	return GetMessagesByConversationID(ctx, d.db, conversationID)
}

// runMigrations runs database migrations
func (d *DB) runMigrations() error {
	createMigrationsTable := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := d.db.Exec(createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var appliedVersions []int
	rows, err := d.db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		appliedVersions = append(appliedVersions, version)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, extractUpMigration(initialSchema)},
	}

	for _, migration := range migrations {
		if slices.Contains(appliedVersions, migration.version) {
			continue
		}

		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.version, err)
		}
	}

	return nil
}

// extractUpMigration extracts the UP migration from goose format
func extractUpMigration(content string) string {
	var up []string
	inUp := false
	inStatement := false

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.Contains(line, "-- +goose Up"):
			inUp = true
		case strings.Contains(line, "-- +goose Down"):
			return strings.Join(up, "\n")
		case strings.Contains(line, "-- +goose StatementBegin"):
			inStatement = true
		case strings.Contains(line, "-- +goose StatementEnd"):
			inStatement = false
		case inUp && inStatement:
			up = append(up, line)
		}
	}

	return strings.Join(up, "\n")
}
