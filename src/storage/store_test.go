package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drivers(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{}
	for _, driver := range []string{DriverMemory, DriverSQLite} {
		s, err := New(driver)
		require.NoError(t, err, driver)
		t.Cleanup(func() { s.Close() })
		stores[driver] = s
	}
	return stores
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New("postgres")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestConversationLifecycle(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			first := &Conversation{Title: "New Chat"}
			require.NoError(t, s.CreateConversation(ctx, first))
			assert.NotEmpty(t, first.ID)
			assert.False(t, first.CreatedAt.IsZero())

			second := &Conversation{Title: "Other"}
			require.NoError(t, s.CreateConversation(ctx, second))

			got, err := s.GetConversation(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "New Chat", got.Title)
			assert.Empty(t, got.ServerConversationID)
			assert.False(t, got.TitleFinalized)

			got.Title = "hello"
			got.ServerConversationID = "srv-1"
			got.TitleFinalized = true
			require.NoError(t, s.UpdateConversation(ctx, got))

			got, err = s.GetConversation(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, "hello", got.Title)
			assert.Equal(t, "srv-1", got.ServerConversationID)
			assert.True(t, got.TitleFinalized)

			list, err := s.ListConversations(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, first.ID, list[0].ID)
			assert.Equal(t, second.ID, list[1].ID)

			require.NoError(t, s.DeleteConversation(ctx, first.ID))
			_, err = s.GetConversation(ctx, first.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			list, err = s.ListConversations(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, second.ID, list[0].ID)
		})
	}
}

func TestMessages(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			conv := &Conversation{Title: "New Chat"}
			require.NoError(t, s.CreateConversation(ctx, conv))

			msgs, err := s.ListMessages(ctx, conv.ID)
			require.NoError(t, err)
			assert.Empty(t, msgs)

			for i, m := range []Message{
				{Role: RoleUser, Content: "hi"},
				{Role: RoleAssistant, Content: "**hello**"},
				{Role: RoleUser, Content: "again"},
			} {
				m.ConversationID = conv.ID
				require.NoError(t, s.AppendMessage(ctx, &m), i)
				assert.NotEmpty(t, m.ID)
			}

			msgs, err = s.ListMessages(ctx, conv.ID)
			require.NoError(t, err)
			require.Len(t, msgs, 3)
			assert.Equal(t, []string{"hi", "**hello**", "again"}, []string{msgs[0].Content, msgs[1].Content, msgs[2].Content})
			assert.Equal(t, RoleAssistant, msgs[1].Role)

			require.NoError(t, s.DeleteConversation(ctx, conv.ID))
			_, err = s.ListMessages(ctx, conv.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMissingConversation(t *testing.T) {
	ctx := context.Background()

	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.UpdateConversation(ctx, &Conversation{ID: "nope"}), ErrNotFound)
			assert.ErrorIs(t, s.DeleteConversation(ctx, "nope"), ErrNotFound)
			assert.ErrorIs(t, s.AppendMessage(ctx, &Message{ConversationID: "nope", Role: RoleUser, Content: "x"}), ErrNotFound)
		})
	}
}

func TestSQLiteCascadesMessages(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	conv := &Conversation{Title: "t"}
	require.NoError(t, db.CreateConversation(ctx, conv))
	require.NoError(t, db.AppendMessage(ctx, &Message{ConversationID: conv.ID, Role: RoleUser, Content: "x"}))
	require.NoError(t, db.DeleteConversation(ctx, conv.ID))

	var n int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM messages").Scan(&n))
	assert.Zero(t, n)
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.runMigrations())

	var n int
	require.NoError(t, db.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestExtractUpMigration(t *testing.T) {
	up := extractUpMigration(initialSchema)
	assert.Contains(t, up, "CREATE TABLE conversations")
	assert.NotContains(t, up, "DROP TABLE")
	assert.NotContains(t, up, "+goose")
}
