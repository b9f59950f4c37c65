package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
)

func TestCreateConversation_DefaultsTitle(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerUser(t, "alice@example.com")

	conversation, err := env.conversations.CreateConversation(context.Background(), user.ID,
		&models.CreateConversationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "New conversation", conversation.Title)
}

func TestAppendMessage_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice@example.com")

	conversation, err := env.conversations.CreateConversation(ctx, user.ID,
		&models.CreateConversationRequest{Title: "Planning"})
	require.NoError(t, err)

	_, err = env.conversations.AppendMessage(ctx, user.ID, conversation.ID,
		&models.AppendMessageRequest{Role: models.RoleUser, Content: "What's due today?"})
	require.NoError(t, err)
	_, err = env.conversations.AppendMessage(ctx, user.ID, conversation.ID,
		&models.AppendMessageRequest{Role: models.RoleAssistant, Content: "Two tasks."})
	require.NoError(t, err)

	loaded, err := env.conversations.GetConversation(ctx, user.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, models.RoleUser, loaded.Messages[0].Role)
	assert.Equal(t, "What's due today?", loaded.Messages[0].Content)
	assert.Equal(t, models.RoleAssistant, loaded.Messages[1].Role)
}

func TestAppendMessage_RejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice@example.com")

	conversation, err := env.conversations.CreateConversation(ctx, user.ID,
		&models.CreateConversationRequest{Title: "Chat"})
	require.NoError(t, err)

	_, err = env.conversations.AppendMessage(ctx, user.ID, conversation.ID,
		&models.AppendMessageRequest{Role: "system", Content: "hi"})
	verr, ok := apperrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "role", verr.Field)
}

func TestAppendMessage_ForeignConversationIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	bobsConversation, err := env.conversations.CreateConversation(ctx, bob.ID,
		&models.CreateConversationRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = env.conversations.AppendMessage(ctx, alice.ID, bobsConversation.ID,
		&models.AppendMessageRequest{Role: models.RoleUser, Content: "sneaky"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListMessages_OwnershipChecked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "alice@example.com")
	bob := env.registerUser(t, "bob@example.com")

	conversation, err := env.conversations.CreateConversation(ctx, alice.ID,
		&models.CreateConversationRequest{Title: "Notes"})
	require.NoError(t, err)
	_, err = env.conversations.AppendMessage(ctx, alice.ID, conversation.ID,
		&models.AppendMessageRequest{Role: models.RoleUser, Content: "remember this"})
	require.NoError(t, err)

	messages, err := env.conversations.ListMessages(ctx, alice.ID, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "remember this", messages[0].Content)

	_, err = env.conversations.ListMessages(ctx, bob.ID, conversation.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteConversation_RemovesMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice@example.com")

	conversation, err := env.conversations.CreateConversation(ctx, user.ID,
		&models.CreateConversationRequest{Title: "Doomed"})
	require.NoError(t, err)
	_, err = env.conversations.AppendMessage(ctx, user.ID, conversation.ID,
		&models.AppendMessageRequest{Role: models.RoleUser, Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, env.conversations.DeleteConversation(ctx, user.ID, conversation.ID))

	_, err = env.conversations.GetConversation(ctx, user.ID, conversation.ID)
	assert.True(t, apperrors.IsNotFound(err))

	var count int
	require.NoError(t, env.db.QueryRow(
		`SELECT COUNT(*) FROM messages WHERE conversation_id = ?`, conversation.ID).Scan(&count))
	assert.Equal(t, 0, count, "messages must be cascade-deleted with the conversation")
}

func TestGetConversations_MostRecentlyUpdatedFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.registerUser(t, "alice@example.com")

	first, err := env.conversations.CreateConversation(ctx, user.ID,
		&models.CreateConversationRequest{Title: "First"})
	require.NoError(t, err)
	second, err := env.conversations.CreateConversation(ctx, user.ID,
		&models.CreateConversationRequest{Title: "Second"})
	require.NoError(t, err)

	// Timestamps have second granularity, so order them explicitly.
	_, err = env.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		"2025-06-01T10:00:00Z", first.ID)
	require.NoError(t, err)
	_, err = env.db.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		"2025-06-01T09:00:00Z", second.ID)
	require.NoError(t, err)

	list, err := env.conversations.GetConversations(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Title)
	assert.Equal(t, "Second", list[1].Title)
}
