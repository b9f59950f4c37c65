package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConversationRepository handles database operations for conversations
// and their messages.
type ConversationRepository struct {
	db *sql.DB
}

// NewConversationRepository creates a new instance of ConversationRepository.
func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// CreateConversation inserts a new conversation.
func (r *ConversationRepository) CreateConversation(ctx context.Context, conv *models.Conversation) (*models.Conversation, error) {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	conv.CreatedAt = time.Now().UTC()
	conv.UpdatedAt = conv.CreatedAt

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		conv.ID, conv.UserID, conv.Title,
		conv.CreatedAt.Format(timeFormat), conv.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert conversation into database")
		return nil, fmt.Errorf("failed to insert conversation: %v", err)
	}
	return conv, nil
}

// GetConversations returns all conversations of a user, most recently
// active first.
func (r *ConversationRepository) GetConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM conversations WHERE user_id = ? ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch conversations: %v", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var conv models.Conversation
		var createdAt, updatedAt string
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %v", err)
		}
		conv.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		conv.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// GetConversationByID retrieves a conversation owned by the given user.
func (r *ConversationRepository) GetConversationByID(ctx context.Context, id, userID string) (*models.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at
		 FROM conversations WHERE id = ? AND user_id = ?`, id, userID)

	var conv models.Conversation
	var createdAt, updatedAt string
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		logrus.WithField("conversationID", id).WithError(err).Warn("Failed to find conversation by ID")
		return nil, fmt.Errorf("failed to find conversation: %v", err)
	}
	conv.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	conv.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &conv, nil
}

// DeleteConversation removes a conversation owned by the user. Its
// messages are cascade-deleted by the schema.
func (r *ConversationRepository) DeleteConversation(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		logrus.WithField("conversationID", id).WithError(err).Error("Failed to delete conversation")
		return fmt.Errorf("failed to delete conversation: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendMessage stores a message and touches the parent conversation's
// updated_at so listings sort by recent activity.
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert message into database")
		return nil, fmt.Errorf("failed to insert message: %v", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		msg.CreatedAt.Format(timeFormat), msg.ConversationID,
	)
	if err != nil {
		logrus.WithField("conversationID", msg.ConversationID).WithError(err).Warn("Failed to touch conversation")
	}

	return msg, nil
}

// GetMessages returns a conversation's messages in chronological order.
func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %v", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		var createdAt string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %v", err)
		}
		msg.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
