package services

import (
	"context"
	"strings"
	"time"

	"github.com/Bekarys2104/Task_Planner/internal/apperrors"
	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/repository"
	"github.com/Bekarys2104/Task_Planner/pkg/logger"
	"github.com/sirupsen/logrus"
)

// ConversationService encapsulates the business logic for chat history.
type ConversationService struct {
	repo *repository.ConversationRepository
}

// NewConversationService creates a new instance of ConversationService.
func NewConversationService(repo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{
		repo: repo,
	}
}

// CreateConversation starts a new conversation for the user.
func (s *ConversationService) CreateConversation(ctx context.Context, userID string, req *models.CreateConversationRequest) (*models.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New conversation"
	}

	conversation := &models.Conversation{
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	created, err := s.repo.CreateConversation(ctx, conversation)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create conversation")
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"conversationID": created.ID,
		"userID":         userID,
	}).Info("Conversation created")

	return created, nil
}

// GetConversations returns the user's conversations, most recently
// updated first.
func (s *ConversationService) GetConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	conversations, err := s.repo.GetConversations(ctx, userID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch conversations")
		return nil, err
	}
	return conversations, nil
}

// GetConversation returns a conversation the user owns together with its
// messages in chronological order.
func (s *ConversationService) GetConversation(ctx context.Context, userID, conversationID string) (*models.ConversationWithMessages, error) {
	conversation, err := s.repo.GetConversationByID(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessages(ctx, conversationID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch messages")
		return nil, err
	}

	return &models.ConversationWithMessages{
		Conversation: *conversation,
		Messages:     messages,
	}, nil
}

// AppendMessage adds a message to a conversation the user owns.
func (s *ConversationService) AppendMessage(ctx context.Context, userID, conversationID string, req *models.AppendMessageRequest) (*models.Message, error) {
	if req.Role != models.RoleUser && req.Role != models.RoleAssistant {
		return nil, apperrors.NewValidationError("role", "must be \"user\" or \"assistant\"")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, apperrors.NewValidationError("content", "is required")
	}

	if _, err := s.repo.GetConversationByID(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		Role:           req.Role,
		Content:        req.Content,
		CreatedAt:      time.Now().UTC(),
	}

	saved, err := s.repo.AppendMessage(ctx, message)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to append message")
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"conversationID": conversationID,
		"role":           saved.Role,
	}).Info("Message appended")

	return saved, nil
}

// ListMessages returns the messages of a conversation the user owns in
// chronological order.
func (s *ConversationService) ListMessages(ctx context.Context, userID, conversationID string) ([]models.Message, error) {
	if _, err := s.repo.GetConversationByID(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.GetMessages(ctx, conversationID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch messages")
		return nil, err
	}
	return messages, nil
}

// DeleteConversation removes a conversation the user owns along with its
// messages.
func (s *ConversationService) DeleteConversation(ctx context.Context, userID, conversationID string) error {
	if err := s.repo.DeleteConversation(ctx, conversationID, userID); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"conversationID": conversationID,
			"userID":         userID,
		}).Warn("Failed to delete conversation")
		return err
	}

	logger.Log.WithField("conversationID", conversationID).Info("Conversation deleted")
	return nil
}
