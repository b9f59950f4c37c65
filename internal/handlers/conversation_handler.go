package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Bekarys2104/Task_Planner/internal/models"
	"github.com/Bekarys2104/Task_Planner/internal/services"
	"github.com/Bekarys2104/Task_Planner/pkg/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ConversationHandler handles HTTP requests for chat history.
type ConversationHandler struct {
	Service *services.ConversationService
}

// NewConversationHandler creates a new instance of ConversationHandler.
func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		Service: service,
	}
}

func authorizeConversationAccess(w http.ResponseWriter, r *http.Request) string {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		log.Warn("Unauthorized access attempt to conversations")
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return ""
	}

	requestedUserID := mux.Vars(r)["userID"]
	if requestedUserID != claims.UserID {
		log.WithFields(log.Fields{
			"requestedUserID": requestedUserID,
			"loggedInUserID":  claims.UserID,
		}).Warn("Forbidden access attempt to conversations")
		respondError(w, http.StatusForbidden, "Forbidden: You can only access your own conversations")
		return ""
	}

	return claims.UserID
}

// CreateConversationHandler starts a new conversation.
func (h *ConversationHandler) CreateConversationHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("CreateConversationHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	var req models.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode conversation request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	conversation, err := h.Service.CreateConversation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, conversation)
}

// GetConversationsHandler lists the user's conversations.
func (h *ConversationHandler) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetConversationsHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	conversations, err := h.Service.GetConversations(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	respondJSON(w, http.StatusOK, conversations)
}

// GetConversationHandler returns one conversation with its messages.
func (h *ConversationHandler) GetConversationHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetConversationHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	conversationID := mux.Vars(r)["conversationID"]
	conversation, err := h.Service.GetConversation(r.Context(), userID, conversationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, conversation)
}

// AppendMessageHandler appends a message to a conversation.
func (h *ConversationHandler) AppendMessageHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("AppendMessageHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	var req models.AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("Failed to decode message request")
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	conversationID := mux.Vars(r)["conversationID"]
	message, err := h.Service.AppendMessage(r.Context(), userID, conversationID, &req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, message)
}

// GetMessagesHandler lists a conversation's messages.
func (h *ConversationHandler) GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("GetMessagesHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	conversationID := mux.Vars(r)["conversationID"]
	messages, err := h.Service.ListMessages(r.Context(), userID, conversationID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	respondJSON(w, http.StatusOK, messages)
}

// DeleteConversationHandler deletes a conversation and its messages.
func (h *ConversationHandler) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	log.Info("DeleteConversationHandler called")

	userID := authorizeConversationAccess(w, r)
	if userID == "" {
		return
	}

	conversationID := mux.Vars(r)["conversationID"]
	if err := h.Service.DeleteConversation(r.Context(), userID, conversationID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}
