package models

import (
	"time"
)

// Message roles accepted by the chat endpoints.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationWithMessages is the detail view returned when fetching a
// single conversation.
type ConversationWithMessages struct {
	Conversation
	Messages []Message `json:"messages"`
}

// CreateConversationRequest is the payload accepted when starting a conversation.
type CreateConversationRequest struct {
	Title string `json:"title"`
}

// AppendMessageRequest is the payload accepted when adding a message.
type AppendMessageRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
