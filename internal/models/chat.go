package models

import (
	"time"

	"github.com/google/uuid"
)

// Message senders as stored.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Turn roles as sent to the completion provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a thread of alternating user/ai messages.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one stored turn of a conversation. Rows are immutable after
// insert; Seq records insertion order and breaks created_at ties.
type Message struct {
	ID             uuid.UUID `json:"id"`
	Seq            int64     `json:"-"`
	ConversationID uuid.UUID `json:"conversationId"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ChatTurn is a role-tagged turn in the prompt sent to the provider.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload of POST /api/message. Message is a pointer so
// an absent field and an empty field validate differently.
type ChatRequest struct {
	Message        *string `json:"message"`
	ConversationID string  `json:"conversationId,omitempty"`
}

// ChatResponse is the success body of POST /api/message.
type ChatResponse struct {
	Success           bool      `json:"success"`
	Reply             string    `json:"reply"`
	ConversationID    uuid.UUID `json:"conversationId"`
	ModelUsed         string    `json:"modelUsed"`
	IsNewConversation bool      `json:"isNewConversation"`
	Timestamp         time.Time `json:"timestamp"`
}

// ChatErrorResponse is the failure body of POST /api/message. Every failure
// carries a user-safe reply so the client always has something to render.
type ChatErrorResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Message  string `json:"message,omitempty"`
	Length   int    `json:"length,omitempty"`
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// CompletionResult is what the gateway returns on success.
type CompletionResult struct {
	Reply string
	Model string
}

// ConversationSummary is one row of GET /api/conversations.
type ConversationSummary struct {
	ID           uuid.UUID `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
}

// ConversationDetail is the body of GET /api/conversation/{id} and its export.
type ConversationDetail struct {
	Success        bool      `json:"success"`
	ConversationID uuid.UUID `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
	MessageCount   int       `json:"messageCount"`
	Messages       []Message `json:"messages"`
}

// ErrorResponse is the failure body of the non-message endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
