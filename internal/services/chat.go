package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"supportchat-backend/internal/models"
)

const (
	// MaxMessageLength is the character limit on an inbound message.
	MaxMessageLength = 1000

	// historyLimit caps how many stored messages are sent as context.
	historyLimit = 6
)

// ConversationStore is the persistence surface the chat flow needs for
// conversations.
type ConversationStore interface {
	Create(ctx context.Context) (*models.Conversation, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MessageStore is the persistence surface the chat flow needs for messages.
type MessageStore interface {
	Append(ctx context.Context, conversationID uuid.UUID, sender, text string) (*models.Message, error)
	RecentHistory(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatTurn, error)
}

// Completer produces an assistant reply for a turn sequence.
type Completer interface {
	Complete(ctx context.Context, turns []models.ChatTurn) (*models.CompletionResult, error)
}

// ChatService orchestrates one chat request: validate, resolve the
// conversation, persist the user turn, assemble context, generate, persist
// the reply.
type ChatService struct {
	conversations ConversationStore
	messages      MessageStore
	completer     Completer
	locks         *conversationLocks
}

func NewChatService(conversations ConversationStore, messages MessageStore, completer Completer) *ChatService {
	return &ChatService{
		conversations: conversations,
		messages:      messages,
		completer:     completer,
		locks:         newConversationLocks(),
	}
}

// Send runs the full request flow. The user turn is persisted before the
// provider call, so a generation failure leaves the conversation with an
// unanswered user message; that partial write is accepted, not compensated.
func (s *ChatService) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	// 1. Validate before any I/O.
	if req.Message == nil {
		return nil, &ValidationError{Reason: ReasonMissing}
	}
	text := strings.TrimSpace(*req.Message)
	if text == "" {
		return nil, &ValidationError{Reason: ReasonEmpty}
	}
	if n := utf8.RuneCountInString(text); n > MaxMessageLength {
		return nil, &ValidationError{Reason: ReasonTooLong, Length: n}
	}

	// 2. Resolve the conversation. Malformed and unknown ids both get a
	// fresh conversation; a client-supplied id is never trusted into
	// existence.
	conversationID, isNew, err := s.resolveConversation(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	// Serialize the rest per conversation so concurrent requests cannot
	// interleave their history reads and appends.
	s.locks.Lock(conversationID)
	defer s.locks.Unlock(conversationID)

	// 3. Context before append: history holds only turns prior to this
	// message, which is appended separately as the final turn.
	history, err := s.messages.RecentHistory(ctx, conversationID, historyLimit)
	if err != nil {
		return nil, &StorageError{Op: "history", Err: err}
	}

	if _, err := s.messages.Append(ctx, conversationID, models.SenderUser, text); err != nil {
		return nil, &StorageError{Op: "append user message", Err: err}
	}

	turns := make([]models.ChatTurn, 0, len(history)+2)
	turns = append(turns, models.ChatTurn{Role: models.RoleSystem, Content: SystemPrompt})
	turns = append(turns, history...)
	turns = append(turns, models.ChatTurn{Role: models.RoleUser, Content: text})

	// 4. Generate. Gateway errors propagate as-is for the handler to map.
	result, err := s.completer.Complete(ctx, turns)
	if err != nil {
		return nil, err
	}

	// 5. Persist the assistant turn.
	if _, err := s.messages.Append(ctx, conversationID, models.SenderAI, result.Reply); err != nil {
		return nil, &StorageError{Op: "append ai message", Err: err}
	}

	return &models.ChatResponse{
		Success:           true,
		Reply:             result.Reply,
		ConversationID:    conversationID,
		ModelUsed:         result.Model,
		IsNewConversation: isNew,
		Timestamp:         time.Now().UTC(),
	}, nil
}

func (s *ChatService) resolveConversation(ctx context.Context, supplied string) (uuid.UUID, bool, error) {
	if supplied != "" {
		if id, err := uuid.Parse(supplied); err == nil {
			exists, err := s.conversations.Exists(ctx, id)
			if err != nil {
				return uuid.Nil, false, &StorageError{Op: "conversation lookup", Err: err}
			}
			if exists {
				return id, false, nil
			}
		}
	}

	conv, err := s.conversations.Create(ctx)
	if err != nil {
		return uuid.Nil, false, &StorageError{Op: "conversation create", Err: err}
	}
	return conv.ID, true, nil
}
