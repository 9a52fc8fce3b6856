package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"supportchat-backend/internal/models"
)

type conversationRepository interface {
	Create(ctx context.Context) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]models.ConversationSummary, error)
}

type messageRepository interface {
	AllOrdered(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
}

type ConversationHandler struct {
	conversations conversationRepository
	messages      messageRepository
}

func NewConversationHandler(conversations conversationRepository, messages messageRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, messages: messages}
}

// Create handles POST /api/conversation.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.Create(r.Context())
	if err != nil {
		log.Printf("Conversation create failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("storage", "Failed to create conversation"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":        true,
		"conversationId": conv.ID,
		"message":        "New conversation created",
	})
}

// Get handles GET /api/conversation/{id}: the full ordered history.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.loadDetail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Export handles GET /api/conversation/{id}/export: the same payload as Get,
// served as a download.
func (h *ConversationHandler) Export(w http.ResponseWriter, r *http.Request) {
	detail, ok := h.loadDetail(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="conversation-%s.json"`, detail.ConversationID))
	writeJSON(w, http.StatusOK, detail)
}

// Delete handles DELETE /api/conversation/{id}. Message rows go with the
// conversation via the storage-layer cascade.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("notFound", "Conversation not found"))
		return
	}

	deleted, err := h.conversations.Delete(r.Context(), id)
	if err != nil {
		log.Printf("Conversation delete failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("storage", "Failed to delete conversation"))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("notFound", "Conversation not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"conversationId": id,
	})
}

// List handles GET /api/conversations, newest first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.conversations.List(r.Context())
	if err != nil {
		log.Printf("Conversation list failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("storage", "Failed to list conversations"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"conversations": summaries,
	})
}

func (h *ConversationHandler) loadDetail(w http.ResponseWriter, r *http.Request) (*models.ConversationDetail, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("notFound", "Conversation not found"))
		return nil, false
	}

	conv, err := h.conversations.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, errorResp("notFound", "Conversation not found"))
			return nil, false
		}
		log.Printf("Conversation load failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("storage", "Failed to load conversation"))
		return nil, false
	}

	messages, err := h.messages.AllOrdered(r.Context(), id)
	if err != nil {
		log.Printf("Message history load failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("storage", "Failed to load messages"))
		return nil, false
	}

	return &models.ConversationDetail{
		Success:        true,
		ConversationID: conv.ID,
		CreatedAt:      conv.CreatedAt,
		MessageCount:   len(messages),
		Messages:       messages,
	}, true
}
