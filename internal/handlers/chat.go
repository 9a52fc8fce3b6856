package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"supportchat-backend/internal/models"
	"supportchat-backend/internal/services"
)

type chatService interface {
	Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

type ChatHandler struct {
	chat chatService
}

func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessage handles POST /api/message.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatErrorResponse{
			Error:    services.ReasonMissing,
			Message:  "Invalid request body",
			Reply:    "Sorry, I couldn't read that message. Please try again.",
			Fallback: true,
		})
		return
	}

	resp, err := h.chat.Send(r.Context(), req)
	if err != nil {
		handleChatError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleChatError maps the service error taxonomy onto HTTP statuses. Every
// failure body carries a user-safe reply so the UI degrades to a canned
// answer instead of silence.
func handleChatError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *services.ValidationError:
		resp := models.ChatErrorResponse{
			Error:    e.Reason,
			Length:   e.Length,
			Reply:    "Please enter a message so I can help you.",
			Fallback: true,
		}
		switch e.Reason {
		case services.ReasonMissing:
			resp.Message = "Message is required"
		case services.ReasonEmpty:
			resp.Message = "Message must not be empty"
		case services.ReasonTooLong:
			resp.Message = fmt.Sprintf("Message must be at most %d characters", services.MaxMessageLength)
			resp.Reply = "That message is a bit long for me. Could you shorten it and try again?"
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case *services.GatewayAuthError:
		writeJSON(w, http.StatusUnauthorized, models.ChatErrorResponse{
			Error:    "auth",
			Message:  "AI provider rejected credentials; review the configured API key",
			Reply:    services.FallbackReply,
			Fallback: true,
		})
	case *services.GatewayRateLimitError:
		writeJSON(w, http.StatusTooManyRequests, models.ChatErrorResponse{
			Error:    "rateLimited",
			Message:  "AI provider is throttling requests; try again shortly",
			Reply:    services.FallbackReply,
			Fallback: true,
		})
	case *services.ModelsExhaustedError:
		writeJSON(w, http.StatusInternalServerError, models.ChatErrorResponse{
			Error:    "aiUnavailable",
			Message:  "All candidate models failed",
			Reply:    services.FallbackReply,
			Fallback: true,
		})
	case *services.StorageError:
		writeJSON(w, http.StatusInternalServerError, models.ChatErrorResponse{
			Error:    "storage",
			Message:  "Failed to persist the conversation",
			Reply:    services.FallbackReply,
			Fallback: true,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, models.ChatErrorResponse{
			Error:    "internal",
			Message:  "An unexpected error occurred",
			Reply:    services.FallbackReply,
			Fallback: true,
		})
	}
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string) models.ErrorResponse {
	return models.ErrorResponse{Error: code, Message: message}
}
