package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"supportchat-backend/internal/handlers"
	"supportchat-backend/internal/models"
)

type stubConversationRepo struct{}

func (stubConversationRepo) Create(ctx context.Context) (*models.Conversation, error) {
	return &models.Conversation{ID: uuid.New()}, nil
}
func (stubConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	return &models.Conversation{ID: id}, nil
}
func (stubConversationRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}
func (stubConversationRepo) List(ctx context.Context) ([]models.ConversationSummary, error) {
	return nil, nil
}

type stubMessageRepo struct{}

func (stubMessageRepo) AllOrdered(ctx context.Context, id uuid.UUID) ([]models.Message, error) {
	return []models.Message{}, nil
}

type stubChatService struct{}

func (stubChatService) Send(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	return &models.ChatResponse{Success: true, Reply: "ok", ConversationID: uuid.New()}, nil
}

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter() http.Handler {
	return New(
		handlers.NewHealthHandler("model-a"),
		handlers.NewChatHandler(stubChatService{}),
		handlers.NewConversationHandler(stubConversationRepo{}, stubMessageRepo{}),
		passthrough,
		"http://localhost:5173",
	)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", resp["status"])
	}
	if resp["service"] != "support-chat-backend" {
		t.Errorf("Expected service name, got %q", resp["service"])
	}
	if resp["model"] != "model-a" {
		t.Errorf("Expected primary model, got %q", resp["model"])
	}
	if resp["timestamp"] == "" {
		t.Error("Expected a timestamp")
	}
}

func TestRoutesAreWired(t *testing.T) {
	r := newTestRouter()

	id := uuid.NewString()
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/conversation"},
		{http.MethodGet, "/api/conversation/" + id},
		{http.MethodGet, "/api/conversation/" + id + "/export"},
		{http.MethodDelete, "/api/conversation/" + id},
		{http.MethodGet, "/api/conversations"},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code == http.StatusNotFound || rr.Code == http.StatusMethodNotAllowed {
			t.Errorf("%s %s: route not wired (got %d)", tc.method, tc.path, rr.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/message", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204 for preflight, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Expected frontend origin allowed, got %q", got)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID on the response")
	}
}
