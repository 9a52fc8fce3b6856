package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"supportchat-backend/internal/models"
)

type fakeConversationRepo struct {
	conversations map[uuid.UUID]*models.Conversation
	summaries     []models.ConversationSummary
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]*models.Conversation)}
}

func (f *fakeConversationRepo) Create(ctx context.Context) (*models.Conversation, error) {
	c := &models.Conversation{ID: uuid.New(), CreatedAt: time.Now().UTC()}
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.conversations[id]; !ok {
		return false, nil
	}
	delete(f.conversations, id)
	return true, nil
}

func (f *fakeConversationRepo) List(ctx context.Context) ([]models.ConversationSummary, error) {
	return f.summaries, nil
}

type fakeMessageRepo struct {
	byConversation map[uuid.UUID][]models.Message
}

func (f *fakeMessageRepo) AllOrdered(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	msgs := f.byConversation[conversationID]
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

func newConversationRouter(h *ConversationHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/conversation", h.Create)
	r.Get("/api/conversation/{id}", h.Get)
	r.Get("/api/conversation/{id}/export", h.Export)
	r.Delete("/api/conversation/{id}", h.Delete)
	r.Get("/api/conversations", h.List)
	return r
}

func TestCreateConversation(t *testing.T) {
	convs := newFakeConversationRepo()
	h := NewConversationHandler(convs, &fakeMessageRepo{})
	r := newConversationRouter(h)

	req := httptest.NewRequest(http.MethodPost, "/api/conversation", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rr.Code)
	}

	var resp struct {
		Success        bool   `json:"success"`
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success:true")
	}
	if _, err := uuid.Parse(resp.ConversationID); err != nil {
		t.Errorf("Expected a valid conversation id, got %q", resp.ConversationID)
	}
}

func TestGetConversation(t *testing.T) {
	convs := newFakeConversationRepo()
	conv, _ := convs.Create(context.Background())

	msgs := &fakeMessageRepo{byConversation: map[uuid.UUID][]models.Message{
		conv.ID: {
			{ID: uuid.New(), ConversationID: conv.ID, Sender: models.SenderUser, Text: "hi", CreatedAt: time.Now()},
			{ID: uuid.New(), ConversationID: conv.ID, Sender: models.SenderAI, Text: "hello!", CreatedAt: time.Now()},
		},
	}}
	h := NewConversationHandler(convs, msgs)
	r := newConversationRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/"+conv.ID.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var detail models.ConversationDetail
	if err := json.NewDecoder(rr.Body).Decode(&detail); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if detail.MessageCount != 2 {
		t.Errorf("Expected messageCount 2, got %d", detail.MessageCount)
	}
	if len(detail.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(detail.Messages))
	}
	if detail.Messages[0].Sender != models.SenderUser || detail.Messages[1].Sender != models.SenderAI {
		t.Error("Expected user then ai ordering preserved")
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	h := NewConversationHandler(newFakeConversationRepo(), &fakeMessageRepo{})
	r := newConversationRouter(h)

	for _, path := range []string{
		"/api/conversation/" + uuid.NewString(),
		"/api/conversation/not-a-uuid",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestExportConversation_AttachmentHeader(t *testing.T) {
	convs := newFakeConversationRepo()
	conv, _ := convs.Create(context.Background())
	h := NewConversationHandler(convs, &fakeMessageRepo{})
	r := newConversationRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/conversation/"+conv.ID.String()+"/export", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	disposition := rr.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "attachment") {
		t.Errorf("Expected attachment disposition, got %q", disposition)
	}
	if !strings.Contains(disposition, conv.ID.String()) {
		t.Errorf("Expected filename to contain the conversation id, got %q", disposition)
	}
}

func TestDeleteConversation(t *testing.T) {
	convs := newFakeConversationRepo()
	conv, _ := convs.Create(context.Background())
	h := NewConversationHandler(convs, &fakeMessageRepo{})
	r := newConversationRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/api/conversation/"+conv.ID.String(), nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	// A second delete finds nothing.
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/conversation/"+conv.ID.String(), nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on repeated delete, got %d", rr.Code)
	}

	// And the conversation is gone for reads too.
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/conversation/"+conv.ID.String(), nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rr.Code)
	}
}

func TestListConversations(t *testing.T) {
	convs := newFakeConversationRepo()
	convs.summaries = []models.ConversationSummary{
		{ID: uuid.New(), CreatedAt: time.Now(), MessageCount: 4},
		{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour), MessageCount: 0},
	}
	h := NewConversationHandler(convs, &fakeMessageRepo{})
	r := newConversationRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp struct {
		Success       bool                         `json:"success"`
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Conversations) != 2 {
		t.Fatalf("Expected 2 conversations, got %d", len(resp.Conversations))
	}
	if resp.Conversations[0].MessageCount != 4 {
		t.Errorf("Expected first conversation messageCount 4, got %d", resp.Conversations[0].MessageCount)
	}
}
