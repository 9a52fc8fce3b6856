package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"supportchat-backend/internal/handlers"
	"supportchat-backend/internal/middleware"
)

func New(
	healthHandler *handlers.HealthHandler,
	chatHandler *handlers.ChatHandler,
	conversationHandler *handlers.ConversationHandler,
	chatLimiter func(http.Handler) http.Handler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", healthHandler.Check)

	r.Route("/api", func(r chi.Router) {
		// The chat route does network and storage work per hit; limit it.
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter)
			r.Post("/message", chatHandler.SendMessage)
		})

		r.Post("/conversation", conversationHandler.Create)
		r.Get("/conversation/{id}", conversationHandler.Get)
		r.Get("/conversation/{id}/export", conversationHandler.Export)
		r.Delete("/conversation/{id}", conversationHandler.Delete)
		r.Get("/conversations", conversationHandler.List)
	})

	return r
}
