package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supportchat-backend/internal/config"
	"supportchat-backend/internal/database"
	"supportchat-backend/internal/handlers"
	"supportchat-backend/internal/middleware"
	"supportchat-backend/internal/repository"
	"supportchat-backend/internal/router"
	"supportchat-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Support Chat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 4: Initialize Repositories ────
	conversationRepo := repository.NewConversationRepo(pool)
	messageRepo := repository.NewMessageRepo(pool)

	// ──── Step 5: Initialize Completion Gateway ────
	completionService, err := services.NewCompletionService(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModels)
	if err != nil {
		log.Fatalf("✗ Completion gateway initialization failed: %v", err)
	}
	log.Printf("✓ Completion gateway initialized (%d candidate models)", len(cfg.AIModels))

	chatService := services.NewChatService(conversationRepo, messageRepo, completionService)

	// ──── Step 6: Rate Limiter (Redis when configured) ────
	var chatLimiter func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		chatLimiter = middleware.NewRedisRateLimiter(redisClient, cfg.ChatRateLimit, time.Minute).Middleware
		log.Println("✓ Redis connected (rate limiter)")
	} else {
		chatLimiter = middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute).Middleware
		log.Println("✓ In-memory rate limiter active")
	}

	// ──── Step 7: Initialize Handlers ────
	healthHandler := handlers.NewHealthHandler(cfg.AIModels[0])
	chatHandler := handlers.NewChatHandler(chatService)
	conversationHandler := handlers.NewConversationHandler(conversationRepo, messageRepo)

	// ──── Step 8: Start HTTP Server ────
	r := router.New(healthHandler, chatHandler, conversationHandler, chatLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // completion calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Support Chat Backend ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
