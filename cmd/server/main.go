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

	"github.com/redis/go-redis/v9"

	"chikka-backend/internal/config"
	"chikka-backend/internal/database"
	"chikka-backend/internal/handlers"
	"chikka-backend/internal/router"
	"chikka-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Chikka Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Connect Redis (optional) ────
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠ Redis unavailable, search caching disabled: %v", err)
		} else {
			redisClient = client
			defer redisClient.Close()
			log.Println("✓ Redis connected")
		}
	}

	// ──── Step 3: Initialize Mistral Client ────
	// A missing API key is not fatal: every request still gets an answer
	// through the fallback path.
	mistralClient := services.NewMistralClient(
		cfg.MistralBaseURL,
		cfg.MistralAPIKey,
		cfg.MistralModel,
		cfg.MaxTokens,
		cfg.ConcurrentReqs,
	)
	if cfg.MistralAPIKey == "" {
		log.Println("⚠ MISTRAL_API_KEY not set, all replies will use fallback mode")
	} else {
		log.Printf("✓ Mistral client initialized (model: %s)", cfg.MistralModel)
	}

	// ──── Initialize Services ────
	searchService := services.NewSearchService(cfg.RapidAPIHost, cfg.RapidAPIKey, redisClient)
	linkService := services.NewLinkService()
	fileExtractService := services.NewFileExtractService()

	augmenter := services.NewAugmenter(searchService, linkService, cfg.SystemPrompt)
	chatService := services.NewChatService(mistralClient, augmenter, services.NewFallbackResolver())

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService)
	extractHandler := handlers.NewExtractHandler(fileExtractService)
	modelsHandler := handlers.NewModelsHandler(cfg.MistralModel, cfg.MistralModels)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(chatHandler, extractHandler, modelsHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // must outlast the 30s upstream timeout
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

	log.Printf("✓ Chikka Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
