package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"chikka-backend/internal/handlers"
	"chikka-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	extractHandler *handlers.ExtractHandler,
	modelsHandler *handlers.ModelsHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Chat proxies a metered API (30 req/min per IP)
	chatLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Respond)
		})

		r.Post("/extract", extractHandler.Extract)
		r.Get("/models", modelsHandler.List)
	})

	return r
}
