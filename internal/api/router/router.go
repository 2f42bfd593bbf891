package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/strengthclub/coaching-ai-platform/internal/escalation"
	httpmiddleware "github.com/strengthclub/coaching-ai-platform/internal/http/middleware"
	"github.com/strengthclub/coaching-ai-platform/internal/webchat"
	"github.com/strengthclub/coaching-ai-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Webchat            *webchat.Handler
	Escalations        *escalation.Handler
	MetricsHandler     http.Handler
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health checks, metrics, widget asset)
	r.Group(func(public chi.Router) {
		public.Get("/health", handleHealth)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Webchat != nil {
			public.Get("/chat/widget.js", cfg.Webchat.HandleWidgetJS)
		}
	})

	// Visitor-facing chat endpoints, rate limited per IP
	if cfg.Webchat != nil {
		r.Route("/chat", func(chat chi.Router) {
			if cfg.RateLimitPerSec > 0 {
				chat.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
			}
			chat.Get("/ws", cfg.Webchat.HandleWebSocket)
			chat.Post("/session", cfg.Webchat.HandleStartSession)
			chat.Post("/message", cfg.Webchat.HandleMessage)
			chat.Post("/escalate", cfg.Webchat.HandleEscalate)
			chat.Get("/history", cfg.Webchat.HandleHistory)
			chat.Get("/conversations", cfg.Webchat.HandleListConversations)
			chat.Delete("/conversation", cfg.Webchat.HandleDeleteConversation)
		})
	}

	// Coach-facing routes (protected by JWT)
	if cfg.Escalations != nil && cfg.AdminJWTSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Get("/escalations", cfg.Escalations.List)
			admin.Post("/escalations/{escalationID}/resolve", cfg.Escalations.Resolve)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
