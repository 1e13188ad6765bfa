package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/echoscribe/backend/internal/api/handlers"
	"github.com/echoscribe/backend/internal/api/middleware"
	"github.com/echoscribe/backend/internal/auth"
	"github.com/echoscribe/backend/internal/config"
	"github.com/echoscribe/backend/internal/history"
	"github.com/echoscribe/backend/internal/jobs"
	"github.com/echoscribe/backend/internal/kv"
	"github.com/echoscribe/backend/internal/queue"
	"github.com/echoscribe/backend/internal/stt"
	"github.com/echoscribe/backend/internal/transcribe"
)

type Router struct {
	mux   *chi.Mux
	redis *redis.Client
	cfg   *config.Config
	jwt   *auth.JWTMiddleware
}

func NewRouter(rdb *redis.Client, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		redis: rdb,
		cfg:   cfg,
		jwt:   auth.NewJWTMiddleware(cfg.Auth.JWTSecret),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	store := kv.NewRedisStore(rt.redis)
	histStore := history.NewStore(store, rt.cfg.History.Key, rt.cfg.History.Limit)
	tracker := jobs.NewTracker(store)
	provider := stt.NewProvider(rt.cfg.STT.Backend,
		stt.OpenAIConfig{
			APIKey:  rt.cfg.STT.OpenAIKey,
			BaseURL: rt.cfg.STT.OpenAIBaseURL,
			Model:   rt.cfg.STT.Model,
		},
		stt.LocalConfig{BaseURL: rt.cfg.STT.LocalBaseURL},
	)
	svc := transcribe.NewService(provider, histStore)
	queueClient := queue.NewClient(rt.cfg.Redis)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.jwt.Authenticate)

		transcribeH := handlers.NewTranscribeHandler(svc, queueClient, tracker, rt.cfg.Upload.Dir, rt.cfg.Upload.MaxBytes)
		r.Route("/transcriptions", func(r chi.Router) {
			r.Post("/", transcribeH.Create)
			r.Post("/jobs", transcribeH.Submit)
			r.Get("/jobs/{id}", transcribeH.Status)
		})

		historyH := handlers.NewHistoryHandler(histStore)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyH.List)
			r.Delete("/", historyH.Clear)
			r.Get("/{id}", historyH.Get)
			r.Delete("/{id}", historyH.Delete)
			r.Get("/{id}/export", historyH.Export)
		})
	})

	return r
}
