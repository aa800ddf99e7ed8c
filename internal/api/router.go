package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hireloop/hireloop/internal/api/handlers"
	"github.com/hireloop/hireloop/internal/api/middleware"
	"github.com/hireloop/hireloop/internal/auth"
	"github.com/hireloop/hireloop/internal/interviews"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB               *gorm.DB
	Redis            *redis.Client
	Logger           *slog.Logger
	JWTService       *auth.JWTService
	AuthService      *auth.Service
	InterviewService *interviews.Service
	AllowedOrigins   []string // CORS allowed origins
	RateLimitReqs    int      // Rate limit requests per window
	RateLimitSecs    int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	userHandler := handlers.NewUserHandler(cfg.AuthService)
	interviewHandler := handlers.NewInterviewHandler(cfg.InterviewService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/verify-email", authHandler.VerifyEmail)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", authHandler.Me)

			// Candidate directory (recruiter only)
			r.With(middleware.RequireRole("recruiter")).
				Get("/candidates", userHandler.ListCandidates)

			// Interview endpoints
			r.Route("/interviews", func(r chi.Router) {
				r.Get("/", interviewHandler.List)
				r.Get("/{id}", interviewHandler.Get)

				// Recruiter side of the lifecycle
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("recruiter"))
					r.Post("/", interviewHandler.Create)
					r.Put("/{id}", interviewHandler.Update)
					r.Delete("/{id}", interviewHandler.Delete)
					r.Post("/{id}/invite", interviewHandler.Invite)
					r.Post("/{id}/cancel", interviewHandler.Cancel)
				})

				// Candidate side of the lifecycle
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("candidate"))
					r.Post("/{id}/start", interviewHandler.Start)
					r.Post("/{id}/questions/generate", interviewHandler.GenerateQuestions)
					r.Put("/{id}/questions/{index}/answer", interviewHandler.SaveAnswer)
					r.Post("/{id}/questions/{index}/assess", interviewHandler.AssessAnswer)
					r.Post("/{id}/answers", interviewHandler.SubmitAnswers)
					r.Post("/{id}/rate", interviewHandler.Rate)
				})
			})
		})
	})

	return &Router{r}
}
