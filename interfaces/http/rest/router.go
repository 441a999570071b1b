package rest

import (
	"net/http"
	"time"

	"reach-backend/infrastructure/config"
	"reach-backend/interfaces/http/rest/handlers"
	"reach-backend/interfaces/http/rest/middleware"
	"reach-backend/pkg/auth"
	"reach-backend/pkg/common"
	"reach-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Handlers bundles the per-resource handlers the router mounts.
type Handlers struct {
	Profiles *handlers.ProfileHandler
	Posts    *handlers.PostHandler
	Follows  *handlers.FollowHandler
	Auth     *handlers.AuthHandler
	Images   *handlers.ImageHandler
}

// NewRouter assembles the full HTTP surface: health endpoints plus the
// /api resource routes, with logging, CORS, and optional bearer-token
// enforcement on the data routes.
func NewRouter(cfg *config.Config, h Handlers, checker middleware.TokenChecker, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger, metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	limiter := auth.NewTokenBucketLimiter(10, time.Minute)

	r.Route("/api", func(api chi.Router) {
		api.Group(func(authRoutes chi.Router) {
			authRoutes.Use(middleware.RateLimit(limiter, logger))
			authRoutes.Mount("/auth", h.Auth.Routes())
		})

		api.Group(func(data chi.Router) {
			if cfg.RequireAuth {
				data.Use(middleware.RequireAuth(checker, logger))
			}
			data.Mount("/profiles", h.Profiles.Routes())
			data.Mount("/posts", h.Posts.Routes())
			data.Mount("/follows", h.Follows.Routes())
			data.Mount("/imgs", h.Images.Routes())
		})
	})

	if cfg.EnableTracing {
		return observability.TraceHandler("reach-backend", r)
	}
	return r
}
