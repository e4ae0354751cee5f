package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/VanshikaSalekar/DevBlog/internal/auth"
	"github.com/VanshikaSalekar/DevBlog/internal/middleware"
	"github.com/VanshikaSalekar/DevBlog/internal/posts"
)

type RouterDeps struct {
	Service     *posts.Service
	Sessions    *auth.Sessions
	Health      *HealthDeps
	Logger      *slog.Logger
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) http.Handler {
	ph := NewPostsHandler(deps.Service, deps.Logger)
	ah := NewAuthHandler(deps.Sessions, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Session(deps.Sessions))

	if deps.Health != nil {
		r.Get("/health", Health(deps.Health))
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", ah.SignIn())
		r.Post("/signup", ah.SignUp())
		r.With(middleware.RequireUser).Post("/signout", ah.SignOut())
		r.With(middleware.RequireUser).Patch("/profile", ah.UpdateProfile())
	})

	r.Get("/posts", ph.List())
	r.Get("/posts/{slug}", ph.GetBySlug())
	r.Get("/tags", ph.Tags())
	r.Get("/search", ph.Search())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Post("/posts", ph.Create())
		r.Put("/posts/{id}", ph.Update())
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Delete("/posts/{id}", ph.Delete())
		r.Get("/admin/posts", ph.AdminList())
		r.Get("/admin/stats", ph.Stats())
	})

	return r
}
