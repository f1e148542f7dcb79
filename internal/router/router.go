// Package router sets up all HTTP routes and middleware chains for the
// newsdesk API. It organizes routes into the rate-limited public surface
// and the three token-authenticated back-office surfaces.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
)

// Tokens holds the bearer tokens for the three back-office surfaces.
type Tokens struct {
	Admin     string
	Author    string
	Publisher string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(public *handlers.Public, back *handlers.BackOffice, tokens Tokens) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check: no auth, no rate limit.
	r.Get("/health", healthHandler)

	// Public read API, rate limited per client IP.
	limiter := middleware.NewRateLimiter(120, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/api/home", public.HomePage)
		r.Get("/api/articles/{slug}", public.Article)
		r.Get("/api/categories/{category}", public.Category)
	})

	// Back-office surfaces. All three produce identical article shapes;
	// author and publisher surfaces manage articles only, admin and
	// publisher additionally manage authors.
	mountArticles := func(r chi.Router) {
		r.Get("/articles", back.ListArticles)
		r.Post("/articles", back.CreateArticle)
		r.Get("/articles/{id}", back.GetArticle)
		r.Patch("/articles/{id}", back.UpdateArticle)
		r.Delete("/articles/{id}", back.DeleteArticle)
		r.Put("/articles/{id}/placement", back.SetPlacement)
		r.Post("/images", back.UploadImage)
	}
	mountAuthors := func(r chi.Router) {
		r.Get("/authors", back.ListAuthors)
		r.Post("/authors", back.CreateAuthor)
		r.Get("/authors/{id}", back.GetAuthor)
		r.Patch("/authors/{id}", back.UpdateAuthor)
		r.Delete("/authors/{id}", back.DeleteAuthor)
	}

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireToken(middleware.SurfaceAdmin, tokens.Admin))
		mountArticles(r)
		mountAuthors(r)
	})
	r.Route("/api/author", func(r chi.Router) {
		r.Use(middleware.RequireToken(middleware.SurfaceAuthor, tokens.Author))
		mountArticles(r)
	})
	r.Route("/api/publisher", func(r chi.Router) {
		r.Use(middleware.RequireToken(middleware.SurfacePublisher, tokens.Publisher))
		mountArticles(r)
		mountAuthors(r)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
