// Package router sets up all HTTP routes and middleware chains for the
// marketplace API. Browse endpoints share a generous rate limit; write
// endpoints (submissions, ratings, events) get a tighter one.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"glowwwmarket/internal/handlers"
	"glowwwmarket/internal/middleware"
)

// New creates and returns the configured chi router with all middleware
// and route groups wired up.
func New(templates *handlers.Templates, ratings *handlers.Ratings, versions *handlers.Versions, collections *handlers.Collections) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	browseLimit := middleware.NewRateLimiter(300, time.Minute)
	writeLimit := middleware.NewRateLimiter(30, time.Minute)

	// Health check.
	r.Get("/health", healthHandler)

	// Public share link target.
	r.With(browseLimit.Middleware).Get("/t/{slug}", templates.GetBySlug)

	r.Route("/api", func(r chi.Router) {
		// Browse endpoints.
		r.Group(func(r chi.Router) {
			r.Use(browseLimit.Middleware)

			r.Get("/templates", templates.List)
			r.Get("/templates/{id}", templates.Get)
			r.Get("/templates/{id}/share", templates.Share)
			r.Get("/templates/{id}/share/qr", templates.ShareQR)
			r.Get("/templates/{id}/ratings", ratings.List)
			r.Get("/templates/{id}/versions", versions.List)
			r.Get("/templates/{id}/versions/stats", versions.Stats)
			r.Get("/templates/{id}/versions/{versionID}", versions.Get)
			r.Get("/templates/{id}/versions/{versionID}/diff/{otherID}", versions.Diff)
			r.Get("/templates/{id}/versions/{versionID}/archive", versions.ArchiveURL)

			r.Get("/collections", collections.List)
			r.Get("/collections/{id}", collections.Get)
		})

		// Write endpoints.
		r.Group(func(r chi.Router) {
			r.Use(writeLimit.Middleware)

			r.Post("/templates", templates.Submit)
			r.Delete("/templates/{id}", templates.Delete)
			r.Post("/templates/{id}/events/{event}", templates.RecordEvent)
			r.Post("/templates/{id}/ratings", ratings.Submit)
			r.Post("/templates/{id}/versions", versions.Create)
			r.Post("/templates/{id}/versions/{versionID}/download", versions.RecordDownload)
			r.Post("/templates/{id}/rollback", versions.Rollback)

			r.Post("/bundles", collections.CreateBundle)
			r.Post("/collections/{id}/events", collections.RecordEvent)
		})

		// Moderation and maintenance endpoints. Authentication is expected
		// to happen upstream (gateway); these only get the write limiter.
		r.Route("/admin", func(r chi.Router) {
			r.Use(writeLimit.Middleware)

			r.Post("/templates/{id}/approve", templates.Approve)
			r.Post("/templates/{id}/reject", templates.Reject)
			r.Post("/templates/{id}/ratings/recompute", ratings.Recompute)
			r.Post("/collections/trending", collections.GenerateTrending)
			r.Post("/collections/seasonal", collections.GenerateSeasonal)
		})
	})

	return r
}

// healthHandler responds 200 OK for load balancer health checks.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
