package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/modcat/internal/catalogservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// notifier, if non-nil, is told about manual rebuilds that changed the catalog.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *catalogservice.Service, notifier Notifier, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, notifier)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/catalog", h.Catalog)
	r.Get("/categories", h.Categories)
	r.Get("/files", h.ListFiles)
	r.Get("/files/*", h.GetFile)
	r.Get("/search", h.Search)
	r.Get("/classify", h.Classify)
	r.Post("/rebuild", h.Rebuild)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
