package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/user/register", h.register)
		r.Post("/api/user/login", h.login)
	})

	// routes with authorization
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/vault/sync", h.synchronize)
		r.Get("/api/vault/entries", h.listEntries)
		r.Get("/api/vault/entries/all", h.listAllEntries)
		r.Post("/api/vault/entries/{entryID}/restore", h.restoreEntry)
		r.Get("/api/vault/history", h.listHistory)
	})

	return router
}
