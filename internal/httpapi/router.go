// Package httpapi exposes the store over a local JSON REST API.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Store   *store.Store
	Library *services.LibraryService
	Chat    *services.ChatService // nil disables POST /api/chats/ask
	Notes   *services.NoteService
	Logger  *slog.Logger
}

// NewRouter creates the HTTP router for deps.
func NewRouter(deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{deps: deps, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware(logger))
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/videos", h.listVideos)
		r.Get("/videos/{id}", h.getVideo)
		r.Get("/playlists", h.listPlaylists)
		r.Get("/playlists/{id}", h.getPlaylist)
		r.Post("/open", h.open)

		r.Get("/chats", h.listChats)
		r.Post("/chats", h.createChat)
		r.Post("/chats/ask", h.ask)
		r.Get("/chats/{id}", h.getChat)
		r.Delete("/chats/{id}", h.deleteChat)
		r.Post("/chats/{id}/messages", h.appendMessage)
		r.Post("/chats/{id}/messages/{messageID}/note", h.saveMessageAsNote)

		r.Get("/notes", h.listNotes)
		r.Post("/notes", h.createNote)
		r.Get("/notes/export", h.exportNotes)
		r.Get("/notes/{id}", h.getNote)
		r.Put("/notes/{id}", h.updateNote)
		r.Put("/notes/{id}/pin", h.pinNote)
		r.Delete("/notes/{id}", h.deleteNote)

		r.Get("/history", h.history)
		r.Get("/settings", h.getSettings)
		r.Put("/settings", h.putSettings)
	})

	return r
}
