package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Store.Medium().Keys(r.Context()); err != nil {
		h.log(r.Context()).WarnContext(r.Context(), "storage health check failed", "error", err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// limitParam reads ?limit=, where 0 or absent means no limit.
func limitParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (h *handler) listVideos(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		h.writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	videos, err := h.deps.Store.Videos.Recent(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err, "Failed to list videos")
		return
	}
	h.writeJSON(w, r, http.StatusOK, videos)
}

func (h *handler) getVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	query := r.URL.Query()
	refresh := query.Get("refresh") == "true"
	if h.deps.Library != nil && (refresh || query.Get("fetch") == "true") {
		v, err := h.deps.Library.OpenVideo(r.Context(), id, refresh)
		if err != nil {
			h.handleError(w, r, err, "Failed to load video")
			return
		}
		h.writeJSON(w, r, http.StatusOK, v)
		return
	}

	v, err := h.deps.Store.Videos.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "Failed to load video")
		return
	}
	if v == nil {
		h.notFound(w, r, "Video")
		return
	}
	h.writeJSON(w, r, http.StatusOK, v)
}

func (h *handler) listPlaylists(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(r)
	if !ok {
		h.writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	playlists, err := h.deps.Store.Playlists.Recent(r.Context(), limit)
	if err != nil {
		h.handleError(w, r, err, "Failed to list playlists")
		return
	}
	h.writeJSON(w, r, http.StatusOK, playlists)
}

func (h *handler) getPlaylist(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.Store.Playlists.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "Failed to load playlist")
		return
	}
	if p == nil {
		h.notFound(w, r, "Playlist")
		return
	}
	h.writeJSON(w, r, http.StatusOK, p)
}

type openRequest struct {
	URL     string `json:"url"`
	Refresh bool   `json:"refresh"`
}

// open resolves a pasted YouTube link and loads the video or playlist it names.
func (h *handler) open(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !h.decode(w, r, &req) {
		return
	}
	opened, err := h.deps.Library.Open(r.Context(), req.URL, req.Refresh)
	if err != nil {
		h.handleError(w, r, err, "Failed to open resource")
		return
	}
	h.writeJSON(w, r, http.StatusOK, opened)
}
