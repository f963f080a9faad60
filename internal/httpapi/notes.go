package httpapi

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yougen/yougen/internal/store"
)

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

// HistoryResponse groups notes and chats by recency.
type HistoryResponse struct {
	Notes store.History[store.Note] `json:"notes"`
	Chats store.History[store.Chat] `json:"chats"`
}

var exportRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

func (h *handler) listNotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resourceID := query.Get("resourceId")
	q := query.Get("q")

	var (
		notes []store.Note
		err   error
	)
	switch {
	case q != "":
		notes, err = h.deps.Store.Notes.Search(r.Context(), q)
		if err == nil && resourceID != "" {
			notes = filterNotes(notes, resourceID)
		}
	case resourceID != "":
		notes, err = h.deps.Store.Notes.ListByResource(r.Context(), resourceID)
	default:
		notes, err = h.deps.Store.Notes.ListAllSorted(r.Context())
	}
	if err != nil {
		h.handleError(w, r, err, "Failed to list notes")
		return
	}
	h.writeJSON(w, r, http.StatusOK, notes)
}

func filterNotes(notes []store.Note, resourceID string) []store.Note {
	kept := notes[:0]
	for _, n := range notes {
		if n.ResourceID == resourceID {
			kept = append(kept, n)
		}
	}
	return kept
}

func (h *handler) createNote(w http.ResponseWriter, r *http.Request) {
	var draft store.NoteDraft
	if !h.decode(w, r, &draft) {
		return
	}
	note, err := h.deps.Store.Notes.Create(r.Context(), draft)
	if err != nil {
		h.handleError(w, r, err, "Failed to create note")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, note)
}

func (h *handler) getNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.deps.Store.Notes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "Failed to load note")
		return
	}
	if note == nil {
		h.notFound(w, r, "Note")
		return
	}
	h.writeJSON(w, r, http.StatusOK, note)
}

func (h *handler) updateNote(w http.ResponseWriter, r *http.Request) {
	var note store.Note
	if !h.decode(w, r, &note) {
		return
	}
	note.ID = chi.URLParam(r, "id")

	updated, err := h.deps.Store.Notes.Update(r.Context(), note)
	if err != nil {
		h.handleError(w, r, err, "Failed to update note")
		return
	}
	if updated == nil {
		h.notFound(w, r, "Note")
		return
	}
	h.writeJSON(w, r, http.StatusOK, updated)
}

func (h *handler) pinNote(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !h.decode(w, r, &req) {
		return
	}
	note, err := h.deps.Store.Notes.SetPinned(r.Context(), chi.URLParam(r, "id"), req.Pinned)
	if err != nil {
		h.handleError(w, r, err, "Failed to pin note")
		return
	}
	if note == nil {
		h.notFound(w, r, "Note")
		return
	}
	h.writeJSON(w, r, http.StatusOK, note)
}

func (h *handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Store.Notes.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err, "Failed to delete note")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) exportNotes(w http.ResponseWriter, r *http.Request) {
	md, err := h.deps.Store.Notes.ExportMarkdown(r.Context())
	if err != nil {
		h.handleError(w, r, err, "Failed to export notes")
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="yougen-notes.md"`)
		_, _ = w.Write([]byte(md))
	case "html":
		var body bytes.Buffer
		if err := exportRenderer.Convert([]byte(md), &body); err != nil {
			h.handleError(w, r, err, "Failed to render notes")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>yougen notes</title></head><body>\n"))
		_, _ = w.Write(body.Bytes())
		_, _ = w.Write([]byte("</body></html>\n"))
	default:
		h.writeError(w, r, http.StatusBadRequest, "format must be markdown or html")
	}
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	notes, err := h.deps.Store.Notes.History(r.Context())
	if err != nil {
		h.handleError(w, r, err, "Failed to load history")
		return
	}
	chats, err := h.deps.Store.Chats.History(r.Context())
	if err != nil {
		h.handleError(w, r, err, "Failed to load history")
		return
	}
	h.writeJSON(w, r, http.StatusOK, HistoryResponse{Notes: notes, Chats: chats})
}
