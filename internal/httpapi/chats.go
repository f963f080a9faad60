package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
	"github.com/yougen/yougen/internal/youtube"
)

type createChatRequest struct {
	ResourceID string `json:"resourceId"`
	Title      string `json:"title"`
}

type createChatResponse struct {
	ID string `json:"id"`
}

type askRequest struct {
	ResourceID     string             `json:"resourceId"`
	Message        string             `json:"message"`
	Language       string             `json:"language"`
	VideoTimestamp *youtube.Timestamp `json:"videoTimestamp"`
}

func (h *handler) listChats(w http.ResponseWriter, r *http.Request) {
	var (
		chats []store.Chat
		err   error
	)
	if resourceID := r.URL.Query().Get("resourceId"); resourceID != "" {
		chats, err = h.deps.Store.Chats.ListByResource(r.Context(), resourceID)
	} else {
		chats, err = h.deps.Store.Chats.Recent(r.Context(), 0)
	}
	if err != nil {
		h.handleError(w, r, err, "Failed to list chats")
		return
	}
	h.writeJSON(w, r, http.StatusOK, chats)
}

func (h *handler) createChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	id, err := h.deps.Store.Chats.GetOrCreate(r.Context(), req.ResourceID, req.Title)
	if err != nil {
		h.handleError(w, r, err, "Failed to create chat")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, createChatResponse{ID: id})
}

func (h *handler) getChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.deps.Store.Chats.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err, "Failed to load chat")
		return
	}
	if chat == nil {
		h.notFound(w, r, "Chat")
		return
	}
	h.writeJSON(w, r, http.StatusOK, chat)
}

func (h *handler) deleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Store.Chats.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err, "Failed to delete chat")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) appendMessage(w http.ResponseWriter, r *http.Request) {
	var msg store.Message
	if !h.decode(w, r, &msg) {
		return
	}
	stored, err := h.deps.Store.Chats.AppendMessage(r.Context(), chi.URLParam(r, "id"), msg)
	if err != nil {
		h.handleError(w, r, err, "Failed to append message")
		return
	}
	if stored == nil {
		h.notFound(w, r, "Chat")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, stored)
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	if h.deps.Chat == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}
	var req askRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.deps.Chat.Ask(r.Context(), services.AskInput{
		ResourceID:     req.ResourceID,
		Message:        req.Message,
		Language:       req.Language,
		VideoTimestamp: req.VideoTimestamp,
	})
	if err != nil {
		h.handleError(w, r, err, "Failed to process chat request")
		return
	}
	h.writeJSON(w, r, http.StatusOK, res)
}

func (h *handler) saveMessageAsNote(w http.ResponseWriter, r *http.Request) {
	note, err := h.deps.Notes.SaveMessageAsNote(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "messageID"))
	if err != nil {
		h.handleError(w, r, err, "Failed to save message as note")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, note)
}
