package httpapi

import "net/http"

func (h *handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.deps.Store.Settings.Load(r.Context())
	if err != nil {
		h.handleError(w, r, err, "Failed to load settings")
		return
	}
	h.writeJSON(w, r, http.StatusOK, settings)
}

// putSettings overwrites the whole record. Keys missing from the body take
// their default value.
func (h *handler) putSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.deps.Store.Settings.Defaults()
	if !h.decode(w, r, &settings) {
		return
	}
	if err := h.deps.Store.Settings.Save(r.Context(), settings); err != nil {
		h.handleError(w, r, err, "Failed to save settings")
		return
	}
	h.writeJSON(w, r, http.StatusOK, settings)
}

