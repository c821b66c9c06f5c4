package api

import (
	"net/http"
)

// SuggestionsHandler serves the harvested new-breed idea pool.
type SuggestionsHandler struct {
	deps Dependencies
}

// NewSuggestionsHandler creates a new suggestions handler.
func NewSuggestionsHandler(deps Dependencies) *SuggestionsHandler {
	return &SuggestionsHandler{deps: deps}
}

// HandleGetSuggestions handles GET /suggestions requests.
func (h *SuggestionsHandler) HandleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_suggestions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	pool, err := h.deps.Suggestions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if pool == nil {
		pool = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": pool})
}
