package api

import (
	"net/http"
)

// BreedsHandler serves the candidate breed list derived from the answer set.
// Fractions are never exposed here; contestants only see the candidates.
type BreedsHandler struct {
	deps Dependencies
}

// NewBreedsHandler creates a new breeds handler.
func NewBreedsHandler(deps Dependencies) *BreedsHandler {
	return &BreedsHandler{deps: deps}
}

type breedEntry struct {
	Breed string `json:"breed"`
	Tag   string `json:"tag"`
}

// HandleBreeds handles GET /breeds requests.
func (h *BreedsHandler) HandleBreeds(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_breeds"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	set, err := h.deps.AnswerSet(r.Context())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "no_answer_set", Wrap(op, err))
		return
	}

	breeds := make([]breedEntry, 0, set.Len())
	for _, entry := range set.Entries() {
		breeds = append(breeds, breedEntry{Breed: entry.Breed, Tag: entry.Tag})
	}
	writeJSON(w, http.StatusOK, map[string]any{"breeds": breeds})
}
