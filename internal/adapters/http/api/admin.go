package api

import (
	"errors"
	"net/http"

	"github.com/doghouse/muttmix/internal/domain/answers"
)

// AdminHandler serves answer-set maintenance. The transport for uploading a
// replacement file lives outside this service; this endpoint re-reads the
// configured source after the file was swapped.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// HandleReloadAnswers handles POST /admin/answers/reload requests. A
// malformed table is reported with 422 and the previous set stays active.
func (h *AdminHandler) HandleReloadAnswers(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload_answers"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	set, err := h.deps.ReloadAnswerSet(r.Context())
	if errors.Is(err, answers.ErrMalformedAnswer) {
		writeError(w, http.StatusUnprocessableEntity, "malformed_answer", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "breeds": set.Len()})
}
