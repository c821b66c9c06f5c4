package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/doghouse/muttmix/internal/app"
)

// GuessesHandler serves the guess write path and the pre-reveal read view.
type GuessesHandler struct {
	deps Dependencies
}

// NewGuessesHandler creates a new guesses handler.
func NewGuessesHandler(deps Dependencies) *GuessesHandler {
	return &GuessesHandler{deps: deps}
}

// guessRequest mirrors the POST /guesses body.
type guessRequest struct {
	Name        string             `json:"name"`
	NewBreed    string             `json:"newbreed"`
	Percentages map[string]float64 `json:"percentages"`
}

func (g guessRequest) validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("missing name")
	}
	if len(g.Percentages) == 0 {
		return errors.New("missing percentages")
	}
	return nil
}

// HandleGuesses handles POST /guesses (submit) and GET /guesses (view).
func (h *GuessesHandler) HandleGuesses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.post(w, r)
	case http.MethodGet:
		h.get(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *GuessesHandler) post(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_guess"
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	sub, err := h.deps.SubmitGuess(r.Context(), req.Name, req.NewBreed, req.Percentages)
	switch {
	case errors.Is(err, app.ErrEmptySubmission):
		writeError(w, http.StatusBadRequest, "empty_submission", err)
		return
	case errors.Is(err, app.ErrUnknownBreed):
		writeError(w, http.StatusBadRequest, "unknown_breed", err)
		return
	case errors.Is(err, app.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, "invalid_submission", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status":        "recorded",
		"id":            sub.ID,
		"response_time": sub.ResponseTime,
	})
}

func (h *GuessesHandler) get(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_guesses"
	guesses, ok, err := h.deps.Guesses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "no_submissions"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"guesses": guesses})
}
