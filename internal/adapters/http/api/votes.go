package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doghouse/muttmix/internal/app"
)

// VotesHandler serves the new-breed ballot write path and the tally view.
type VotesHandler struct {
	deps Dependencies
}

// NewVotesHandler creates a new votes handler.
func NewVotesHandler(deps Dependencies) *VotesHandler {
	return &VotesHandler{deps: deps}
}

// voteRequest mirrors the POST /votes body.
type voteRequest struct {
	Voter  string `json:"voter"`
	Choice string `json:"choice"`
}

func (v voteRequest) validate() error {
	switch {
	case strings.TrimSpace(v.Voter) == "":
		return errors.New("missing voter")
	case strings.TrimSpace(v.Choice) == "":
		return errors.New("missing choice")
	}
	return nil
}

// HandlePostVote handles POST /votes requests.
func (h *VotesHandler) HandlePostVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	vote, err := h.deps.CastVote(r.Context(), req.Voter, req.Choice)
	switch {
	case errors.Is(err, app.ErrVotingClosed):
		writeError(w, http.StatusConflict, "voting_closed", err)
		return
	case errors.Is(err, app.ErrInvalidChoice), errors.Is(err, app.ErrInvalidVoter):
		writeError(w, http.StatusBadRequest, "invalid_vote", err)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":        "recorded",
		"response_time": vote.ResponseTime,
	})
}

// HandleGetTally handles GET /votes/tally requests, gated like the
// leaderboard: no peeking at the vote before the reveal.
func (h *VotesHandler) HandleGetTally(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tally"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	if !h.deps.ResultsAvailable() {
		writeJSON(w, http.StatusForbidden, map[string]any{
			"code":    "results_hidden",
			"message": "you have to wait until " + humanize.Time(h.deps.ResultTime()) + "!",
		})
		return
	}

	res, ok, err := h.deps.TallyVotes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"status": "no_votes"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"counts":      res.Counts,
		"winners":     res.Winners,
		"voting_open": h.deps.VotingOpen(),
	})
}
