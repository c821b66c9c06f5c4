// Package api declares the JSON route layer over the contest service. It is
// deliberately thin: every handler validates transport concerns and delegates
// to the Dependencies bundle, which the app service implements.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/doghouse/muttmix/internal/app"
	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/internal/domain/model"
	"github.com/doghouse/muttmix/internal/domain/scoring"
	"github.com/doghouse/muttmix/internal/domain/votes"
)

// Dependencies bundles the operations handlers need. Keeping it an interface
// decouples the route layer from the app package's concrete service.
type Dependencies interface {
	AnswerSet(ctx context.Context) (*answers.Set, error)
	ReloadAnswerSet(ctx context.Context) (*answers.Set, error)

	SubmitGuess(ctx context.Context, name, newbreed string, percentages map[string]float64) (model.Submission, error)
	Guesses(ctx context.Context) ([]app.Guess, bool, error)
	Leaderboard(ctx context.Context) ([]scoring.Row, bool, error)
	Suggestions(ctx context.Context) ([]string, error)

	CastVote(ctx context.Context, voter, choice string) (model.Vote, error)
	TallyVotes(ctx context.Context) (votes.Result, bool, error)

	ResultTime() time.Time
	ResultsAvailable() bool
	VotingOpen() bool

	GetStats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the contest API.
type Server struct {
	breeds      *BreedsHandler
	guesses     *GuessesHandler
	leaderboard *LeaderboardHandler
	suggestions *SuggestionsHandler
	votes       *VotesHandler
	admin       *AdminHandler
	stats       *StatsHandler
	health      *HealthHandler
}

// NewServer creates the API server with all handlers.
func NewServer(deps Dependencies, maxLeaderboardLimit int) *Server {
	return &Server{
		breeds:      NewBreedsHandler(deps),
		guesses:     NewGuessesHandler(deps),
		leaderboard: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		suggestions: NewSuggestionsHandler(deps),
		votes:       NewVotesHandler(deps),
		admin:       NewAdminHandler(deps),
		stats:       NewStatsHandler(deps),
		health:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.stats.HandleStats, "stats"))
	mux.HandleFunc("/breeds", MetricsMiddleware(s.breeds.HandleBreeds, "breeds"))
	mux.HandleFunc("/guesses", MetricsMiddleware(s.guesses.HandleGuesses, "guesses"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboard.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/suggestions", MetricsMiddleware(s.suggestions.HandleGetSuggestions, "suggestions"))
	mux.HandleFunc("/votes", MetricsMiddleware(s.votes.HandlePostVote, "votes"))
	mux.HandleFunc("/votes/tally", MetricsMiddleware(s.votes.HandleGetTally, "tally"))
	mux.HandleFunc("/admin/answers/reload", MetricsMiddleware(s.admin.HandleReloadAnswers, "admin_reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
