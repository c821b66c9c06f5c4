// Package app provides the core contest service that implements the
// dependencies required by the HTTP API: answer-set lifecycle, the guess and
// vote write paths with their validation, and the derived read views.
package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doghouse/muttmix/internal/adapters/logstore"
	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/internal/domain/model"
	"github.com/doghouse/muttmix/internal/domain/scoring"
	"github.com/doghouse/muttmix/internal/domain/votes"
	"github.com/doghouse/muttmix/pkg/logger"
	"github.com/doghouse/muttmix/pkg/metrics"
)

// Guess is the pre-reveal view of a surviving submission: deduplicated and
// normalized, but without scores or awards.
type Guess struct {
	Name         string             `json:"name"`
	NewBreed     string             `json:"newbreed"`
	ResponseTime string             `json:"response_time"`
	Percentages  map[string]float64 `json:"percentages"`
}

// Service wires the answer cache, the append-only logs and the derived
// computations. Every read recomputes from the logs; the only in-process
// state is the memoized answer set.
type Service struct {
	answers      *answers.Loader
	submissions  logstore.SubmissionLog
	ballots      logstore.VoteLog
	resultTime   time.Time
	votingWindow time.Duration
	now          func() time.Time
	log          logger.Logger
}

// New constructs a Service. The answer loader and both logs are required;
// passing them via options keeps construction uniform with the rest of the
// codebase.
func New(opts ...Option) *Service {
	s := &Service{
		votingWindow: 24 * time.Hour,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	return s
}

// AnswerSet returns the cached ground-truth table, loading it on first use.
func (s *Service) AnswerSet(ctx context.Context) (*answers.Set, error) {
	return s.answers.Get(ctx)
}

// InvalidateAnswerSet clears the answer cache; the next read reloads.
func (s *Service) InvalidateAnswerSet() {
	s.answers.Invalidate()
}

// ReloadAnswerSet re-reads the answer source after an admin upload. A
// malformed table is reported and leaves the previous set active.
func (s *Service) ReloadAnswerSet(ctx context.Context) (*answers.Set, error) {
	set, err := s.answers.Reload(ctx)
	if err != nil {
		metrics.RecordAnswerReloadFailure()
		s.log.Warn(ctx, "answer reload rejected", logger.Error(err))
		return nil, err
	}
	metrics.RecordAnswerReload()
	s.log.Info(ctx, "answer set reloaded", logger.Int("breeds", set.Len()))
	return set, nil
}

// SubmitGuess validates and appends one guess. Zero-sum allocations are
// rejected here so they never reach the log; unknown tags and negative
// values are rejected at the same boundary.
func (s *Service) SubmitGuess(ctx context.Context, name, newbreed string, percentages map[string]float64) (model.Submission, error) {
	set, err := s.answers.Get(ctx)
	if err != nil {
		return model.Submission{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		metrics.RecordSubmissionRejected("missing_name")
		return model.Submission{}, ErrInvalidSubmission
	}

	total := 0.0
	full := make(map[string]float64, set.Len())
	for _, tag := range set.Tags() {
		full[tag] = 0
	}
	for tag, pct := range percentages {
		if !set.HasTag(tag) {
			metrics.RecordSubmissionRejected("unknown_breed")
			return model.Submission{}, ErrUnknownBreed
		}
		if pct < 0 {
			metrics.RecordSubmissionRejected("negative_allocation")
			return model.Submission{}, ErrInvalidSubmission
		}
		full[tag] = pct
		total += pct
	}
	if total <= 0 {
		metrics.RecordSubmissionRejected("zero_sum")
		return model.Submission{}, ErrEmptySubmission
	}

	sub := model.Submission{
		ID:           uuid.NewString(),
		Name:         name,
		NewBreed:     strings.TrimSpace(newbreed),
		ResponseTime: s.now().UTC().Format(time.RFC3339),
		Percentages:  full,
	}
	if err := s.submissions.Append(ctx, sub); err != nil {
		return model.Submission{}, err
	}
	metrics.RecordSubmission()
	s.log.Info(ctx, "guess recorded", logger.String("name", name))
	return sub, nil
}

// readSubmissions loads the log, translating the missing-file case to the
// explicit "no data yet" state.
func (s *Service) readSubmissions(ctx context.Context, set *answers.Set) ([]model.Submission, bool, error) {
	subs, err := s.submissions.ReadAll(ctx, set.Tags())
	if errors.Is(err, logstore.ErrMissingLog) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return subs, len(subs) > 0, nil
}

// Guesses returns the deduplicated, normalized pre-reveal rows. ok is false
// when no submissions exist yet, which renders differently from an empty
// leaderboard.
func (s *Service) Guesses(ctx context.Context) ([]Guess, bool, error) {
	set, err := s.answers.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	subs, ok, err := s.readSubmissions(ctx, set)
	if err != nil || !ok {
		return nil, false, err
	}

	survivors := scoring.Dedupe(subs)
	out := make([]Guess, len(survivors))
	for i, sub := range survivors {
		out[i] = Guess{
			Name:         sub.Name,
			NewBreed:     sub.NewBreed,
			ResponseTime: sub.ResponseTime,
			Percentages:  scoring.Normalize(sub.Percentages, set),
		}
	}
	return out, true, nil
}

// Leaderboard recomputes the full scored ranking from the submission log.
// ok is false when the log is absent or empty.
func (s *Service) Leaderboard(ctx context.Context) ([]scoring.Row, bool, error) {
	set, err := s.answers.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	subs, ok, err := s.readSubmissions(ctx, set)
	if err != nil || !ok {
		return nil, false, err
	}

	start := time.Now()
	rows := scoring.ComputeLeaderboard(subs, set)
	metrics.RecordLeaderboardCompute(float64(time.Since(start).Microseconds()) / 1e3)
	metrics.UpdateLeaderboardRows(len(rows))
	return rows, true, nil
}

// Suggestions harvests the current new-breed idea pool, the valid choice
// set for votes. An absent submission log yields an empty pool.
func (s *Service) Suggestions(ctx context.Context) ([]string, error) {
	rows, ok, err := s.Leaderboard(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return scoring.Suggestions(rows), nil
}

// CastVote validates and appends one ballot. The choice must be a harvested
// suggestion and the voting window must be open.
func (s *Service) CastVote(ctx context.Context, voter, choice string) (model.Vote, error) {
	voter = strings.TrimSpace(voter)
	if voter == "" {
		metrics.RecordVoteRejected("missing_voter")
		return model.Vote{}, ErrInvalidVoter
	}
	if !s.VotingOpen() {
		metrics.RecordVoteRejected("window_closed")
		return model.Vote{}, ErrVotingClosed
	}

	pool, err := s.Suggestions(ctx)
	if err != nil {
		return model.Vote{}, err
	}
	valid := false
	for _, idea := range pool {
		if idea == choice {
			valid = true
			break
		}
	}
	if !valid {
		metrics.RecordVoteRejected("invalid_choice")
		return model.Vote{}, ErrInvalidChoice
	}

	v := model.Vote{
		Voter:        voter,
		ResponseTime: s.now().UTC().Format(time.RFC3339),
		Choice:       choice,
	}
	if err := s.ballots.Append(ctx, v); err != nil {
		return model.Vote{}, err
	}
	metrics.RecordVote()
	s.log.Info(ctx, "vote recorded", logger.String("voter", voter), logger.String("choice", choice))
	return v, nil
}

// TallyVotes recomputes the plurality tally from the vote log. ok is false
// when no ballots exist yet.
func (s *Service) TallyVotes(ctx context.Context) (votes.Result, bool, error) {
	ballots, err := s.ballots.ReadAll(ctx)
	if errors.Is(err, logstore.ErrMissingLog) {
		return votes.Result{}, false, nil
	}
	if err != nil {
		return votes.Result{}, false, err
	}
	if len(ballots) == 0 {
		return votes.Result{}, false, nil
	}

	start := time.Now()
	res := votes.Tally(ballots)
	metrics.RecordTallyCompute(float64(time.Since(start).Microseconds()) / 1e3)
	return res, true, nil
}

// ResultTime returns the reveal deadline; the zero time means results are
// always visible.
func (s *Service) ResultTime() time.Time {
	return s.resultTime
}

// ResultsAvailable reports whether scores and the tally may be shown.
func (s *Service) ResultsAvailable() bool {
	return s.resultTime.IsZero() || !s.now().Before(s.resultTime)
}

// VotingOpen reports whether now falls in [resultTime, resultTime+window).
// With no reveal deadline configured the vote never closes.
func (s *Service) VotingOpen() bool {
	if s.resultTime.IsZero() {
		return true
	}
	now := s.now()
	return !now.Before(s.resultTime) && now.Before(s.resultTime.Add(s.votingWindow))
}

// GetStats summarizes service state for the /stats endpoint.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"results_available": s.ResultsAvailable(),
		"voting_open":       s.VotingOpen(),
	}
	if !s.resultTime.IsZero() {
		stats["result_time"] = s.resultTime.Format(time.RFC3339)
		stats["voting_closes"] = s.resultTime.Add(s.votingWindow).Format(time.RFC3339)
	}

	if set, err := s.answers.Get(ctx); err == nil {
		stats["breeds"] = set.Len()
	}
	if rows, ok, err := s.Leaderboard(ctx); err == nil && ok {
		stats["contestants"] = len(rows)
		stats["suggestions"] = len(scoring.Suggestions(rows))
	} else {
		stats["contestants"] = 0
		stats["suggestions"] = 0
	}
	if res, ok, err := s.TallyVotes(ctx); err == nil && ok {
		total := 0
		for _, n := range res.Counts {
			total += n
		}
		stats["votes"] = total
	} else {
		stats["votes"] = 0
	}
	return stats
}
