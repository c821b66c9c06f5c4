package app

import (
	"time"

	"github.com/doghouse/muttmix/internal/adapters/logstore"
	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAnswerLoader sets the answer-set cache.
func WithAnswerLoader(l *answers.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.answers = l
		}
	}
}

// WithSubmissionLog sets the guess store.
func WithSubmissionLog(store logstore.SubmissionLog) Option {
	return func(s *Service) {
		if store != nil {
			s.submissions = store
		}
	}
}

// WithVoteLog sets the ballot store.
func WithVoteLog(store logstore.VoteLog) Option {
	return func(s *Service) {
		if store != nil {
			s.ballots = store
		}
	}
}

// WithResultTime sets the reveal deadline. The zero time means results are
// immediately visible.
func WithResultTime(t time.Time) Option {
	return func(s *Service) {
		s.resultTime = t
	}
}

// WithVotingWindow bounds the suggestion vote after the reveal.
func WithVotingWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.votingWindow = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
