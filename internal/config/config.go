// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel errors.
package config

import (
	"time"
)

// Default contest policy values.
const (
	defaultVotingWindowMinutes = 24 * 60
	defaultMaxLeaderboardLimit = 100
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AnswerFile points at the ground-truth breed table (.csv or .xlsx).
	AnswerFile string `koanf:"answer_file"`

	// SubmissionLog is the append-only JSONL guess log.
	SubmissionLog string `koanf:"submission_log"`

	// VoteLog is the append-only CSV new-breed vote log.
	VoteLog string `koanf:"vote_log"`

	// ResultTime is the RFC3339 reveal deadline. Scores stay hidden before it.
	ResultTime string `koanf:"result_time"`

	// VotingWindowMinutes bounds the suggestion vote after ResultTime.
	VotingWindowMinutes int `koanf:"voting_window_minutes"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		AnswerFile:          "data/answers.csv",
		SubmissionLog:       "data/results.json",
		VoteLog:             "data/votes.csv",
		ResultTime:          "",
		VotingWindowMinutes: defaultVotingWindowMinutes,
		MaxLeaderboardLimit: defaultMaxLeaderboardLimit,
	}
}

// ParsedResultTime returns the reveal deadline, or the zero time when unset
// (results immediately visible).
func (c *Config) ParsedResultTime() (time.Time, error) {
	if c.ResultTime == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, c.ResultTime)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// VotingWindow returns the voting window as a duration.
func (c *Config) VotingWindow() time.Duration {
	return time.Duration(c.VotingWindowMinutes) * time.Minute
}
