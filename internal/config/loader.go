package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MUTTMIX_CONFIG is set
//  3. env (prefix MUTTMIX_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("MUTTMIX_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MUTTMIX_ADDR -> addr, MUTTMIX_VOTE_LOG -> vote_log.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("MUTTMIX_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "muttmix_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.AnswerFile == "" {
		return fmt.Errorf("%w: answer_file must not be empty", ErrInvalidConfig)
	}
	if c.SubmissionLog == "" || c.VoteLog == "" {
		return fmt.Errorf("%w: log paths must not be empty", ErrInvalidConfig)
	}
	if c.VotingWindowMinutes <= 0 {
		return fmt.Errorf("%w: voting_window_minutes must be positive", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if _, err := c.ParsedResultTime(); err != nil {
		return fmt.Errorf("%w: result_time must be RFC3339: %w", ErrInvalidConfig, err)
	}
	return nil
}
