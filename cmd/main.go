package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doghouse/muttmix/internal/adapters/http/api"
	"github.com/doghouse/muttmix/internal/adapters/http/docs"
	"github.com/doghouse/muttmix/internal/adapters/logstore"
	app "github.com/doghouse/muttmix/internal/app"
	"github.com/doghouse/muttmix/internal/config"
	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// Logger isn't available yet, write to stderr directly.
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	resultTime, err := cfg.ParsedResultTime()
	if err != nil {
		log.Error(ctx, "invalid result_time", logger.String("result_time", cfg.ResultTime), logger.Error(err))
		return
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithAnswerLoader(answers.New(cfg.AnswerFile)),
		app.WithSubmissionLog(logstore.NewSubmissionLog(cfg.SubmissionLog)),
		app.WithVoteLog(logstore.NewVoteLog(cfg.VoteLog)),
		app.WithResultTime(resultTime),
		app.WithVotingWindow(cfg.VotingWindow()),
	)

	// Fail fast on a missing or malformed answer table.
	set, err := svc.AnswerSet(ctx)
	if err != nil {
		log.Error(ctx, "answer table unusable", logger.String("answer_file", cfg.AnswerFile), logger.Error(err))
		return
	}
	log.Info(ctx, "answer table loaded", logger.String("answer_file", cfg.AnswerFile), logger.Int("breeds", set.Len()))

	// HTTP mux and routes.
	mux := http.NewServeMux()

	docs.Register(ctx, mux)

	apiServer := api.NewServer(svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
