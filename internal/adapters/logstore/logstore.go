// Package logstore implements the append-only log files behind the contest:
// a JSONL submission log and a CSV vote log. Appends are serialized with a
// per-store mutex and written with a single newline-terminated write, so
// concurrent writers never interleave partial records. Reads parse the whole
// log; records are assumed clean once accepted, so a malformed line aborts
// the read instead of being skipped.
package logstore

import (
	"context"

	"github.com/doghouse/muttmix/internal/domain/model"
)

// SubmissionLog is the append-only store of contestant guesses.
type SubmissionLog interface {
	// Append writes one submission record.
	Append(ctx context.Context, sub model.Submission) error
	// ReadAll parses every stored record, validating percentage keys
	// against validTags. A missing file is ErrMissingLog; a malformed or
	// unknown-key record is ErrCorruptLog.
	ReadAll(ctx context.Context, validTags []string) ([]model.Submission, error)
}

// VoteLog is the append-only store of new-breed ballots.
type VoteLog interface {
	Append(ctx context.Context, v model.Vote) error
	ReadAll(ctx context.Context) ([]model.Vote, error)
}
