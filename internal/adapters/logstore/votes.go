package logstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/doghouse/muttmix/internal/domain/model"
)

const voteFields = 3 // voter_name,response_time,choice

// FileVoteLog stores one headerless CSV row per ballot:
// voter_name,response_time,choice. Choices containing commas round-trip via
// standard CSV quoting.
type FileVoteLog struct {
	mu   sync.Mutex
	path string
}

// NewVoteLog creates a CSV vote store at path. The file is created on first
// append.
func NewVoteLog(path string) *FileVoteLog {
	return &FileVoteLog{path: path}
}

// Append writes one ballot row with a single write.
func (s *FileVoteLog) Append(_ context.Context, v model.Vote) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{v.Voter, v.ResponseTime, v.Choice}); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	return nil
}

// ReadAll parses every stored ballot. A missing file is ErrMissingLog.
func (s *FileVoteLog) ReadAll(_ context.Context) ([]model.Vote, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissingLog
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = voteFields
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}

	votes := make([]model.Vote, 0, len(rows))
	for i, row := range rows {
		if row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("%w: row %d has an empty voter or timestamp", ErrCorruptLog, i+1)
		}
		votes = append(votes, model.Vote{Voter: row[0], ResponseTime: row[1], Choice: row[2]})
	}
	return votes, nil
}
