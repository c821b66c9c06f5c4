package logstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/doghouse/muttmix/internal/domain/model"
)

// Reserved metadata keys in a submission record; every other key must be a
// known breed tag carrying a numeric allocation.
const (
	keyID           = "id"
	keyName         = "name"
	keyNewBreed     = "newbreed"
	keyResponseTime = "response_time"
)

// FileSubmissionLog stores one flat JSON object per line, byte-compatible
// with the original results.json format (name, newbreed, response_time plus
// one numeric field per breed tag; id is additive).
type FileSubmissionLog struct {
	mu   sync.Mutex
	path string
}

// NewSubmissionLog creates a JSONL submission store at path. The file is
// created on first append.
func NewSubmissionLog(path string) *FileSubmissionLog {
	return &FileSubmissionLog{path: path}
}

// Append marshals sub as one line and appends it with a single write.
func (s *FileSubmissionLog) Append(_ context.Context, sub model.Submission) error {
	record := make(map[string]any, len(sub.Percentages)+4)
	if sub.ID != "" {
		record[keyID] = sub.ID
	}
	record[keyName] = sub.Name
	record[keyNewBreed] = sub.NewBreed
	record[keyResponseTime] = sub.ResponseTime
	for tag, pct := range sub.Percentages {
		record[tag] = pct
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	defer f.Close()
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}
	return nil
}

// ReadAll parses every stored record. Percentage keys are validated against
// validTags; unknown keys fail the read, and tags absent from a record read
// as zero.
func (s *FileSubmissionLog) ReadAll(_ context.Context, validTags []string) ([]model.Submission, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissingLog
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}
	defer f.Close()

	known := make(map[string]bool, len(validTags))
	for _, tag := range validTags {
		known[tag] = true
	}

	var subs []model.Submission
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		sub, err := parseSubmission(line, known)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrCorruptLog, lineNo, err)
		}
		subs = append(subs, sub)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptLog, err)
	}
	return subs, nil
}

func parseSubmission(line []byte, known map[string]bool) (model.Submission, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return model.Submission{}, err
	}

	sub := model.Submission{Percentages: make(map[string]float64, len(known))}
	for key, val := range raw {
		switch key {
		case keyID, keyName, keyNewBreed, keyResponseTime:
			str, ok := val.(string)
			if !ok {
				return model.Submission{}, fmt.Errorf("field %q is not a string", key)
			}
			switch key {
			case keyID:
				sub.ID = str
			case keyName:
				sub.Name = str
			case keyNewBreed:
				sub.NewBreed = str
			case keyResponseTime:
				sub.ResponseTime = str
			}
		default:
			if !known[key] {
				return model.Submission{}, fmt.Errorf("unknown breed tag %q", key)
			}
			num, ok := val.(float64)
			if !ok {
				return model.Submission{}, fmt.Errorf("allocation for %q is not numeric", key)
			}
			sub.Percentages[key] = num
		}
	}
	if sub.Name == "" {
		return model.Submission{}, fmt.Errorf("record has no name")
	}
	if sub.ResponseTime == "" {
		return model.Submission{}, fmt.Errorf("record has no response_time")
	}
	return sub, nil
}
