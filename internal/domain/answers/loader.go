package answers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/doghouse/muttmix/internal/domain/approx"
)

// Each usable row needs breed, fraction, and at least one more column (the
// source workbook carries commentary there). Fewer columns means the wrong
// sheet was uploaded.
const minColumns = 3

// Loader is the owned cache around the answer table. Get memoizes the loaded
// Set for the configured path until Invalidate is called (admin re-upload).
// A failed load never evicts a previously cached Set.
type Loader struct {
	mu     sync.Mutex
	path   string
	cached *Set
}

// New creates a Loader for the given source path (.csv or .xlsx).
func New(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the configured source path.
func (l *Loader) Path() string {
	return l.path
}

// Get returns the cached Set, loading it on first use. Calling Get twice
// without Invalidate returns the identical object.
func (l *Loader) Get(_ context.Context) (*Set, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return l.cached, nil
	}
	set, err := load(l.path)
	if err != nil {
		return nil, err
	}
	l.cached = set
	return set, nil
}

// Invalidate clears the memoized Set so the next Get re-reads the source.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// Reload re-reads the source and swaps the cache only on success, so a
// malformed upload leaves the previously cached Set active.
func (l *Loader) Reload(_ context.Context) (*Set, error) {
	set, err := load(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.cached = set
	l.mu.Unlock()
	return set, nil
}

// Parse builds a Set from raw CSV bytes without touching the cache. Callers
// use it to validate a table before it replaces the source file, and tests
// use it for fixtures.
func Parse(data []byte) (*Set, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrMalformedAnswer, err)
	}
	return buildSet(rows)
}

// load reads and validates the answer table. Pure and idempotent.
func load(path string) (*Set, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	return buildSet(rows)
}

// readRows reads the raw tabular cells. The extension selects the reader:
// .xlsx/.xlsm via excelize (first sheet), anything else as CSV.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformedAnswer, path, err)
		}
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet: %w", ErrMalformedAnswer, err)
		}
		return rows, nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformedAnswer, path, err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1 // column count is validated per row below
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %w", ErrMalformedAnswer, err)
		}
		return rows, nil
	}
}

// buildSet validates rows and produces a Set.
//
// Fraction convention: both 0-1 and 0-100 sources are accepted. If the raw
// fractions sum to ~1 the loader scales by 100; otherwise the raw sum must
// already be ~100. The post-scaling invariant is always sum == 100 within
// 1e-6 relative tolerance.
func buildSet(rows [][]string) (*Set, error) {
	entries := make([]Entry, 0, len(rows))
	seen := make(map[string]string) // tag -> original breed name
	sum := 0.0

	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if len(row) < minColumns {
			return nil, fmt.Errorf("%w: row %d has %d columns, need at least %d", ErrMalformedAnswer, i+1, len(row), minColumns)
		}
		breed := strings.TrimSpace(row[0])
		raw := strings.TrimSpace(row[1])

		fraction, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			if i == 0 {
				// Header row: non-numeric fraction cell on the first line.
				continue
			}
			return nil, fmt.Errorf("%w: row %d fraction %q is not numeric", ErrMalformedAnswer, i+1, raw)
		}
		if fraction < 0 {
			return nil, fmt.Errorf("%w: row %d fraction %v is negative", ErrMalformedAnswer, i+1, fraction)
		}
		if breed == "" {
			return nil, fmt.Errorf("%w: row %d has an empty breed name", ErrMalformedAnswer, i+1)
		}

		tag := NormalizeTag(breed)
		if prev, dup := seen[tag]; dup {
			return nil, fmt.Errorf("%w: breeds %q and %q collide on tag %q", ErrMalformedAnswer, prev, breed, tag)
		}
		seen[tag] = breed

		entries = append(entries, Entry{Breed: breed, Fraction: fraction, Tag: tag})
		sum += fraction
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no usable rows", ErrMalformedAnswer)
	}

	if approx.Equal(sum, 1) {
		for i := range entries {
			entries[i].Fraction *= 100
		}
		sum *= 100
	}
	if !sumOK(sum) {
		return nil, fmt.Errorf("%w: fractions sum to %v, want 100", ErrMalformedAnswer, sum)
	}

	return newSet(entries), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
