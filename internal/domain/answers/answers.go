// Package answers loads and caches the ground-truth breed-percentage table.
package answers

import (
	"strings"

	"github.com/doghouse/muttmix/internal/domain/approx"
)

// Entry is one row of the answer table. Fraction is a percentage in [0,100];
// zero-fraction rows are still candidates (contestants can, wrongly, allocate
// to them).
type Entry struct {
	Breed    string  `json:"breed"`
	Fraction float64 `json:"fraction"`
	Tag      string  `json:"tag"`
}

// Set is the loaded, validated answer table. It is read-only after load; the
// ordered entries double as the candidate breed list.
type Set struct {
	entries []Entry
	byTag   map[string]int
}

// NormalizeTag derives the canonical breed tag: lowercase, spaces to
// underscores. Tags are the field names in the submission log.
func NormalizeTag(breed string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(breed)), " ", "_")
}

func newSet(entries []Entry) *Set {
	byTag := make(map[string]int, len(entries))
	for i, e := range entries {
		byTag[e.Tag] = i
	}
	return &Set{entries: entries, byTag: byTag}
}

// Entries returns the answer rows in source order.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Len returns the number of candidate breeds.
func (s *Set) Len() int {
	return len(s.entries)
}

// HasTag reports whether tag is a known candidate breed tag.
func (s *Set) HasTag(tag string) bool {
	_, ok := s.byTag[tag]
	return ok
}

// Fraction returns the answer percentage for tag, or 0 for unknown tags.
func (s *Set) Fraction(tag string) float64 {
	if i, ok := s.byTag[tag]; ok {
		return s.entries[i].Fraction
	}
	return 0
}

// Tags returns the candidate tags in source order.
func (s *Set) Tags() []string {
	tags := make([]string, len(s.entries))
	for i, e := range s.entries {
		tags[i] = e.Tag
	}
	return tags
}

// sumOK checks the post-scaling sum-to-100 invariant.
func sumOK(sum float64) bool {
	return approx.Equal(sum, 100)
}
