// Package model contains domain records passed between layers.
package model

// Submission is one appended guess record. A contestant may submit any
// number of times; only the latest record per name survives deduplication.
type Submission struct {
	ID           string             // record id, assigned on append
	Name         string             // contestant name, dedup key
	NewBreed     string             // free-text "new breed" suggestion
	ResponseTime string             // RFC3339; fixed-width, so lexicographic order is time order
	Percentages  map[string]float64 // breed tag -> raw (unnormalized) percentage
}

// Supersedes reports whether s replaces prev as the surviving record for a
// contestant. Later response times win; an equal timestamp means s was
// appended later and wins, keeping dedup deterministic in log order.
func (s Submission) Supersedes(prev Submission) bool {
	return s.ResponseTime >= prev.ResponseTime
}

// Vote is one appended ballot for a new-breed suggestion. Only the latest
// vote per voter counts.
type Vote struct {
	Voter        string
	ResponseTime string // RFC3339
	Choice       string // must match a harvested Submission.NewBreed
}

// Supersedes reports whether v replaces prev as the counted vote for a
// voter, with the same convention as submissions.
func (v Vote) Supersedes(prev Vote) bool {
	return v.ResponseTime >= prev.ResponseTime
}
