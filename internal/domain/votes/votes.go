// Package votes reduces the append-only ballot log to a plurality tally
// over the new-breed suggestion pool. Tally is a pure function of the log it
// is given; choice validation and window policy belong to the caller.
package votes

import (
	"sort"

	"github.com/doghouse/muttmix/internal/domain/model"
)

// Result is the derived tally: counts per choice and every choice tied at
// the maximum count.
type Result struct {
	Counts  map[string]int `json:"counts"`
	Winners []string       `json:"winners"`
}

// Tally deduplicates ballots to the latest per voter (same last-write-wins
// convention as submissions) and counts the survivors. All choices at the
// max count win; ties are not broken.
func Tally(ballots []model.Vote) Result {
	latest := make(map[string]model.Vote, len(ballots))
	for _, v := range ballots {
		if prev, ok := latest[v.Voter]; !ok || v.Supersedes(prev) {
			latest[v.Voter] = v
		}
	}

	counts := make(map[string]int, len(latest))
	for _, v := range latest {
		counts[v.Choice]++
	}

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	var winners []string
	for choice, n := range counts {
		if n == max {
			winners = append(winners, choice)
		}
	}
	sort.Strings(winners)

	return Result{Counts: counts, Winners: winners}
}
