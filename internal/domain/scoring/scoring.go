// Package scoring turns the raw submission log into the ranked, award-marked
// leaderboard. The whole computation is a pure function of the log and the
// answer set; it is recomputed from scratch on every read.
package scoring

import (
	"sort"
	"strings"

	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/internal/domain/approx"
	"github.com/doghouse/muttmix/internal/domain/model"
)

// Award labels.
const (
	labelGrandChamp  = "Grand Champion!"
	labelCowardChamp = "Coward Champ"
	labelCatLover    = "Most misses"
	labelUltimate    = "Ultimate Champ!!"
)

const fullAllocation = 100.0

// Row is one derived leaderboard entry. Rows are never persisted.
type Row struct {
	Name         string             `json:"name"`
	NewBreed     string             `json:"newbreed"`
	ResponseTime string             `json:"response_time"`
	Percentages  map[string]float64 `json:"percentages"`
	KLScore      float64            `json:"kl_score"`
	BreedID      int                `json:"breed_id"`
	Misses       int                `json:"misses"`
	GrandChamp   bool               `json:"grand_champ"`
	CowardChamp  bool               `json:"coward_champ"`
	CatLover     bool               `json:"cat_lover"`
	Award        string             `json:"award"`
}

// Dedupe keeps the latest submission per contestant. Later response times
// win; equal timestamps resolve to the later log record. The survivors come
// back ordered by (response time, name) for a deterministic pre-reveal view.
func Dedupe(subs []model.Submission) []model.Submission {
	latest := make(map[string]model.Submission, len(subs))
	for _, sub := range subs {
		if prev, ok := latest[sub.Name]; !ok || sub.Supersedes(prev) {
			latest[sub.Name] = sub
		}
	}

	out := make([]model.Submission, 0, len(latest))
	for _, sub := range latest {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ResponseTime != out[j].ResponseTime {
			return out[i].ResponseTime < out[j].ResponseTime
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Normalize scales a contestant's allocations so they sum to 100 across the
// candidate tags. A zero-sum record normalizes to all-zero: the write path
// rejects those, but historic logs may carry them and must not crash a read.
func Normalize(percentages map[string]float64, set *answers.Set) map[string]float64 {
	sum := 0.0
	for _, tag := range set.Tags() {
		sum += percentages[tag]
	}

	normalized := make(map[string]float64, set.Len())
	for _, tag := range set.Tags() {
		if sum <= 0 {
			normalized[tag] = 0
			continue
		}
		normalized[tag] = percentages[tag] / sum * fullAllocation
	}
	return normalized
}

// ComputeLeaderboard derives scored, award-marked rows from the submission
// log, ordered best guess first. Returns nil for an empty log; the caller
// distinguishes "no submissions yet" from an empty result.
func ComputeLeaderboard(subs []model.Submission, set *answers.Set) []Row {
	survivors := Dedupe(subs)
	if len(survivors) == 0 {
		return nil
	}

	rows := make([]Row, len(survivors))
	for i, sub := range survivors {
		rows[i] = scoreRow(sub, set)
	}
	markAwards(rows)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].KLScore != rows[j].KLScore {
			return rows[i].KLScore < rows[j].KLScore
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// scoreRow computes the per-contestant metrics against the answer set.
//
// KLScore is the historical name for the sum of absolute deviations between
// the guess and the answer. It is not a KL divergence; past leaderboards
// were ranked with this exact formula, so it stays.
func scoreRow(sub model.Submission, set *answers.Set) Row {
	normalized := Normalize(sub.Percentages, set)

	row := Row{
		Name:         sub.Name,
		NewBreed:     sub.NewBreed,
		ResponseTime: sub.ResponseTime,
		Percentages:  normalized,
	}
	for _, entry := range set.Entries() {
		guess := normalized[entry.Tag]
		row.KLScore += abs(guess - entry.Fraction)

		if guess <= 0 {
			continue
		}
		if entry.Fraction > 0 {
			row.BreedID++
		} else {
			// False positive: allocated to a breed that is not in the dog.
			row.BreedID--
			row.Misses++
		}
	}
	return row
}

// markAwards flags champions over the full row set. Ties are not broken:
// every row matching the extreme value gets the award. A row that is both
// grand and coward champ gets the ultimate label instead of a concatenation.
func markAwards(rows []Row) {
	minKL := rows[0].KLScore
	maxBreedID := rows[0].BreedID
	maxMisses := rows[0].Misses
	for _, row := range rows[1:] {
		if row.KLScore < minKL {
			minKL = row.KLScore
		}
		if row.BreedID > maxBreedID {
			maxBreedID = row.BreedID
		}
		if row.Misses > maxMisses {
			maxMisses = row.Misses
		}
	}

	for i := range rows {
		row := &rows[i]
		row.GrandChamp = approx.Equal(row.KLScore, minKL)
		row.CowardChamp = row.BreedID == maxBreedID
		row.CatLover = row.Misses == maxMisses

		if row.GrandChamp && row.CowardChamp {
			row.Award = labelUltimate
			continue
		}
		var parts []string
		if row.GrandChamp {
			parts = append(parts, labelGrandChamp)
		}
		if row.CowardChamp {
			parts = append(parts, labelCowardChamp)
		}
		if row.CatLover {
			parts = append(parts, labelCatLover)
		}
		row.Award = strings.Join(parts, " ")
	}
}

// Suggestions harvests the deduplicated pool of non-empty new-breed ideas
// from the leaderboard rows, sorted for determinism. This set is the valid
// choice list for the follow-up vote.
func Suggestions(rows []Row) []string {
	seen := make(map[string]bool, len(rows))
	var out []string
	for _, row := range rows {
		idea := strings.TrimSpace(row.NewBreed)
		if idea == "" || seen[idea] {
			continue
		}
		seen[idea] = true
		out = append(out, idea)
	}
	sort.Strings(out)
	return out
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
