package scoring_test

import (
	"testing"

	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/internal/domain/approx"
	"github.com/doghouse/muttmix/internal/domain/model"
	"github.com/doghouse/muttmix/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// loadSet builds an answer set from CSV via the real loader so tests
// exercise the same normalization path as production.
func loadSet(t *testing.T, csv string) *answers.Set {
	t.Helper()
	// Inline fixture through the loader's exported surface.
	set, err := answers.Parse([]byte(csv))
	if err != nil {
		t.Fatalf("parse answers: %v", err)
	}
	return set
}

func sub(name, newbreed, ts string, pct map[string]float64) model.Submission {
	return model.Submission{Name: name, NewBreed: newbreed, ResponseTime: ts, Percentages: pct}
}

func TestDedupe(t *testing.T) {
	Convey("Given multiple submissions from the same contestant", t, func() {
		subs := []model.Submission{
			sub("alice", "A-1", "2022-02-19T10:00:00Z", map[string]float64{"beagle": 100}),
			sub("bob", "B-1", "2022-02-19T10:30:00Z", map[string]float64{"pug": 100}),
			sub("alice", "A-2", "2022-02-19T12:00:00Z", map[string]float64{"pug": 100}),
		}

		Convey("When deduplicating", func() {
			out := scoring.Dedupe(subs)

			Convey("Then only the latest record per name survives", func() {
				So(len(out), ShouldEqual, 2)
				byName := map[string]model.Submission{}
				for _, s := range out {
					byName[s.Name] = s
				}
				So(byName["alice"].NewBreed, ShouldEqual, "A-2")
				So(byName["bob"].NewBreed, ShouldEqual, "B-1")
			})

			Convey("Then survivors are ordered by response time", func() {
				So(out[0].Name, ShouldEqual, "bob")
				So(out[1].Name, ShouldEqual, "alice")
			})
		})

		Convey("When two records share a timestamp", func() {
			dup := []model.Submission{
				sub("alice", "first", "2022-02-19T10:00:00Z", nil),
				sub("alice", "second", "2022-02-19T10:00:00Z", nil),
			}
			out := scoring.Dedupe(dup)

			Convey("Then the later log record wins", func() {
				So(len(out), ShouldEqual, 1)
				So(out[0].NewBreed, ShouldEqual, "second")
			})
		})
	})
}

func TestNormalize(t *testing.T) {
	set := loadSet(t, "Beagle,60,x\nPug,40,x\n")

	Convey("Given raw allocations that do not sum to 100", t, func() {
		Convey("When normalizing a partial allocation", func() {
			got := scoring.Normalize(map[string]float64{"beagle": 30, "pug": 10}, set)

			Convey("Then percentages rescale to sum 100", func() {
				So(got["beagle"], ShouldAlmostEqual, 75)
				So(got["pug"], ShouldAlmostEqual, 25)
			})
		})

		Convey("When normalizing an oversubscribed allocation", func() {
			got := scoring.Normalize(map[string]float64{"beagle": 150, "pug": 50}, set)

			sum := got["beagle"] + got["pug"]
			So(approx.Equal(sum, 100), ShouldBeTrue)
		})

		Convey("When normalizing a zero-sum allocation", func() {
			got := scoring.Normalize(map[string]float64{"beagle": 0, "pug": 0}, set)

			Convey("Then the defensive all-zero row comes back instead of a crash", func() {
				So(got["beagle"], ShouldEqual, 0)
				So(got["pug"], ShouldEqual, 0)
			})
		})
	})
}

func TestComputeLeaderboard(t *testing.T) {
	set := loadSet(t, "Beagle,60,x\nPug,40,x\n")

	Convey("Given the two-row award scenario", t, func() {
		subs := []model.Submission{
			sub("rowA", "Beaglepug", "2022-02-19T10:00:00Z", map[string]float64{"beagle": 60, "pug": 40}),
			sub("rowB", "Megabeagle", "2022-02-19T11:00:00Z", map[string]float64{"beagle": 100}),
		}

		Convey("When computing the leaderboard", func() {
			rows := scoring.ComputeLeaderboard(subs, set)

			Convey("Then the perfect guess ranks first with score zero", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Name, ShouldEqual, "rowA")
				So(rows[0].KLScore, ShouldAlmostEqual, 0)
				So(rows[0].BreedID, ShouldEqual, 2)
			})

			Convey("Then the all-in guess pays for both deviations", func() {
				So(rows[1].Name, ShouldEqual, "rowB")
				So(rows[1].KLScore, ShouldAlmostEqual, 80)
				So(rows[1].BreedID, ShouldEqual, 1)
			})

			Convey("Then rowA is the ultimate champ and rowB gets nothing", func() {
				So(rows[0].GrandChamp, ShouldBeTrue)
				So(rows[0].CowardChamp, ShouldBeTrue)
				So(rows[0].Award, ShouldEqual, "Ultimate Champ!!")
				So(rows[1].GrandChamp, ShouldBeFalse)
				So(rows[1].CowardChamp, ShouldBeFalse)
			})
		})

		Convey("Then recomputation is deterministic", func() {
			first := scoring.ComputeLeaderboard(subs, set)
			second := scoring.ComputeLeaderboard(subs, set)
			So(second, ShouldResemble, first)
		})
	})

	Convey("Given an empty log", t, func() {
		So(scoring.ComputeLeaderboard(nil, set), ShouldBeNil)
	})
}

func TestFalsePositivesAndCatLover(t *testing.T) {
	// Chow is not in the dog.
	set := loadSet(t, "Beagle,60,x\nPug,40,x\nChow,0,x\n")

	Convey("Given a contestant who guesses a breed that is not in the dog", t, func() {
		subs := []model.Submission{
			sub("safe", "", "2022-02-19T10:00:00Z", map[string]float64{"beagle": 60, "pug": 40}),
			sub("wild", "", "2022-02-19T11:00:00Z", map[string]float64{"beagle": 50, "pug": 25, "chow": 25}),
		}

		rows := scoring.ComputeLeaderboard(subs, set)
		byName := map[string]scoring.Row{}
		for _, r := range rows {
			byName[r.Name] = r
		}

		Convey("Then the false positive costs a breed_id point and counts a miss", func() {
			So(byName["wild"].BreedID, ShouldEqual, 1) // +2 hits, -1 false positive
			So(byName["wild"].Misses, ShouldEqual, 1)
			So(byName["safe"].BreedID, ShouldEqual, 2)
			So(byName["safe"].Misses, ShouldEqual, 0)
		})

		Convey("Then the most-misses row is the cat lover", func() {
			So(byName["wild"].CatLover, ShouldBeTrue)
			So(byName["safe"].CatLover, ShouldBeFalse)
			So(byName["wild"].Award, ShouldContainSubstring, "Most misses")
		})

		Convey("Then normalization holds for every row", func() {
			for _, r := range rows {
				sum := 0.0
				for _, v := range r.Percentages {
					sum += v
				}
				So(approx.Equal(sum, 100), ShouldBeTrue)
			}
		})
	})
}

func TestHistoricZeroSumRow(t *testing.T) {
	set := loadSet(t, "Beagle,60,x\nPug,40,x\n")

	Convey("Given a historic zero-sum record in the log", t, func() {
		subs := []model.Submission{
			sub("ghost", "", "2022-02-19T10:00:00Z", map[string]float64{"beagle": 0, "pug": 0}),
			sub("alice", "", "2022-02-19T11:00:00Z", map[string]float64{"beagle": 60, "pug": 40}),
		}

		Convey("When computing the leaderboard", func() {
			rows := scoring.ComputeLeaderboard(subs, set)

			Convey("Then the zero row scores as all-zero instead of crashing", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Name, ShouldEqual, "alice")
				So(rows[1].Name, ShouldEqual, "ghost")
				So(rows[1].KLScore, ShouldAlmostEqual, 100) // 60 + 40 missed entirely
				So(rows[1].BreedID, ShouldEqual, 0)
			})
		})
	})
}

func TestSuggestions(t *testing.T) {
	Convey("Given leaderboard rows with duplicate and empty ideas", t, func() {
		rows := []scoring.Row{
			{Name: "a", NewBreed: "Puggle"},
			{Name: "b", NewBreed: " Labraheeler "},
			{Name: "c", NewBreed: "Puggle"},
			{Name: "d", NewBreed: ""},
		}

		Convey("When harvesting suggestions", func() {
			got := scoring.Suggestions(rows)

			Convey("Then the pool is deduplicated, trimmed and sorted", func() {
				So(got, ShouldResemble, []string{"Labraheeler", "Puggle"})
			})
		})
	})
}
