package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/doghouse/muttmix/internal/adapters/logstore"
	"github.com/doghouse/muttmix/internal/app"
	"github.com/doghouse/muttmix/internal/domain/answers"
	"github.com/doghouse/muttmix/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var resultTime = time.Date(2022, 2, 20, 20, 0, 0, 0, time.UTC)

// newService builds a service over temp-dir logs with a controllable clock.
func newService(t *testing.T) (*app.Service, *time.Time) {
	t.Helper()
	dir := t.TempDir()

	answerPath := filepath.Join(dir, "answers.csv")
	if err := os.WriteFile(answerPath, []byte("Beagle,60,x\nPug,40,x\nChow,0,x\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	now := resultTime.Add(-2 * time.Hour)
	svc := app.New(
		app.WithAnswerLoader(answers.New(answerPath)),
		app.WithSubmissionLog(logstore.NewSubmissionLog(filepath.Join(dir, "results.json"))),
		app.WithVoteLog(logstore.NewVoteLog(filepath.Join(dir, "votes.csv"))),
		app.WithResultTime(resultTime),
		app.WithVotingWindow(24*time.Hour),
		app.WithClock(func() time.Time { return now }),
	)
	return svc, &now
}

func TestSubmitGuess(t *testing.T) {
	Convey("Given a fresh contest", t, func() {
		ctx := context.Background()
		svc, _ := newService(t)

		Convey("When submitting a zero-sum guess", func() {
			_, err := svc.SubmitGuess(ctx, "alice", "Puggle", map[string]float64{"beagle": 0, "pug": 0})

			Convey("Then it is rejected before it reaches the log", func() {
				So(errors.Is(err, app.ErrEmptySubmission), ShouldBeTrue)
				_, ok, lerr := svc.Leaderboard(ctx)
				So(lerr, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When submitting with no name", func() {
			_, err := svc.SubmitGuess(ctx, "  ", "", map[string]float64{"beagle": 100})
			So(errors.Is(err, app.ErrInvalidSubmission), ShouldBeTrue)
		})

		Convey("When allocating to an unknown breed", func() {
			_, err := svc.SubmitGuess(ctx, "alice", "", map[string]float64{"direwolf": 100})
			So(errors.Is(err, app.ErrUnknownBreed), ShouldBeTrue)
		})

		Convey("When allocating a negative percentage", func() {
			_, err := svc.SubmitGuess(ctx, "alice", "", map[string]float64{"beagle": 120, "pug": -20})
			So(errors.Is(err, app.ErrInvalidSubmission), ShouldBeTrue)
		})

		Convey("When submitting a valid guess", func() {
			sub, err := svc.SubmitGuess(ctx, "alice", "Puggle", map[string]float64{"beagle": 30, "pug": 10})

			Convey("Then the record is stamped and stored", func() {
				So(err, ShouldBeNil)
				So(sub.ID, ShouldNotBeEmpty)
				So(sub.ResponseTime, ShouldNotBeEmpty)
				So(sub.Percentages["chow"], ShouldEqual, 0) // filled with the full tag set

				rows, ok, lerr := svc.Leaderboard(ctx)
				So(lerr, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(rows[0].Name, ShouldEqual, "alice")
				So(rows[0].Percentages["beagle"], ShouldAlmostEqual, 75)
			})
		})
	})
}

func TestLeaderboardDedup(t *testing.T) {
	Convey("Given a contestant who resubmits", t, func() {
		ctx := context.Background()
		svc, now := newService(t)

		_, err := svc.SubmitGuess(ctx, "alice", "first idea", map[string]float64{"beagle": 100})
		So(err, ShouldBeNil)

		*now = now.Add(30 * time.Minute)
		_, err = svc.SubmitGuess(ctx, "alice", "second idea", map[string]float64{"beagle": 60, "pug": 40})
		So(err, ShouldBeNil)

		Convey("When reading the leaderboard", func() {
			rows, ok, err := svc.Leaderboard(ctx)

			Convey("Then only the later submission counts", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].NewBreed, ShouldEqual, "second idea")
				So(rows[0].KLScore, ShouldAlmostEqual, 0)
			})
		})

		Convey("When harvesting suggestions", func() {
			pool, err := svc.Suggestions(ctx)

			Convey("Then only the surviving record's idea is in the pool", func() {
				So(err, ShouldBeNil)
				So(pool, ShouldResemble, []string{"second idea"})
			})
		})
	})
}

func TestGuessesView(t *testing.T) {
	Convey("Given submissions before the reveal", t, func() {
		ctx := context.Background()
		svc, _ := newService(t)

		Convey("When no one has submitted", func() {
			_, ok, err := svc.Guesses(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When contestants have submitted", func() {
			_, err := svc.SubmitGuess(ctx, "alice", "Puggle", map[string]float64{"beagle": 50, "pug": 50})
			So(err, ShouldBeNil)

			guesses, ok, err := svc.Guesses(ctx)

			Convey("Then the view holds normalized rows without scores", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(len(guesses), ShouldEqual, 1)
				So(guesses[0].Percentages["beagle"], ShouldAlmostEqual, 50)
			})
		})
	})
}

func TestVoting(t *testing.T) {
	Convey("Given a contest with one suggestion", t, func() {
		ctx := context.Background()
		svc, now := newService(t)

		_, err := svc.SubmitGuess(ctx, "alice", "Puggle", map[string]float64{"beagle": 100})
		So(err, ShouldBeNil)

		Convey("When voting before the reveal", func() {
			_, err := svc.CastVote(ctx, "bob", "Puggle")
			So(errors.Is(err, app.ErrVotingClosed), ShouldBeTrue)
		})

		Convey("When the voting window is open", func() {
			*now = resultTime.Add(time.Hour)

			Convey("And the choice is not a suggestion", func() {
				_, err := svc.CastVote(ctx, "bob", "Direwolf")
				So(errors.Is(err, app.ErrInvalidChoice), ShouldBeTrue)
			})

			Convey("And the voter name is blank", func() {
				_, err := svc.CastVote(ctx, "", "Puggle")
				So(errors.Is(err, app.ErrInvalidVoter), ShouldBeTrue)
			})

			Convey("And the ballot is valid", func() {
				_, err := svc.CastVote(ctx, "bob", "Puggle")
				So(err, ShouldBeNil)

				res, ok, terr := svc.TallyVotes(ctx)
				So(terr, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(res.Counts, ShouldResemble, map[string]int{"Puggle": 1})
				So(res.Winners, ShouldResemble, []string{"Puggle"})
			})
		})

		Convey("When the window has closed", func() {
			*now = resultTime.Add(25 * time.Hour)
			_, err := svc.CastVote(ctx, "bob", "Puggle")
			So(errors.Is(err, app.ErrVotingClosed), ShouldBeTrue)
		})

		Convey("When no ballots exist", func() {
			*now = resultTime.Add(time.Hour)
			_, ok, err := svc.TallyVotes(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPhases(t *testing.T) {
	Convey("Given a reveal deadline", t, func() {
		svc, now := newService(t)

		Convey("Then results are hidden before it", func() {
			So(svc.ResultsAvailable(), ShouldBeFalse)
			So(svc.VotingOpen(), ShouldBeFalse)
		})

		Convey("Then the reveal opens results and voting", func() {
			*now = resultTime
			So(svc.ResultsAvailable(), ShouldBeTrue)
			So(svc.VotingOpen(), ShouldBeTrue)
		})

		Convey("Then voting closes after the window while results stay up", func() {
			*now = resultTime.Add(24*time.Hour + time.Minute)
			So(svc.ResultsAvailable(), ShouldBeTrue)
			So(svc.VotingOpen(), ShouldBeFalse)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given an active contest", t, func() {
		ctx := context.Background()
		svc, now := newService(t)

		_, err := svc.SubmitGuess(ctx, "alice", "Puggle", map[string]float64{"beagle": 100})
		So(err, ShouldBeNil)
		*now = resultTime.Add(time.Hour)
		_, err = svc.CastVote(ctx, "bob", "Puggle")
		So(err, ShouldBeNil)

		Convey("When collecting stats", func() {
			stats := svc.GetStats(ctx)

			Convey("Then the summary reflects the logs", func() {
				So(stats["breeds"], ShouldEqual, 3)
				So(stats["contestants"], ShouldEqual, 1)
				So(stats["suggestions"], ShouldEqual, 1)
				So(stats["votes"], ShouldEqual, 1)
				So(stats["results_available"], ShouldEqual, true)
				So(stats["voting_open"], ShouldEqual, true)
			})
		})
	})
}

func TestAnswerReload(t *testing.T) {
	Convey("Given a running service", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		answerPath := filepath.Join(dir, "answers.csv")
		So(os.WriteFile(answerPath, []byte("Beagle,60,x\nPug,40,x\n"), 0o600), ShouldBeNil)

		svc := app.New(
			app.WithAnswerLoader(answers.New(answerPath)),
			app.WithSubmissionLog(logstore.NewSubmissionLog(filepath.Join(dir, "results.json"))),
			app.WithVoteLog(logstore.NewVoteLog(filepath.Join(dir, "votes.csv"))),
		)

		set, err := svc.AnswerSet(ctx)
		So(err, ShouldBeNil)
		So(set.Len(), ShouldEqual, 2)

		Convey("When the admin uploads a malformed replacement", func() {
			So(os.WriteFile(answerPath, []byte("Beagle,60,x\n"), 0o600), ShouldBeNil)
			_, rerr := svc.ReloadAnswerSet(ctx)

			Convey("Then the reload fails and the old set stays active", func() {
				So(errors.Is(rerr, answers.ErrMalformedAnswer), ShouldBeTrue)
				current, gerr := svc.AnswerSet(ctx)
				So(gerr, ShouldBeNil)
				So(current, ShouldEqual, set)
			})
		})

		Convey("When the cache is invalidated after a file swap", func() {
			So(os.WriteFile(answerPath, []byte("Collie,100,x\n"), 0o600), ShouldBeNil)
			svc.InvalidateAnswerSet()

			Convey("Then the next read picks up the new table", func() {
				current, gerr := svc.AnswerSet(ctx)
				So(gerr, ShouldBeNil)
				So(current.HasTag("collie"), ShouldBeTrue)
			})
		})

		Convey("When the admin uploads a valid replacement", func() {
			So(os.WriteFile(answerPath, []byte("Collie,100,x\n"), 0o600), ShouldBeNil)
			fresh, rerr := svc.ReloadAnswerSet(ctx)

			Convey("Then the new set becomes active", func() {
				So(rerr, ShouldBeNil)
				So(fresh.HasTag("collie"), ShouldBeTrue)
			})
		})
	})
}
