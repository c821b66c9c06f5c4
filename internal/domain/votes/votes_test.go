package votes_test

import (
	"testing"

	"github.com/doghouse/muttmix/internal/domain/model"
	"github.com/doghouse/muttmix/internal/domain/votes"
	. "github.com/smartystreets/goconvey/convey"
)

func ballot(voter, ts, choice string) model.Vote {
	return model.Vote{Voter: voter, ResponseTime: ts, Choice: choice}
}

func TestTally(t *testing.T) {
	Convey("Given a voter who changes their mind", t, func() {
		ballots := []model.Vote{
			ballot("alice", "2022-02-20T20:01:00Z", "X"),
			ballot("bob", "2022-02-20T20:02:00Z", "Y"),
			ballot("alice", "2022-02-20T20:03:00Z", "Y"),
		}

		Convey("When tallying", func() {
			res := votes.Tally(ballots)

			Convey("Then only the latest ballot per voter counts", func() {
				So(res.Counts, ShouldResemble, map[string]int{"Y": 2})
			})

			Convey("Then Y wins outright", func() {
				So(res.Winners, ShouldResemble, []string{"Y"})
			})
		})
	})

	Convey("Given a tied vote", t, func() {
		ballots := []model.Vote{
			ballot("alice", "2022-02-20T20:01:00Z", "X"),
			ballot("bob", "2022-02-20T20:02:00Z", "Y"),
		}

		Convey("When tallying", func() {
			res := votes.Tally(ballots)

			Convey("Then every choice at the max count wins, sorted", func() {
				So(res.Counts, ShouldResemble, map[string]int{"X": 1, "Y": 1})
				So(res.Winners, ShouldResemble, []string{"X", "Y"})
			})
		})
	})

	Convey("Given no ballots", t, func() {
		res := votes.Tally(nil)

		Convey("Then the tally is empty with no winners", func() {
			So(res.Counts, ShouldBeEmpty)
			So(res.Winners, ShouldBeEmpty)
		})
	})

	Convey("Given equal timestamps from one voter", t, func() {
		ballots := []model.Vote{
			ballot("alice", "2022-02-20T20:01:00Z", "X"),
			ballot("alice", "2022-02-20T20:01:00Z", "Y"),
		}

		Convey("Then the later log record wins deterministically", func() {
			res := votes.Tally(ballots)
			So(res.Counts, ShouldResemble, map[string]int{"Y": 1})
		})
	})
}
