package model_test

import (
	"testing"

	"github.com/doghouse/muttmix/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSupersedes(t *testing.T) {
	Convey("Given two submissions from the same contestant", t, func() {
		earlier := model.Submission{Name: "alice", ResponseTime: "2022-02-19T10:00:00Z"}
		later := model.Submission{Name: "alice", ResponseTime: "2022-02-19T11:30:00Z"}

		Convey("Then the later response time supersedes", func() {
			So(later.Supersedes(earlier), ShouldBeTrue)
			So(earlier.Supersedes(later), ShouldBeFalse)
		})

		Convey("And an identical timestamp supersedes (last append wins)", func() {
			dup := model.Submission{Name: "alice", ResponseTime: earlier.ResponseTime}
			So(dup.Supersedes(earlier), ShouldBeTrue)
		})
	})

	Convey("Given two votes from the same voter", t, func() {
		first := model.Vote{Voter: "bob", ResponseTime: "2022-02-20T20:05:00Z", Choice: "X"}
		second := model.Vote{Voter: "bob", ResponseTime: "2022-02-20T20:10:00Z", Choice: "Y"}

		Convey("Then the later ballot supersedes", func() {
			So(second.Supersedes(first), ShouldBeTrue)
			So(first.Supersedes(second), ShouldBeFalse)
		})
	})
}
