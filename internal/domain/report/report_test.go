package report_test

import (
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	report "github.com/arbiterhq/arbiter/internal/domain/report"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRender(t *testing.T) {
	Convey("Given a match record and its validation result", t, func() {
		rec := model.MatchRecord{
			MatchID:   "match-9",
			HomeTeam:  "lions",
			AwayTeam:  "tigers",
			HomeScore: 3,
			AwayScore: 1,
			Outcome:   model.OutcomeHomeWin,
			PlayerID:  "player-7",
		}
		ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

		Convey("When rendering a clean result", func() {
			res := verdict.Result{IsValid: true, Score: 100, Timestamp: ts}
			out := report.Render(rec, res)

			Convey("Then it summarizes the match and verdict", func() {
				So(out, ShouldContainSubstring, "Match match-9: lions 3-1 tigers (home_win), reported by player-7")
				So(out, ShouldContainSubstring, "Verdict: VALID")
				So(out, ShouldContainSubstring, "Fairness score: 100/100 (excellent)")
				So(out, ShouldContainSubstring, "Validated at: 2026-08-01T12:00:00Z")
			})

			Convey("And it notes the absence of findings", func() {
				So(out, ShouldContainSubstring, "No findings.")
				So(out, ShouldNotContainSubstring, "Issues")
				So(out, ShouldNotContainSubstring, "Warnings")
			})
		})

		Convey("When rendering a suspicious result", func() {
			res := verdict.Result{
				IsValid: false,
				Score:   69,
				Issues: []verdict.Issue{
					verdict.NewIssue(verdict.CodeResultMismatch, "declared result contradicts score"),
				},
				Warnings: []verdict.Warning{
					verdict.NewWarning(verdict.CodeAnomalyGoals, "goals deviate from baseline"),
				},
				Timestamp: ts,
			}
			out := report.Render(rec, res)

			Convey("Then the verdict and rating reflect the findings", func() {
				So(out, ShouldContainSubstring, "Verdict: SUSPICIOUS")
				So(out, ShouldContainSubstring, "Fairness score: 69/100 (fair)")
			})

			Convey("And issues are listed with severity, code and deduction", func() {
				So(out, ShouldContainSubstring, "Issues (1):")
				So(out, ShouldContainSubstring, "[critical] RESULT_MISMATCH: declared result contradicts score (-25)")
			})

			Convey("And warnings are listed separately", func() {
				So(out, ShouldContainSubstring, "Warnings (1):")
				So(out, ShouldContainSubstring, "[warning] ANOMALY_GOALS: goals deviate from baseline (-6)")
				So(out, ShouldNotContainSubstring, "No findings.")
			})
		})

		Convey("When rendering the same inputs twice", func() {
			res := verdict.Result{IsValid: true, Score: 94, Timestamp: ts}

			Convey("Then the output is identical", func() {
				So(report.Render(rec, res), ShouldEqual, report.Render(rec, res))
			})
		})
	})
}
