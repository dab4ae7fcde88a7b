package verdict_test

import (
	"testing"

	verdict "github.com/arbiterhq/arbiter/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeverity_Blocking(t *testing.T) {
	Convey("Given the severity levels", t, func() {
		Convey("Then critical and high block", func() {
			So(verdict.SeverityCritical.Blocking(), ShouldBeTrue)
			So(verdict.SeverityHigh.Blocking(), ShouldBeTrue)
		})

		Convey("And medium and warning do not", func() {
			So(verdict.SeverityMedium.Blocking(), ShouldBeFalse)
			So(verdict.SeverityWarning.Blocking(), ShouldBeFalse)
		})
	})
}

func TestRating(t *testing.T) {
	Convey("Given the rating bands", t, func() {
		Convey("Then scores map to the expected labels", func() {
			So(verdict.Rating(100), ShouldEqual, "excellent")
			So(verdict.Rating(95), ShouldEqual, "excellent")
			So(verdict.Rating(94.9), ShouldEqual, "good")
			So(verdict.Rating(80), ShouldEqual, "good")
			So(verdict.Rating(79.9), ShouldEqual, "fair")
			So(verdict.Rating(60), ShouldEqual, "fair")
			So(verdict.Rating(59.9), ShouldEqual, "poor")
			So(verdict.Rating(0), ShouldEqual, "poor")
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given the scoring rubric", t, func() {
		Convey("When looking up a known code", func() {
			w, ok := verdict.Lookup(verdict.CodeResultMismatch)

			Convey("Then its severity and deduction are returned", func() {
				So(ok, ShouldBeTrue)
				So(w.Severity, ShouldEqual, verdict.SeverityCritical)
				So(w.Deduction, ShouldEqual, 25.0)
			})
		})

		Convey("When looking up an unknown code", func() {
			_, ok := verdict.Lookup("NO_SUCH_CODE")

			So(ok, ShouldBeFalse)
		})

		Convey("When mutating a DefaultWeights copy", func() {
			weights := verdict.DefaultWeights()
			weights[verdict.CodeResultMismatch] = verdict.Weight{Severity: verdict.SeverityWarning, Deduction: 1}

			Convey("Then the package rubric is unaffected", func() {
				w, _ := verdict.Lookup(verdict.CodeResultMismatch)
				So(w.Deduction, ShouldEqual, 25.0)
			})
		})

		Convey("When building an issue from a cataloged code", func() {
			issue := verdict.NewIssue(verdict.CodeFutureMatch, "timestamp in the future")

			Convey("Then severity and deduction come from the rubric", func() {
				So(issue.Code, ShouldEqual, verdict.CodeFutureMatch)
				So(issue.Severity, ShouldEqual, verdict.SeverityCritical)
				So(issue.ScoreDeduction, ShouldEqual, 25.0)
				So(issue.Message, ShouldEqual, "timestamp in the future")
			})
		})

		Convey("When building a warning from a cataloged code", func() {
			warning := verdict.NewWarning(verdict.CodeUnlikelyStreak, "long streak")

			Convey("Then it carries warning severity and the rubric deduction", func() {
				So(warning.Severity, ShouldEqual, verdict.SeverityWarning)
				So(warning.ScoreDeduction, ShouldEqual, 7.0)
			})
		})

		Convey("Then warnings never carry blocking severities", func() {
			for _, code := range []string{
				verdict.CodeVeryShortMatch,
				verdict.CodeVeryLongMatch,
				verdict.CodeAnomalyGoals,
				verdict.CodeAnomalyAssists,
				verdict.CodeAnomalyDuration,
				verdict.CodeUnlikelyStreak,
				verdict.CodeFormReversal,
			} {
				w, ok := verdict.Lookup(code)
				So(ok, ShouldBeTrue)
				So(w.Severity.Blocking(), ShouldBeFalse)
			}
		})
	})
}
