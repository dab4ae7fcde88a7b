package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	profile "github.com/arbiterhq/arbiter/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

func historyOf(goals ...int) []model.MatchRecord {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.MatchRecord, len(goals))
	for i, g := range goals {
		out[i] = model.MatchRecord{
			PlayerID:      "player-1",
			PlayerGoals:   g,
			PlayerAssists: 1,
			Duration:      90,
			PlayedAt:      base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return out
}

func TestBuilder_Build(t *testing.T) {
	Convey("Given a profile builder with defaults", t, func() {
		b := profile.NewBuilder()
		ctx := context.Background()

		Convey("When building from empty history", func() {
			p := b.Build(ctx, nil)

			Convey("Then the profile is empty and insufficient", func() {
				So(p.SampleSize, ShouldEqual, 0)
				So(p.Sufficient, ShouldBeFalse)
				So(p.Goals.Mean, ShouldEqual, 0)
				So(p.Goals.StdDev, ShouldEqual, 0)
			})
		})

		Convey("When building from fewer matches than the minimum", func() {
			p := b.Build(ctx, historyOf(1, 2, 3))

			Convey("Then moments are computed but the profile is insufficient", func() {
				So(p.SampleSize, ShouldEqual, 3)
				So(p.Sufficient, ShouldBeFalse)
				So(p.Goals.Mean, ShouldEqual, 2.0)
			})
		})

		Convey("When building from enough matches", func() {
			p := b.Build(ctx, historyOf(2, 4, 4, 4, 5, 5, 7, 9))

			Convey("Then the profile is sufficient", func() {
				So(p.SampleSize, ShouldEqual, 8)
				So(p.Sufficient, ShouldBeTrue)
			})

			Convey("And the mean is correct", func() {
				So(p.Goals.Mean, ShouldEqual, 5.0)
			})

			Convey("And the sample standard deviation is correct", func() {
				// squared deviations sum to 32, n-1 = 7
				So(p.Goals.StdDev, ShouldAlmostEqual, 2.1380899353, 0.0001)
			})

			Convey("And constant metrics have zero standard deviation", func() {
				So(p.Duration.Mean, ShouldEqual, 90.0)
				So(p.Duration.StdDev, ShouldEqual, 0.0)
			})
		})

		Convey("When building from a single match", func() {
			p := b.Build(ctx, historyOf(3))

			Convey("Then the mean is set and the stddev stays zero", func() {
				So(p.Goals.Mean, ShouldEqual, 3.0)
				So(p.Goals.StdDev, ShouldEqual, 0.0)
			})
		})

		Convey("When history order changes", func() {
			a := b.Build(ctx, historyOf(1, 5, 3))
			rev := b.Build(ctx, historyOf(3, 5, 1))

			Convey("Then the profile is identical", func() {
				So(a, ShouldResemble, rev)
			})
		})
	})
}

func TestBuilder_Options(t *testing.T) {
	Convey("Given a builder with a custom minimum sample size", t, func() {
		b := profile.NewBuilder(profile.WithMinSamples(3))
		ctx := context.Background()

		Convey("Then the configured minimum is exposed", func() {
			So(b.MinSamples(), ShouldEqual, 3)
		})

		Convey("When the history meets the lower threshold", func() {
			p := b.Build(ctx, historyOf(1, 2, 3))

			So(p.Sufficient, ShouldBeTrue)
		})

		Convey("When an invalid minimum is supplied", func() {
			bad := profile.NewBuilder(profile.WithMinSamples(0))

			Convey("Then the default is kept", func() {
				So(bad.MinSamples(), ShouldEqual, 5)
			})
		})
	})
}
