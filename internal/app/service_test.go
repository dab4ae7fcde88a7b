package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/arbiterhq/arbiter/internal/adapters/repository"
	app "github.com/arbiterhq/arbiter/internal/app"
	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func cleanSubmission(matchID, playerID string) model.Submission {
	return model.Submission{
		Record: model.MatchRecord{
			MatchID:     matchID,
			HomeTeam:    "lions",
			AwayTeam:    "tigers",
			HomeScore:   3,
			AwayScore:   1,
			Outcome:     model.OutcomeHomeWin,
			PlayerID:    playerID,
			PlayerGoals: 2,
			Duration:    92,
			PlayedAt:    time.Now().Add(-time.Hour),
		},
	}
}

func tamperedSubmission(matchID, playerID string) model.Submission {
	sub := cleanSubmission(matchID, playerID)
	sub.Record.Outcome = model.OutcomeAwayWin // contradicts the 3-1 scoreline
	return sub
}

func waitForVerdict(ctx context.Context, svc *app.Service, matchID string) (repository.Stored, bool) {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if stored, err := svc.Verdict(ctx, matchID); err == nil {
			return stored, true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return repository.Stored{}, false
}

func startedService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()

	base := []app.Option{
		app.WithWorkerCount(2),
		app.WithQueueSize(64),
		app.WithDedupeSize(256),
	}
	svc := app.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func TestServiceSubmission(t *testing.T) {
	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		convey.Convey("When a clean match is submitted", func() {
			convey.So(svc.SeenAndRecord(ctx, "match-1"), convey.ShouldBeFalse)
			convey.So(svc.Enqueue(ctx, cleanSubmission("match-1", "player-1")), convey.ShouldBeTrue)

			convey.Convey("Then a passing verdict becomes available", func() {
				stored, found := waitForVerdict(ctx, svc, "match-1")
				convey.So(found, convey.ShouldBeTrue)
				convey.So(stored.Result.IsValid, convey.ShouldBeTrue)
				convey.So(stored.Result.Score, convey.ShouldEqual, 100)
			})

			convey.Convey("And resubmitting the same id reports a duplicate", func() {
				convey.So(svc.SeenAndRecord(ctx, "match-1"), convey.ShouldBeTrue)
				convey.So(svc.Size(), convey.ShouldEqual, 1)
			})

			convey.Convey("And unrecording makes the id fresh again", func() {
				svc.Unrecord(ctx, "match-1")
				convey.So(svc.SeenAndRecord(ctx, "match-1"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a tampered match is submitted", func() {
			convey.So(svc.Enqueue(ctx, tamperedSubmission("match-rigged", "player-2")), convey.ShouldBeTrue)

			convey.Convey("Then the verdict is stored but failing", func() {
				stored, found := waitForVerdict(ctx, svc, "match-rigged")
				convey.So(found, convey.ShouldBeTrue)
				convey.So(stored.Result.IsValid, convey.ShouldBeFalse)
				convey.So(stored.Result.Score, convey.ShouldBeLessThan, 100)
				convey.So(stored.Result.Issues, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When an unknown match is queried", func() {
			_, err := svc.Verdict(ctx, "no-such-match")

			convey.Convey("Then the not-found error surfaces", func() {
				convey.So(err, convey.ShouldWrap, repository.ErrNotFound)
			})
		})
	})
}

func TestServiceQueries(t *testing.T) {
	convey.Convey("Given a service with processed matches", t, func() {
		ctx := context.Background()
		svc := startedService(t)

		convey.So(svc.Enqueue(ctx, cleanSubmission("match-clean", "player-1")), convey.ShouldBeTrue)
		convey.So(svc.Enqueue(ctx, tamperedSubmission("match-rigged", "player-1")), convey.ShouldBeTrue)
		_, found := waitForVerdict(ctx, svc, "match-clean")
		convey.So(found, convey.ShouldBeTrue)
		_, found = waitForVerdict(ctx, svc, "match-rigged")
		convey.So(found, convey.ShouldBeTrue)

		convey.Convey("When the text report is requested", func() {
			text, err := svc.Report(ctx, "match-clean")

			convey.Convey("Then it names the match and the verdict", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(text, convey.ShouldContainSubstring, "match-clean")
				convey.So(text, convey.ShouldContainSubstring, "Verdict: VALID")
			})
		})

		convey.Convey("When the suspect list is requested", func() {
			suspects, err := svc.Suspects(ctx, 10)

			convey.Convey("Then the rigged match ranks first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(suspects), convey.ShouldEqual, 2)
				convey.So(suspects[0].MatchID, convey.ShouldEqual, "match-rigged")
				convey.So(suspects[0].Rank, convey.ShouldEqual, 1)
				convey.So(suspects[0].Score, convey.ShouldBeLessThan, suspects[1].Score)
			})
		})

		convey.Convey("When the player profile is requested", func() {
			// History is appended just after the verdict write; give it
			// a moment to land.
			deadline := time.Now().Add(time.Second)
			for time.Now().Before(deadline) {
				if prof, err := svc.PlayerProfile(ctx, "player-1"); err == nil && prof.SampleSize == 2 {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			prof, err := svc.PlayerProfile(ctx, "player-1")

			convey.Convey("Then it reflects the retained history", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(prof.SampleSize, convey.ShouldEqual, 2)
				convey.So(prof.Sufficient, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When service statistics are requested", func() {
			stats := svc.GetStats()

			convey.Convey("Then the running totals are reported", func() {
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats["totalMatches"], convey.ShouldEqual, 2)
				convey.So(stats, convey.ShouldContainKey, "queueLength")
			})
		})
	})
}

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a configured service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1), app.WithQueueSize(8))

		convey.Convey("When started twice", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the second start is a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When stopped without being started", func() {
			convey.Convey("Then stop is a no-op", func() {
				convey.So(svc.Stop, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When stopped after starting", func() {
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			svc.Stop()

			convey.Convey("Then further submissions are rejected", func() {
				convey.So(svc.Enqueue(ctx, cleanSubmission("late", "player-1")), convey.ShouldBeFalse)
			})

			convey.Convey("And stopping again does not panic", func() {
				convey.So(svc.Stop, convey.ShouldNotPanic)
			})
		})
	})
}

func TestServiceTuning(t *testing.T) {
	convey.Convey("Given a service with scoring overrides", t, func() {
		ctx := context.Background()
		svc := startedService(t,
			app.WithDeductionOverrides(map[string]float64{"RESULT_MISMATCH": 40}),
		)

		convey.Convey("When a mismatched result is validated", func() {
			convey.So(svc.Enqueue(ctx, tamperedSubmission("match-override", "player-1")), convey.ShouldBeTrue)

			convey.Convey("Then the override drives the deduction", func() {
				stored, found := waitForVerdict(ctx, svc, "match-override")
				convey.So(found, convey.ShouldBeTrue)
				convey.So(stored.Result.Score, convey.ShouldEqual, 60)
				convey.So(stored.Result.IsValid, convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given a service with a tight dedupe cache", t, func() {
		ctx := context.Background()
		svc := startedService(t, app.WithDedupeSize(2))

		convey.Convey("When more ids than the cache holds are recorded", func() {
			for i := 0; i < 3; i++ {
				convey.So(svc.SeenAndRecord(ctx, fmt.Sprintf("match-%d", i)), convey.ShouldBeFalse)
			}

			convey.Convey("Then the oldest id is forgotten", func() {
				convey.So(svc.Size(), convey.ShouldEqual, 2)
				convey.So(svc.SeenAndRecord(ctx, "match-0"), convey.ShouldBeFalse)
			})
		})
	})

	convey.Convey("Given a service with a shortened retention", t, func() {
		ctx := context.Background()
		svc := startedService(t, app.WithRetentionDays(1))

		convey.Convey("When a two-day-old match is submitted", func() {
			sub := cleanSubmission("match-old", "player-1")
			sub.Record.PlayedAt = time.Now().Add(-48 * time.Hour)
			convey.So(svc.Enqueue(ctx, sub), convey.ShouldBeTrue)

			convey.Convey("Then the verdict flags the stale timestamp", func() {
				stored, found := waitForVerdict(ctx, svc, "match-old")
				convey.So(found, convey.ShouldBeTrue)
				convey.So(stored.Result.IsValid, convey.ShouldBeFalse)

				var codes []string
				for _, issue := range stored.Result.Issues {
					codes = append(codes, issue.Code)
				}
				convey.So(strings.Join(codes, ","), convey.ShouldContainSubstring, "STALE_MATCH")
			})
		})
	})
}
