package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	repository "github.com/arbiterhq/arbiter/internal/adapters/repository"
	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
	. "github.com/smartystreets/goconvey/convey"
)

func record(matchID, playerID string) model.MatchRecord {
	return model.MatchRecord{
		MatchID:   matchID,
		HomeTeam:  "lions",
		AwayTeam:  "tigers",
		HomeScore: 2,
		AwayScore: 1,
		Outcome:   model.OutcomeHomeWin,
		PlayerID:  playerID,
		Duration:  92,
		PlayedAt:  time.Now().Add(-time.Hour),
	}
}

func result(score float64, valid bool) verdict.Result {
	return verdict.Result{IsValid: valid, Score: score, Timestamp: time.Now()}
}

func TestMemoryStoreVerdicts(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx)

		Convey("When a verdict is stored", func() {
			rec := record("match-1", "player-1")
			err := store.PutVerdict(ctx, rec, result(85, false))
			So(err, ShouldBeNil)

			Convey("Then it can be read back", func() {
				stored, err := store.Verdict(ctx, "match-1")
				So(err, ShouldBeNil)
				So(stored.Record, ShouldResemble, rec)
				So(stored.Result.Score, ShouldEqual, 85)
				So(stored.Result.IsValid, ShouldBeFalse)
			})

			Convey("And the count reflects one verdict", func() {
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("When the same match is stored again", func() {
				err := store.PutVerdict(ctx, rec, result(90, true))
				So(err, ShouldBeNil)

				Convey("Then the verdict is replaced, not duplicated", func() {
					So(store.Count(ctx), ShouldEqual, 1)
					stored, err := store.Verdict(ctx, "match-1")
					So(err, ShouldBeNil)
					So(stored.Result.Score, ShouldEqual, 90)
				})
			})
		})

		Convey("When an unknown match id is queried", func() {
			_, err := store.Verdict(ctx, "no-such-match")

			Convey("Then ErrNotFound is returned", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})
	})
}

func TestMemoryStoreHistory(t *testing.T) {
	Convey("Given a store with a small history window", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithHistoryWindow(3))

		Convey("When more matches than the window are appended", func() {
			for i := 1; i <= 5; i++ {
				rec := record(fmt.Sprintf("match-%d", i), "player-1")
				rec.HomeScore = i
				So(store.AppendHistory(ctx, rec), ShouldBeNil)
			}

			Convey("Then only the most recent matches are retained", func() {
				hist, err := store.History(ctx, "player-1")
				So(err, ShouldBeNil)
				So(hist, ShouldHaveLength, 3)
				So(hist[0].MatchID, ShouldEqual, "match-3")
				So(hist[2].MatchID, ShouldEqual, "match-5")
			})
		})

		Convey("When a player has no history", func() {
			hist, err := store.History(ctx, "player-ghost")

			Convey("Then an empty slice is returned", func() {
				So(err, ShouldBeNil)
				So(hist, ShouldBeEmpty)
			})
		})

		Convey("When the returned history is mutated", func() {
			So(store.AppendHistory(ctx, record("match-1", "player-1")), ShouldBeNil)

			hist, err := store.History(ctx, "player-1")
			So(err, ShouldBeNil)
			hist[0].HomeScore = 99

			Convey("Then the stored history is unaffected", func() {
				again, err := store.History(ctx, "player-1")
				So(err, ShouldBeNil)
				So(again[0].HomeScore, ShouldEqual, 2)
			})
		})

		Convey("Then histories are kept per player", func() {
			So(store.AppendHistory(ctx, record("match-a", "player-1")), ShouldBeNil)
			So(store.AppendHistory(ctx, record("match-b", "player-2")), ShouldBeNil)

			hist, err := store.History(ctx, "player-2")
			So(err, ShouldBeNil)
			So(hist, ShouldHaveLength, 1)
			So(hist[0].MatchID, ShouldEqual, "match-b")
		})
	})
}

func TestMemoryStoreSuspects(t *testing.T) {
	Convey("Given a store with verdicts across the score range", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(ctx, repository.WithShardCount(4))

		scores := map[string]float64{
			"match-clean":  100,
			"match-shady":  45,
			"match-odd":    80,
			"match-rigged": 10,
		}
		for id, score := range scores {
			rec := record(id, "player-"+id)
			So(store.PutVerdict(ctx, rec, result(score, score >= 80)), ShouldBeNil)
		}

		Convey("When the full suspect list is requested", func() {
			entries, err := store.Suspects(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then entries are ordered by score ascending", func() {
				So(entries, ShouldHaveLength, 4)
				So(entries[0].MatchID, ShouldEqual, "match-rigged")
				So(entries[1].MatchID, ShouldEqual, "match-shady")
				So(entries[2].MatchID, ShouldEqual, "match-odd")
				So(entries[3].MatchID, ShouldEqual, "match-clean")
			})

			Convey("And ranks are consecutive from one", func() {
				for i, e := range entries {
					So(e.Rank, ShouldEqual, i+1)
				}
			})
		})

		Convey("When fewer entries are requested than stored", func() {
			entries, err := store.Suspects(ctx, 2)
			So(err, ShouldBeNil)

			Convey("Then the list is truncated to the most suspicious", func() {
				So(entries, ShouldHaveLength, 2)
				So(entries[0].MatchID, ShouldEqual, "match-rigged")
				So(entries[1].MatchID, ShouldEqual, "match-shady")
			})
		})

		Convey("When matches share the same score", func() {
			So(store.PutVerdict(ctx, record("match-tie-b", "p"), result(45, false)), ShouldBeNil)
			So(store.PutVerdict(ctx, record("match-tie-a", "p"), result(45, false)), ShouldBeNil)

			entries, err := store.Suspects(ctx, 10)
			So(err, ShouldBeNil)

			Convey("Then ties break on match id for a stable order", func() {
				So(entries[1].MatchID, ShouldEqual, "match-shady")
				So(entries[2].MatchID, ShouldEqual, "match-tie-a")
				So(entries[3].MatchID, ShouldEqual, "match-tie-b")
			})
		})

		Convey("When the limit is below one", func() {
			_, err := store.Suspects(ctx, 0)

			Convey("Then ErrInvalidLimit is returned", func() {
				So(err, ShouldWrap, repository.ErrInvalidLimit)
			})
		})
	})
}
