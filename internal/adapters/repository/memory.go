package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
	"github.com/arbiterhq/arbiter/pkg/metrics"
)

// Default in-memory store configuration constants.
const (
	defaultShardCount    = 8
	defaultHistoryWindow = 50
)

// shard holds one partition of verdicts and histories.
type shard struct {
	mu        sync.RWMutex
	verdicts  map[string]Stored             // match id -> stored verdict
	histories map[string][]model.MatchRecord // player id -> retained history
}

// MemoryStore implements Store with hash-sharded in-memory maps. Shards
// keep lock contention low under concurrent worker writes.
type MemoryStore struct {
	shards        []*shard
	shardCount    int
	historyWindow int

	mu    sync.Mutex
	total int
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	_ = ctx

	s := &MemoryStore{
		shardCount:    defaultShardCount,
		historyWindow: defaultHistoryWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			verdicts:  make(map[string]Stored),
			histories: make(map[string][]model.MatchRecord),
		}
	}

	metrics.UpdateRepositoryShardCount(s.shardCount)
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%s.shardCount]
}

// PutVerdict stores the validation result for a match.
func (s *MemoryStore) PutVerdict(ctx context.Context, rec model.MatchRecord, res verdict.Result) error {
	_ = ctx

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(rec.MatchID)
	sh.mu.Lock()
	_, existed := sh.verdicts[rec.MatchID]
	sh.verdicts[rec.MatchID] = Stored{Record: rec, Result: res}
	sh.mu.Unlock()

	if !existed {
		s.mu.Lock()
		s.total++
		metrics.UpdateRepositoryRecordsTotal(s.total)
		s.mu.Unlock()
	}
	return nil
}

// Verdict returns the stored record and result for a match id.
func (s *MemoryStore) Verdict(ctx context.Context, matchID string) (Stored, error) {
	_ = ctx

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(matchID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	stored, ok := sh.verdicts[matchID]
	if !ok {
		return Stored{}, ErrNotFound
	}
	return stored, nil
}

// AppendHistory adds a match to the reporting player's bounded history.
func (s *MemoryStore) AppendHistory(ctx context.Context, rec model.MatchRecord) error {
	_ = ctx

	sh := s.shardFor(rec.PlayerID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	hist := append(sh.histories[rec.PlayerID], rec)
	if len(hist) > s.historyWindow {
		hist = hist[len(hist)-s.historyWindow:]
	}
	sh.histories[rec.PlayerID] = hist
	return nil
}

// History returns a copy of the player's retained history.
func (s *MemoryStore) History(ctx context.Context, playerID string) ([]model.MatchRecord, error) {
	_ = ctx

	sh := s.shardFor(playerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	hist := sh.histories[playerID]
	out := make([]model.MatchRecord, len(hist))
	copy(out, hist)
	return out, nil
}

// Suspects returns up to n matches ordered by fairness score ascending.
func (s *MemoryStore) Suspects(ctx context.Context, n int) ([]SuspectEntry, error) {
	_ = ctx

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	entries := make([]SuspectEntry, 0, n)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, stored := range sh.verdicts {
			entries = append(entries, SuspectEntry{
				MatchID:  id,
				PlayerID: stored.Record.PlayerID,
				Score:    stored.Result.Score,
				IsValid:  stored.Result.IsValid,
			})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score < entries[j].Score
		}
		return entries[i].MatchID < entries[j].MatchID
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// Count returns the number of verdicts stored.
func (s *MemoryStore) Count(ctx context.Context) int {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}
