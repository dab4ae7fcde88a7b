package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arbiterhq/arbiter/internal/domain/model"
	"github.com/arbiterhq/arbiter/internal/domain/verdict"
)

// Redis key layout.
const (
	verdictKeyFmt = "match:%s:verdict"  // JSON Stored per match
	historyKeyFmt = "player:%s:history" // list of JSON MatchRecords, newest first
	suspectsKey   = "suspects"          // sorted set: member match id, score fairness score
)

// RedisStore implements Store on Redis: verdict JSON per match key, a
// list-backed bounded history per player, and a sorted set as the
// suspicion index. Intended for deployments where verdicts must survive
// process restarts or be shared across instances.
type RedisStore struct {
	client        *redis.Client
	historyWindow int
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithRedisHistoryWindow bounds the per-player history list length.
func WithRedisHistoryWindow(n int) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// NewRedisStore creates a Redis-backed store. The client is owned by
// the caller.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:        client,
		historyWindow: defaultHistoryWindow,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PutVerdict stores the verdict JSON and indexes the match by score.
func (s *RedisStore) PutVerdict(ctx context.Context, rec model.MatchRecord, res verdict.Result) error {
	data, err := json.Marshal(Stored{Record: rec, Result: res})
	if err != nil {
		return fmt.Errorf("marshal verdict: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, fmt.Sprintf(verdictKeyFmt, rec.MatchID), data, 0)
	pipe.ZAdd(ctx, suspectsKey, redis.Z{Score: res.Score, Member: rec.MatchID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store verdict: %w", err)
	}
	return nil
}

// Verdict returns the stored record and result for a match id.
func (s *RedisStore) Verdict(ctx context.Context, matchID string) (Stored, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(verdictKeyFmt, matchID)).Bytes()
	if err == redis.Nil {
		return Stored{}, ErrNotFound
	}
	if err != nil {
		return Stored{}, fmt.Errorf("load verdict: %w", err)
	}

	var stored Stored
	if err := json.Unmarshal(data, &stored); err != nil {
		return Stored{}, fmt.Errorf("decode verdict: %w", err)
	}
	return stored, nil
}

// AppendHistory pushes the match onto the player's history list and
// trims it to the configured window.
func (s *RedisStore) AppendHistory(ctx context.Context, rec model.MatchRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}

	key := fmt.Sprintf(historyKeyFmt, rec.PlayerID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.historyWindow-1))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// History returns the player's retained match history.
func (s *RedisStore) History(ctx context.Context, playerID string) ([]model.MatchRecord, error) {
	raw, err := s.client.LRange(ctx, fmt.Sprintf(historyKeyFmt, playerID), 0, int64(s.historyWindow-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	out := make([]model.MatchRecord, 0, len(raw))
	for _, item := range raw {
		var rec model.MatchRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Suspects reads the lowest-scoring matches from the sorted-set index.
func (s *RedisStore) Suspects(ctx context.Context, n int) ([]SuspectEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}

	members, err := s.client.ZRangeWithScores(ctx, suspectsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("load suspects: %w", err)
	}

	entries := make([]SuspectEntry, 0, len(members))
	for i, m := range members {
		matchID, _ := m.Member.(string)
		entry := SuspectEntry{Rank: i + 1, MatchID: matchID, Score: m.Score}

		stored, err := s.Verdict(ctx, matchID)
		if err == nil {
			entry.PlayerID = stored.Record.PlayerID
			entry.IsValid = stored.Result.IsValid
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count returns the number of verdicts indexed.
func (s *RedisStore) Count(ctx context.Context) int {
	n, err := s.client.ZCard(ctx, suspectsKey).Result()
	if err != nil {
		return 0
	}
	return int(n)
}
