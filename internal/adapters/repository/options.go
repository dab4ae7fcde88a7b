package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithShardCount sets the number of shards in the in-memory store.
func WithShardCount(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithHistoryWindow bounds how many prior matches are retained per
// player for baseline building.
func WithHistoryWindow(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}
