package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/whichracket/advisor/pkg/metrics"
)

// Sharded, bounded, in-memory Store implementation.
//
// Sessions hash to a shard by ID. Each shard holds its own map and lock so
// unrelated sessions never contend. Capacity is enforced per shard; when a
// shard is full the session with the oldest last-use timestamp is evicted.

// Default store configuration constants.
const (
	defaultCapacity   = 10_000
	defaultShardCount = 8
)

type shard struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// ShardedStore implements Store.
type ShardedStore struct {
	shards        []*shard
	shardCapacity int
	total         atomic.Int64
}

// Option applies a configuration option to the ShardedStore.
type Option func(*storeConfig)

type storeConfig struct {
	capacity   int
	shardCount int
}

// WithCapacity bounds the total number of live sessions.
func WithCapacity(capacity int) Option {
	return func(c *storeConfig) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithShardCount sets the number of shards.
func WithShardCount(count int) Option {
	return func(c *storeConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}

// NewShardedStore creates a session store with configuration options.
func NewShardedStore(_ context.Context, opts ...Option) *ShardedStore {
	cfg := &storeConfig{
		capacity:   defaultCapacity,
		shardCount: defaultShardCount,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	perShard := cfg.capacity / cfg.shardCount
	if perShard < 1 {
		perShard = 1
	}

	s := &ShardedStore{
		shards:        make([]*shard, cfg.shardCount),
		shardCapacity: perShard,
	}
	for i := range s.shards {
		s.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return s
}

func (s *ShardedStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Put registers a session, evicting the least recently used session in its
// shard when the shard is full.
func (s *ShardedStore) Put(_ context.Context, sess *Session) error {
	sh := s.shardFor(sess.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.sessions[sess.ID]; !exists && len(sh.sessions) >= s.shardCapacity {
		s.evictOldest(sh)
	}
	if _, exists := sh.sessions[sess.ID]; !exists {
		s.total.Add(1)
	}
	sh.sessions[sess.ID] = sess
	metrics.UpdateActiveSessions(int(s.total.Load()))
	return nil
}

// evictOldest drops the shard's least recently used session.
// Caller holds the shard lock.
func (s *ShardedStore) evictOldest(sh *shard) {
	var oldestID string
	var oldest int64
	for id, sess := range sh.sessions {
		seen := sess.lastSeen.Load()
		if oldestID == "" || seen < oldest {
			oldestID, oldest = id, seen
		}
	}
	if oldestID != "" {
		delete(sh.sessions, oldestID)
		s.total.Add(-1)
		metrics.RecordSessionEvicted()
	}
}

// Get returns the session with the given id.
func (s *ShardedStore) Get(_ context.Context, id string) (*Session, error) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	sess, ok := sh.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch()
	return sess, nil
}

// Delete removes a session. Returns true if it existed.
func (s *ShardedStore) Delete(_ context.Context, id string) bool {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.sessions[id]; !ok {
		return false
	}
	delete(sh.sessions, id)
	s.total.Add(-1)
	metrics.UpdateActiveSessions(int(s.total.Load()))
	return true
}

// Count returns the number of live sessions.
func (s *ShardedStore) Count(_ context.Context) int {
	return int(s.total.Load())
}
