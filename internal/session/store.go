package session

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute
)

// Store holds sessions by ID.
type Store interface {
	// Get returns the session and whether it exists.
	Get(id string) (*Session, bool)
	// Put inserts or replaces a session and refreshes its expiry.
	Put(s *Session)
	// Touch refreshes a session's expiry without changing it.
	Touch(id string) bool
	Delete(id string)
	Len() int
}

// MemoryStore is a bounded in-process Store. Sessions idle longer than the
// TTL expire, and the least recently used session is evicted once the
// maximum count is reached.
type MemoryStore struct {
	cache  *expirable.LRU[string, *Session]
	logger *zap.Logger
}

// MemoryStoreConfig configures a MemoryStore. Zero values use the defaults;
// a negative value disables that bound.
type MemoryStoreConfig struct {
	MaxSessions int
	IdleTTL     time.Duration
	Logger      *zap.Logger
}

func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	size := cfg.MaxSessions
	switch {
	case size == 0:
		size = DefaultMaxSessions
	case size < 0:
		size = 0 // unbounded
	}

	ttl := cfg.IdleTTL
	switch {
	case ttl == 0:
		ttl = DefaultIdleTTL
	case ttl < 0:
		ttl = 0 // never expires
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &MemoryStore{logger: logger}
	s.cache = expirable.NewLRU[string, *Session](size, s.onEvict, ttl)
	return s
}

func (s *MemoryStore) onEvict(id string, sess *Session) {
	s.logger.Debug("session evicted",
		zap.String("session_id", id),
		zap.Int("turns", len(sess.History)),
	)
}

func (s *MemoryStore) Get(id string) (*Session, bool) {
	return s.cache.Get(id)
}

func (s *MemoryStore) Put(sess *Session) {
	if sess == nil || sess.ID == "" {
		return
	}
	s.cache.Add(sess.ID, sess)
}

func (s *MemoryStore) Touch(id string) bool {
	sess, ok := s.cache.Get(id)
	if !ok {
		return false
	}
	s.cache.Add(id, sess)
	return true
}

func (s *MemoryStore) Delete(id string) {
	s.cache.Remove(id)
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
