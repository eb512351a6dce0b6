package memcache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	expireAt time.Time
}

// Store is a process-local TTL cache. Eviction is lazy: expired entries are
// treated as absent and removed on read, there is no background sweep.
// Multiple processes do not share state, which bounds how far the cache can
// reduce upstream traffic when the service is scaled horizontally.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the payload stored under key, or false if absent or expired.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expireAt) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, expireAt: s.now().Add(ttl)}
}

// Delete removes one entry.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Flush drops every entry.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
}

// Len reports live entries, counting ones that expired but were not read yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Signature derives a deterministic cache key from an endpoint and its
// request parameters. Params are marshaled as a map, which encoding/json
// serializes with sorted keys, so two logically identical requests produce
// the same signature regardless of how the caller assembled the map.
func Signature(endpoint string, params map[string]string) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(append([]byte(endpoint+"?"), data...))
	return fmt.Sprintf("req:%x", hash[:16])
}
