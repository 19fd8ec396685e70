// Package cache holds the ListCache: the ordered records of each active
// list query, keyed by the query that produced them.
package cache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/heartmarshall/backoffice/internal/domain"
)

// Key identifies one list query.
type Key struct {
	Operation string
	Cond      string
	Limit     int
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%q, %d)", k.Operation, k.Cond, k.Limit)
}

// Store keeps one record list per Key.
type Store interface {
	Get(key Key) ([]domain.Record, bool)
	Set(key Key, records []domain.Record)
	// Update applies fn atomically to the list under key and stores the
	// result. It returns false, without calling fn, when key is absent.
	Update(key Key, fn func([]domain.Record) []domain.Record) ([]domain.Record, bool)
	Delete(key Key)
}

// MemoryStore is an in-process Store bounded by an LRU policy.
type MemoryStore struct {
	mu    sync.Mutex
	lists *lru.Cache[Key, []domain.Record]
}

// NewMemoryStore creates a store holding at most capacity lists.
func NewMemoryStore(capacity int) (*MemoryStore, error) {
	lists, err := lru.New[Key, []domain.Record](capacity)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &MemoryStore{lists: lists}, nil
}

func (s *MemoryStore) Get(key Key) ([]domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists.Get(key)
}

func (s *MemoryStore) Set(key Key, records []domain.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists.Add(key, records)
}

func (s *MemoryStore) Update(key Key, fn func([]domain.Record) []domain.Record) ([]domain.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lists.Get(key)
	if !ok {
		return nil, false
	}
	next := fn(current)
	s.lists.Add(key, next)
	return next, true
}

func (s *MemoryStore) Delete(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists.Remove(key)
}

// Len returns the number of cached lists.
func (s *MemoryStore) Len() int {
	return s.lists.Len()
}
