package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// MemoryStore is an in-memory Store. It backs the tests and serves as a
// fallback for stores without native substring queries: Find evaluates
// the Query directly, preserving the case-insensitive containment
// semantics the Mongo implementation gets from $regex.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
	}
}

func (s *MemoryStore) Insert(_ context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id := uuid.New().String()
	stored["_id"] = id

	s.collections[collection] = append(s.collections[collection], stored)
	return id, nil
}

func (s *MemoryStore) Find(_ context.Context, collection string, q Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.limit()
	var docs []Document
	for _, doc := range s.collections[collection] {
		if !matches(doc, q) {
			continue
		}
		docs = append(docs, doc)
		if int64(len(docs)) >= limit {
			break
		}
	}
	return docs, nil
}

func matches(doc Document, q Query) bool {
	for field, want := range q.Equals {
		if cast.ToString(doc[field]) != want {
			return false
		}
	}

	if q.Search == "" || len(q.SearchFields) == 0 {
		return true
	}

	needle := strings.ToLower(q.Search)
	for _, field := range q.SearchFields {
		value, ok := doc[field].(string)
		if ok && strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) Collections(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Name() string {
	return "memory"
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}
