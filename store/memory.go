package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]interface{})}
}

func (s *MemoryStore) ListAll(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.collections[collection]))
	for id, fields := range s.collections[collection] {
		docs = append(docs, Document{ID: id, Fields: copyFields(fields)})
	}
	return docs, nil
}

func (s *MemoryStore) GetByID(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: copyFields(fields)}, nil
}

func (s *MemoryStore) Create(_ context.Context, collection string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	s.collections[collection][id] = copyFields(fields)
	return id, nil
}

func (s *MemoryStore) SetMerge(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	existing, ok := s.collections[collection][id]
	if !ok {
		existing = make(map[string]interface{})
	}
	for k, v := range copyFields(fields) {
		existing[k] = v
	}
	s.collections[collection][id] = existing
	return nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

// copyFields deep-copies a field map through JSON so callers never alias
// stored state.
func copyFields(fields map[string]interface{}) map[string]interface{} {
	data, err := json.Marshal(fields)
	if err != nil {
		panic(fmt.Sprintf("memory store: unencodable fields: %v", err))
	}
	out := make(map[string]interface{}, len(fields))
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("memory store: undecodable fields: %v", err))
	}
	return out
}
