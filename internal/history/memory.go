package history

import (
	"context"
	"sync"
)

// MemoryStore keeps run records in memory. It is the default when no
// database is configured, and the store of choice in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string][]*RunRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string][]*RunRecord)}
}

// SaveRun appends one completed run.
func (s *MemoryStore) SaveRun(_ context.Context, rec *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *rec
	s.runs[rec.ConversationID] = append(s.runs[rec.ConversationID], &copied)
	return nil
}

// GetRuns returns all runs for a conversation in insertion order.
func (s *MemoryStore) GetRuns(_ context.Context, conversationID string) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.runs[conversationID]
	records := make([]*RunRecord, len(stored))
	for i, rec := range stored {
		copied := *rec
		records[i] = &copied
	}
	return records, nil
}
