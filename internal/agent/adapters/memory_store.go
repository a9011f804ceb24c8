package adapters

import (
	"context"
	"sync"

	"github.com/sachanayush47/bolna/internal/agent/ports"
)

// NewMemoryStores creates a run store and object store backed by in-memory
// maps, used by tests and local runs without AWS credentials.
func NewMemoryStores() (*MemoryRunStore, *MemoryObjectStore) {
	return &MemoryRunStore{runs: map[string]ports.CostRecord{}},
		&MemoryObjectStore{objects: map[string][]byte{}}
}

// MemoryRunStore keeps cost records in a map keyed by the composite run key.
// Writes overwrite, matching the durable store's semantics.
type MemoryRunStore struct {
	mu     sync.RWMutex
	runs   map[string]ports.CostRecord
	writes int
}

func runKey(userID, assistantID, runID string) string {
	return userID + "/" + assistantID + "/" + runID
}

func (s *MemoryRunStore) StoreRun(_ context.Context, userID, assistantID, runID string, record ports.CostRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[runKey(userID, assistantID, runID)] = record
	s.writes++
	return nil
}

// GetRun returns the stored record for a run, if any.
func (s *MemoryRunStore) GetRun(userID, assistantID, runID string) (ports.CostRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.runs[runKey(userID, assistantID, runID)]
	return record, ok
}

// Len returns the number of distinct runs stored.
func (s *MemoryRunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Writes returns the total number of StoreRun calls, counting overwrites.
func (s *MemoryRunStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// MemoryObjectStore keeps blobs in a map keyed by bucket/key.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func (s *MemoryObjectStore) Put(_ context.Context, bucket, key string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(body))
	copy(stored, body)
	s.objects[bucket+"/"+key] = stored
	return nil
}

// Get returns the stored object, if any.
func (s *MemoryObjectStore) Get(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.objects[bucket+"/"+key]
	return body, ok
}
