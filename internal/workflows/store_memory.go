package workflows

import (
	"context"
	"maps"
	"sync"
)

// Store is the registry of workflow records. Put fully replaces the record;
// read-modify-write across concurrent callers is last-write-wins.
type Store interface {
	Put(ctx context.Context, status WorkflowStatus) error
	Get(ctx context.Context, id string) (WorkflowStatus, error)
}

// MemoryStore keeps workflow records in memory and is safe for concurrent
// use. Records are never deleted; they live for the process lifetime.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]WorkflowStatus
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]WorkflowStatus),
	}
}

// Put stores the record, overwriting any previous record with the same id.
// The Services map is copied so later caller mutations do not reach the
// stored record.
func (s *MemoryStore) Put(ctx context.Context, status WorkflowStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	status.Services = maps.Clone(status.Services)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[status.ID] = status
	return nil
}

// Get returns a detached copy of the record for id, or ErrWorkflowNotFound.
// Callers read-modify-write their own copy; the stored record changes only
// through Put.
func (s *MemoryStore) Get(ctx context.Context, id string) (WorkflowStatus, error) {
	if err := ctx.Err(); err != nil {
		return WorkflowStatus{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.byID[id]
	if !ok {
		return WorkflowStatus{}, ErrWorkflowNotFound
	}
	status.Services = maps.Clone(status.Services)
	return status, nil
}

var _ Store = (*MemoryStore)(nil)
