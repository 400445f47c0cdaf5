package session

import "sync"

// Draft is an in-progress work log. It lives between choosing an order and
// submitting a quantity.
type Draft struct {
	OrderID     string
	OrderNumber string
	WorkType    string
}

// HasWorkType reports whether the draft is waiting for a quantity
func (d Draft) HasWorkType() bool {
	return d.WorkType != ""
}

// Store holds at most one draft per user
type Store interface {
	Get(userID int64) (Draft, bool)
	Set(userID int64, draft Draft)
	Delete(userID int64)
}

// MemoryStore is a process-local Store. Drafts are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[int64]Draft
}

// NewMemoryStore creates an empty draft store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[int64]Draft)}
}

// Get returns the user's draft, if any
func (s *MemoryStore) Get(userID int64) (Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[userID]
	return d, ok
}

// Set replaces the user's draft
func (s *MemoryStore) Set(userID int64, draft Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = draft
}

// Delete removes the user's draft
func (s *MemoryStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}
