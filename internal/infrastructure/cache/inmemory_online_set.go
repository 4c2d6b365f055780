package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/promanage/backend/internal/domain/chat"
)

// InMemoryOnlineSet implements chat.OnlineSet using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryOnlineSet struct {
	mu      sync.RWMutex
	members map[uuid.UUID]struct{}
}

// NewInMemoryOnlineSet creates a new in-memory online set
func NewInMemoryOnlineSet() *InMemoryOnlineSet {
	return &InMemoryOnlineSet{
		members: make(map[uuid.UUID]struct{}),
	}
}

// Add marks a user as online
func (s *InMemoryOnlineSet) Add(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[userID] = struct{}{}
	return nil
}

// Remove marks a user as offline
func (s *InMemoryOnlineSet) Remove(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, userID)
	return nil
}

// Members lists all users currently online
func (s *InMemoryOnlineSet) Members(_ context.Context) ([]uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	return ids, nil
}

// Ensure InMemoryOnlineSet implements chat.OnlineSet
var _ chat.OnlineSet = (*InMemoryOnlineSet)(nil)
