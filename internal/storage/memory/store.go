package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hongminglow/lendsqr-admin/internal/models"
	"github.com/hongminglow/lendsqr-admin/internal/storage"
)

var _ storage.HandoffStore = (*Store)(nil)

type slot struct {
	data      []byte
	expiresAt time.Time
}

// Store keeps hand-off slots in process memory as serialized JSON. A slot
// lives as long as the session that wrote it; expired slots read as missing
// and are swept on the next write.
type Store struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	slots map[string]slot
}

// NewHandoffStore creates a store whose slots expire ttl after their last
// write. A non-positive ttl keeps slots forever.
func NewHandoffStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, slots: make(map[string]slot)}
}

func (s *Store) Put(_ context.Context, sessionID string, user models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode handoff: %w", err)
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(now)
	entry := slot{data: data}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.slots[sessionID] = entry
	return nil
}

func (s *Store) Get(_ context.Context, sessionID string) (models.User, error) {
	s.mu.RLock()
	entry, ok := s.slots[sessionID]
	s.mu.RUnlock()
	if !ok || entry.expired(s.now()) {
		return models.User{}, storage.ErrNotFound
	}
	var user models.User
	if err := json.Unmarshal(entry.data, &user); err != nil {
		return models.User{}, fmt.Errorf("decode handoff: %w", err)
	}
	return user, nil
}

// Len reports how many slots are held, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

// sweep drops expired slots. Callers hold s.mu.
func (s *Store) sweep(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.slots {
		if entry.expired(now) {
			delete(s.slots, id)
		}
	}
}

func (e slot) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
