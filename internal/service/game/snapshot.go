package game

import (
	"context"
	"sync"
	"time"

	"github.com/dysencn/gomoku-naive/internal/domain"
)

type memoryEntry struct {
	snap      domain.SessionSnapshot
	expiresAt time.Time
}

// MemorySnapshotStore is the fallback used when Redis is unavailable.
// Snapshots then live only as long as the process.
type MemorySnapshotStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemorySnapshotStore) SaveSnapshot(_ context.Context, snap *domain.SessionSnapshot, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{snap: copySnapshot(snap)}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[snap.GameID] = entry
	return nil
}

func (s *MemorySnapshotStore) LoadSnapshot(_ context.Context, gameID string) (*domain.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[gameID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, gameID)
		return nil, domain.ErrSessionNotFound
	}
	snap := copySnapshot(&entry.snap)
	return &snap, nil
}

func (s *MemorySnapshotStore) DeleteSnapshot(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, gameID)
	return nil
}

func copySnapshot(snap *domain.SessionSnapshot) domain.SessionSnapshot {
	out := *snap
	out.Board = make([][]int, len(snap.Board))
	for i, row := range snap.Board {
		out.Board[i] = append([]int(nil), row...)
	}
	out.Moves = append([]domain.Move(nil), snap.Moves...)
	return out
}
