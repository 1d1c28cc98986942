package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dkoya/spade3/internal/models"
)

// MemoryStore is the in-process Store used by tests and single-node
// deployments. One mutex serializes transactions; callbacks always see a
// deep copy, so an abort leaves the stored record untouched.
type MemoryStore struct {
	mu     sync.Mutex
	games  map[uuid.UUID]*models.GameState
	subs   map[uuid.UUID]map[int]func(gs models.GameState)
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[uuid.UUID]*models.GameState),
		subs:  make(map[uuid.UUID]map[int]func(gs models.GameState)),
	}
}

func (s *MemoryStore) CreateGame(ctx context.Context, gs *models.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[gs.ID]; exists {
		return fmt.Errorf("game %s already exists", gs.ID)
	}
	s.games[gs.ID] = gs.Clone()
	return nil
}

func (s *MemoryStore) ReadGame(ctx context.Context, id uuid.UUID) (*models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return gs.Clone(), nil
}

func (s *MemoryStore) Transact(ctx context.Context, id uuid.UUID, fn TxnFunc) error {
	s.mu.Lock()
	current, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	snapshot := current.Clone()
	if err := fn(snapshot); err != nil {
		s.mu.Unlock()
		if err == ErrNoChange {
			return nil
		}
		return err
	}
	s.games[id] = snapshot

	// Notify with a private copy outside the lock so a subscriber can
	// issue follow-up transactions.
	var callbacks []func(gs models.GameState)
	for _, cb := range s.subs[id] {
		callbacks = append(callbacks, cb)
	}
	committed := snapshot.Clone()
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(*committed.Clone())
	}
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, id uuid.UUID, onChange func(gs models.GameState)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, ErrNotFound
	}
	if s.subs[id] == nil {
		s.subs[id] = make(map[int]func(gs models.GameState))
	}
	token := s.nextID
	s.nextID++
	s.subs[id][token] = onChange

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[id], token)
	}
	return cancel, nil
}
