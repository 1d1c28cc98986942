package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoya/spade3/internal/models"
)

func sampleState() *models.GameState {
	id := uuid.New()
	return &models.GameState{
		ID:      id,
		Players: map[string]*models.Player{"Player 1": {ID: "Player 1", Name: "Player 1"}},
		Seats:   []string{"Player 1"},
		Teams: map[models.TeamID]*models.Team{
			models.TeamA: {ID: models.TeamA},
			models.TeamB: {ID: models.TeamB},
		},
		RoundHistory: map[int]models.RoundSummary{},
		CurrentRound: 1,
	}
}

func TestCreateAndReadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	// Mutating the caller's value after Create must not leak into the store.
	gs.CurrentRound = 99
	read, err := s.ReadGame(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, read.CurrentRound)

	// Mutating a read value must not leak either.
	read.CurrentRound = 42
	again, err := s.ReadGame(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.CurrentRound)
}

func TestCreateDuplicateFails(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))
	assert.Error(t, s.CreateGame(ctx, gs))
}

func TestReadUnknownGame(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.ReadGame(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransactCommitsOnNil(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	err := s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
		cur.CurrentRound = 7
		return nil
	})
	require.NoError(t, err)

	read, err := s.ReadGame(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, read.CurrentRound)
}

func TestTransactAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	boom := errors.New("validation failed")
	err := s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
		cur.CurrentRound = 999
		return boom
	})
	assert.ErrorIs(t, err, boom)

	read, err := s.ReadGame(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, read.CurrentRound, "aborted mutations must not be visible")
}

func TestTransactNoChangeIsSilent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	notified := false
	cancel, err := s.Subscribe(ctx, gs.ID, func(models.GameState) { notified = true })
	require.NoError(t, err)
	defer cancel()

	err = s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
		return ErrNoChange
	})
	assert.NoError(t, err, "a benign abort is not an error to the caller")
	assert.False(t, notified, "aborted transactions never notify subscribers")
}

func TestSubscribeDeliversCommits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	var got []int
	cancel, err := s.Subscribe(ctx, gs.ID, func(cur models.GameState) {
		got = append(got, cur.CurrentRound)
	})
	require.NoError(t, err)

	for round := 2; round <= 4; round++ {
		r := round
		require.NoError(t, s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
			cur.CurrentRound = r
			return nil
		}))
	}
	assert.Equal(t, []int{2, 3, 4}, got)

	cancel()
	require.NoError(t, s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
		cur.CurrentRound = 50
		return nil
	}))
	assert.Equal(t, []int{2, 3, 4}, got, "cancelled subscriptions receive nothing")
}

func TestSubscribeUnknownGame(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Subscribe(context.Background(), uuid.New(), func(models.GameState) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Subscribers may issue follow-up transactions from inside the callback,
// which is how coordinators react to state changes.
func TestSubscriberCanTransactFromCallback(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	require.NoError(t, s.CreateGame(ctx, gs))

	done := make(chan struct{})
	cancel, err := s.Subscribe(ctx, gs.ID, func(cur models.GameState) {
		if cur.CurrentRound != 2 {
			return
		}
		_ = s.Transact(ctx, gs.ID, func(inner *models.GameState) error {
			inner.CurrentRound = 3
			return ErrNoChange
		})
		close(done)
	})
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
		cur.CurrentRound = 2
		return nil
	}))
	<-done
}

func TestConcurrentTransactionsSerialize(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	gs := sampleState()
	gs.CurrentRoundPoints = 0
	require.NoError(t, s.CreateGame(ctx, gs))

	const workers = 16
	const perWorker = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_ = s.Transact(ctx, gs.ID, func(cur *models.GameState) error {
					cur.CurrentRoundPoints++
					return nil
				})
			}
		}()
	}
	wg.Wait()

	read, err := s.ReadGame(ctx, gs.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, read.CurrentRoundPoints, "increments must never be lost")
}
