// Package store defines the shared-game-record contract used in
// multi-actor deployments: atomic read-modify-write transactions plus a
// change feed for observers. Mutual exclusion is optimistic, never a
// persistent lock: a transaction reads a snapshot, re-derives its
// preconditions against it, and either commits or aborts with no effect.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dkoya/spade3/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for the game id.
	ErrNotFound = errors.New("game not found")

	// ErrNoChange aborts a transaction benignly: the callback found its
	// precondition already satisfied (or already overtaken) and nothing is
	// committed. Transact swallows it and returns nil.
	ErrNoChange = errors.New("no change")
)

// TxnFunc mutates a private snapshot of the stored record. Returning nil
// commits the mutated snapshot; ErrNoChange aborts without effect; any
// other error aborts and propagates to the caller.
type TxnFunc func(gs *models.GameState) error

// Store is the shared mutable game record. Implementations must serialize
// concurrent Transact calls per game and re-invoke the callback on a fresh
// snapshot whenever a concurrent commit wins the race.
type Store interface {
	// CreateGame persists the initial record.
	CreateGame(ctx context.Context, gs *models.GameState) error

	// ReadGame returns a copy of the current record, or ErrNotFound.
	ReadGame(ctx context.Context, id uuid.UUID) (*models.GameState, error)

	// Transact applies fn atomically against the current record.
	Transact(ctx context.Context, id uuid.UUID, fn TxnFunc) error

	// Subscribe registers onChange for every committed record of the
	// game. The returned cancel func stops delivery.
	Subscribe(ctx context.Context, id uuid.UUID, onChange func(gs models.GameState)) (func(), error)
}
