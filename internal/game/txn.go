package game

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkoya/spade3/internal/models"
	"github.com/dkoya/spade3/internal/store"
)

// Store-backed operations for multi-actor mode. Each runs as an atomic
// compare-and-retry transaction: preconditions are recomputed against the
// exact snapshot the transaction reads, so a concurrent actor losing the
// race either gets a specific rejection (play) or aborts as a benign
// no-op (settlement, round advance).

// PlayCardTxn applies one play against the shared record. Rejections
// (wrong turn, card not held, suit violation, game over) commit nothing
// and propagate the typed reason.
func PlayCardTxn(ctx context.Context, st store.Store, gameID uuid.UUID, playerID, cardID string) error {
	return st.Transact(ctx, gameID, func(gs *models.GameState) error {
		return applyPlay(gs, playerID, cardID)
	})
}

// SettleTrickTxn settles the open trick exactly once. A snapshot that has
// already settled (or whose trick is not complete) aborts without effect,
// so duplicate settlement triggers from racing observers are idempotent.
func SettleTrickTxn(ctx context.Context, st store.Store, gameID uuid.UUID) error {
	return st.Transact(ctx, gameID, func(gs *models.GameState) error {
		summary, err := applySettlement(gs)
		if err != nil {
			return err
		}
		if summary == nil {
			return store.ErrNoChange
		}
		return nil
	})
}

// AdvanceRoundTxn starts the next trick or finishes the game; a snapshot
// with no settled trick pending aborts without effect.
func AdvanceRoundTxn(ctx context.Context, st store.Store, gameID uuid.UUID) error {
	return st.Transact(ctx, gameID, func(gs *models.GameState) error {
		if !applyRoundAdvance(gs) {
			return store.ErrNoChange
		}
		return nil
	})
}
