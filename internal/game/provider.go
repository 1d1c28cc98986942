package game

import (
	"context"

	"github.com/dkoya/spade3/internal/models"
)

// Move is a Move Provider's chosen card plus a short rationale for logs.
type Move struct {
	CardID    string
	Rationale string
}

// MoveProvider chooses a card for a computer-controlled seat. It receives
// a redacted snapshot (the mover's own hand in full, other seats as hand
// sizes only) and the legal-move set computed by the engine.
//
// The provider is untrusted input: the engine revalidates the returned
// card id against the legal set and falls back to the first legal card
// when the choice is illegal, the call errors, or the context deadline
// expires. Provider failures never break a game.
type MoveProvider interface {
	ChooseMove(ctx context.Context, snap models.Snapshot, legal []models.Card, moverID, difficulty string) (Move, error)
}
