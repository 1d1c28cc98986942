package game

import "errors"

// Rejection reasons for the play operation. Every rejected play leaves the
// state untouched and carries exactly one of these sentinels so callers can
// branch with errors.Is and surface a specific message to the player.
var (
	ErrGameOver       = errors.New("game is over")
	ErrTrickPending   = errors.New("trick is awaiting settlement")
	ErrUnknownPlayer  = errors.New("player is not in this game")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrCardNotHeld    = errors.New("card is not in your hand")
	ErrMustFollowSuit = errors.New("must follow the leading suit")

	// ErrEmptyTrick guards the resolver: settlement must never be invoked
	// on an empty table.
	ErrEmptyTrick = errors.New("cannot resolve an empty trick")
)
