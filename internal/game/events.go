package game

import "github.com/dkoya/spade3/internal/models"

// GameEventType is an enum-like type for broadcasting game transitions.
type GameEventType string

const (
	EventCardPlayed    GameEventType = "card_played"
	EventTrickSettled  GameEventType = "trick_settled"
	EventRoundStarted  GameEventType = "round_started"
	EventGameEnd       GameEventType = "game_end"
	EventInvalidMove   GameEventType = "invalid_move"   // private: rejected play + reason
	EventPrivateSync   GameEventType = "private_sync"   // private: redacted state on connect / change
	EventStatusMessage GameEventType = "status_message" // display text only, never authoritative
)

// GameEvent is the broadcast envelope sent to clients in a consistent
// format. Pointer fields are omitted when not relevant to the event type.
type GameEvent struct {
	Type     GameEventType          `json:"type"`
	PlayerID string                 `json:"playerId,omitempty"`
	Card     *models.Card           `json:"card,omitempty"`
	Summary  *models.RoundSummary   `json:"summary,omitempty"`
	State    *models.Snapshot       `json:"state,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}
