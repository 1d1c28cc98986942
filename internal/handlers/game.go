// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dkoya/spade3/internal/deck"
	"github.com/dkoya/spade3/internal/models"
)

// CreateGameRequest is the POST /game/create body. Humans maps seat index
// to display name; every unnamed seat is filled with a computer player.
type CreateGameRequest struct {
	PlayerCount int            `json:"playerCount"`
	Humans      map[int]string `json:"humans"`
}

// CreateGameResponse returns the new game id plus a spectator snapshot.
type CreateGameResponse struct {
	GameID uuid.UUID       `json:"gameId"`
	State  models.Snapshot `json:"state"`
}

// CreateGameHandler builds a new table from the requested seating plan.
// Unsupported player counts are rejected; nothing defaults silently to a
// different table shape.
func CreateGameHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST required", http.StatusMethodNotAllowed)
			return
		}
		var req CreateGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if !deck.SupportedPlayerCount(req.PlayerCount) {
			http.Error(w, "playerCount must be one of 4, 6, 8, 12", http.StatusBadRequest)
			return
		}

		seats := deck.DefaultSeats(req.PlayerCount)
		for idx, name := range req.Humans {
			if idx < 0 || idx >= req.PlayerCount {
				http.Error(w, "human seat index out of range", http.StatusBadRequest)
				return
			}
			seats[idx] = deck.Seat{Name: name, Human: true}
		}

		g, err := gs.CreateGame(req.PlayerCount, seats)
		if err != nil {
			if errors.Is(err, deck.ErrUnsupportedPlayerCount) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gs.Logger.WithError(err).Error("game creation failed")
			http.Error(w, "failed to create game", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(CreateGameResponse{
			GameID: g.ID,
			State:  g.Snapshot(""),
		})
	}
}

// GameStateHandler serves GET /game/state/{game_id}?player={player_id}
// with the redacted snapshot for that viewer (spectator view when the
// player parameter is absent).
func GameStateHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimPrefix(r.URL.Path, "/game/state/")
		gameID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "invalid game_id", http.StatusBadRequest)
			return
		}
		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.Snapshot(r.URL.Query().Get("player")))
	}
}
