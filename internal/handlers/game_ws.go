// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dkoya/spade3/internal/game"
	"github.com/dkoya/spade3/internal/middleware"
)

// GameMessage is the incoming WebSocket frame during play.
type GameMessage struct {
	Type string `json:"type"`
	Card struct {
		ID string `json:"id"`
	} `json:"card,omitempty"`
}

// GameWSHandler upgrades /game/ws/{game_id}/{player_id} to a WebSocket.
// The connection is registered for broadcasts, gets a private state sync,
// and then feeds play_card messages into the engine. Identity here is the
// seat id from the path; there is no authentication layer.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/game/ws/"), "/")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			http.Error(w, "path must be /game/ws/{game_id}/{player_id}", http.StatusBadRequest)
			return
		}
		gameID, err := uuid.Parse(parts[0])
		if err != nil {
			http.Error(w, "invalid game_id format", http.StatusBadRequest)
			return
		}
		playerID, err := decodePathSegment(parts[1])
		if err != nil {
			http.Error(w, "invalid player_id", http.StatusBadRequest)
			return
		}

		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		snap := g.Snapshot(playerID)
		seated := false
		for _, p := range snap.Players {
			if p.ID == playerID {
				seated = true
				break
			}
		}
		if !seated {
			http.Error(w, "player is not seated at this game", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // tighten for production
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		gs.registerConn(gameID, playerID, c)
		defer gs.unregisterConn(gameID, playerID, c)

		// Initial private sync so a (re)connecting client has the full
		// redacted state before any event lands.
		sendPrivateSync(r.Context(), c, g, playerID)

		readErr := readGameMessages(r.Context(), c, g, playerID, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

func decodePathSegment(s string) (string, error) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	if decoded == "" {
		return "", errors.New("empty segment")
	}
	return decoded, nil
}

func sendPrivateSync(ctx context.Context, c *websocket.Conn, g *game.Game, playerID string) {
	snap := g.Snapshot(playerID)
	ev := game.GameEvent{Type: game.EventPrivateSync, State: &snap}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = c.Write(ctx, websocket.MessageText, data)
}

// readGameMessages loops until the client goes away. Invalid moves are
// already reported back on the socket by the engine's private
// invalid_move event; the loop only drops malformed frames.
func readGameMessages(ctx context.Context, c *websocket.Conn, g *game.Game, playerID string, logger *logrus.Logger) error {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}
		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.WithField("player", playerID).Warnf("dropping malformed frame: %v", err)
			continue
		}

		switch msg.Type {
		case "play_card":
			if err := g.PlayCard(playerID, msg.Card.ID); err != nil {
				logger.WithFields(logrus.Fields{
					"game":   g.ID,
					"player": playerID,
					"card":   msg.Card.ID,
				}).Debugf("rejected play: %v", err)
			}
		case "sync":
			sendPrivateSync(ctx, c, g, playerID)
		default:
			logger.WithField("player", playerID).Warnf("unknown message type %q", msg.Type)
		}
	}
}
