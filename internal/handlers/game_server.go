// internal/handlers/game_server.go
package handlers

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dkoya/spade3/internal/bot"
	"github.com/dkoya/spade3/internal/cache"
	"github.com/dkoya/spade3/internal/database"
	"github.com/dkoya/spade3/internal/deck"
	"github.com/dkoya/spade3/internal/game"
	"github.com/dkoya/spade3/internal/models"
)

// GameServer holds the registry of live games and the per-game client
// connections used for broadcasting.
type GameServer struct {
	GameStore *game.GameStore
	Logger    *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]map[string]*websocket.Conn // gameID -> playerID -> conn
}

func NewGameServer(logger *logrus.Logger) *GameServer {
	if logger == nil {
		logger = logrus.New()
	}
	return &GameServer{
		GameStore: game.NewGameStore(),
		Logger:    logger,
		conns:     make(map[uuid.UUID]map[string]*websocket.Conn),
	}
}

// CreateGame deals a new table, wires the bot provider and broadcast
// plumbing, registers the game and starts it.
func (gs *GameServer) CreateGame(playerCount int, seats []deck.Seat) (*game.Game, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state, err := game.Initialize(playerCount, seats, rng)
	if err != nil {
		return nil, err
	}

	g := game.NewGame(state, bot.NewHeuristic(), gs.Logger)
	g.BroadcastFn = gs.broadcastFunc(g.ID)
	g.BroadcastToPlayerFn = gs.broadcastToPlayerFunc(g.ID)
	g.OnGameEnd = gs.recordResult

	gs.GameStore.AddGame(g)
	g.Start()
	return g, nil
}

// recordResult persists a finished game to Postgres and pushes an audit
// record onto the Redis result queue. Either backend may be absent (local
// play); failures are logged and never surface into game flow.
func (gs *GameServer) recordResult(final models.GameState) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if database.DB != nil {
		if err := database.SaveGameResult(ctx, &final); err != nil {
			gs.Logger.WithField("game", final.ID).WithError(err).Error("failed to persist game result")
		}
	}
	if cache.Rdb != nil {
		record := cache.GameResultRecord{
			GameID:      final.ID,
			PlayerCount: final.PlayerCount,
			Winner:      final.GameWinner,
			Scores: map[models.TeamID]int{
				models.TeamA: final.Teams[models.TeamA].Score,
				models.TeamB: final.Teams[models.TeamB].Score,
			},
			Rounds:    final.RoundHistory,
			Timestamp: time.Now().Unix(),
		}
		if err := cache.PublishGameResult(ctx, record); err != nil {
			gs.Logger.WithField("game", final.ID).WithError(err).Error("failed to queue game result")
		}
	}
}

// registerConn attaches a player's websocket to a game, replacing any
// previous connection for that seat.
func (gs *GameServer) registerConn(gameID uuid.UUID, playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.conns[gameID] == nil {
		gs.conns[gameID] = make(map[string]*websocket.Conn)
	}
	gs.conns[gameID][playerID] = c
}

func (gs *GameServer) unregisterConn(gameID uuid.UUID, playerID string, c *websocket.Conn) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.conns[gameID][playerID] == c {
		delete(gs.conns[gameID], playerID)
	}
}

// broadcastFunc builds a game.BroadcastFn. It is called while the game
// lock is held, so the actual writes happen on a goroutine with a copy of
// the current connection set.
func (gs *GameServer) broadcastFunc(gameID uuid.UUID) func(ev game.GameEvent) {
	return func(ev game.GameEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			gs.Logger.WithField("game", gameID).WithError(err).Error("failed to marshal broadcast event")
			return
		}

		gs.mu.Lock()
		targets := make([]*websocket.Conn, 0, len(gs.conns[gameID]))
		for _, c := range gs.conns[gameID] {
			targets = append(targets, c)
		}
		gs.mu.Unlock()

		go func() {
			for _, c := range targets {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				if err := c.Write(ctx, websocket.MessageText, data); err != nil {
					gs.Logger.WithField("game", gameID).WithError(err).Warn("broadcast write failed")
				}
				cancel()
			}
		}()
	}
}

// broadcastToPlayerFunc builds a game.BroadcastToPlayerFn targeting one
// seat's connection.
func (gs *GameServer) broadcastToPlayerFunc(gameID uuid.UUID) func(playerID string, ev game.GameEvent) {
	return func(playerID string, ev game.GameEvent) {
		data, err := json.Marshal(ev)
		if err != nil {
			gs.Logger.WithField("game", gameID).WithError(err).Error("failed to marshal player event")
			return
		}

		gs.mu.Lock()
		c := gs.conns[gameID][playerID]
		gs.mu.Unlock()
		if c == nil {
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := c.Write(ctx, websocket.MessageText, data); err != nil {
				gs.Logger.WithFields(logrus.Fields{"game": gameID, "player": playerID}).
					WithError(err).Warn("player write failed")
			}
		}()
	}
}
