package game

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dkoya/spade3/internal/models"
)

// OnGameEndFunc receives the final state once for recording and broadcast.
type OnGameEndFunc func(final models.GameState)

// Timings control the pacing timers of a single-actor game. They exist so
// tests can run a whole game in milliseconds while production keeps the
// original feel: bots "think", settled tricks linger on the table.
type Timings struct {
	BotThink        time.Duration // delay before a computer seat moves
	Settle          time.Duration // delay between trick completion and settlement
	NextRound       time.Duration // delay between settlement and the next trick
	ProviderTimeout time.Duration // hard deadline on a Move Provider call
}

// DefaultTimings mirrors the original client pacing, overridable via
// SPADE3_BOT_THINK_MS, SPADE3_SETTLE_MS, SPADE3_NEXT_ROUND_MS and
// SPADE3_PROVIDER_TIMEOUT_MS.
func DefaultTimings() Timings {
	return Timings{
		BotThink:        envMs("SPADE3_BOT_THINK_MS", 1500*time.Millisecond),
		Settle:          envMs("SPADE3_SETTLE_MS", 1000*time.Millisecond),
		NextRound:       envMs("SPADE3_NEXT_ROUND_MS", 3000*time.Millisecond),
		ProviderTimeout: envMs("SPADE3_PROVIDER_TIMEOUT_MS", 5000*time.Millisecond),
	}
}

func envMs(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	ms, err := strconv.Atoi(s)
	if err != nil || ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Game owns one game's state exclusively in single-actor mode. All
// mutations run under Mu through the same three transitions the
// store-backed mode uses; computer seats are driven by scheduled timers
// that call PlayCard exactly like a human input would.
type Game struct {
	ID    uuid.UUID
	State *models.GameState
	Mu    sync.Mutex

	Provider   MoveProvider
	Difficulty string
	Timings    Timings

	// BroadcastFn sends an event to every connected client; nil disables
	// broadcasting. BroadcastToPlayerFn targets a single player.
	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID string, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	logger *logrus.Logger

	settleTimer *time.Timer
	roundTimer  *time.Timer
	botTimer    *time.Timer
}

// NewGame wraps an initialized state in an engine.
func NewGame(state *models.GameState, provider MoveProvider, logger *logrus.Logger) *Game {
	if logger == nil {
		logger = logrus.New()
	}
	return &Game{
		ID:       state.ID,
		State:    state,
		Provider: provider,
		Timings:  DefaultTimings(),
		logger:   logger,
	}
}

// Start announces the first trick and kicks off the opener's bot timer if
// the opening seat is computer-controlled.
func (g *Game) Start() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.logger.WithFields(logrus.Fields{
		"game":    g.ID,
		"players": g.State.PlayerCount,
		"rounds":  g.State.TotalRounds,
		"opener":  g.State.CurrentTurn,
	}).Info("game started")
	g.fireEvent(GameEvent{Type: EventRoundStarted, Message: g.State.StatusMessage})
	g.scheduleBotMove()
}

// Snapshot returns the redacted view for one viewer.
func (g *Game) Snapshot(viewerID string) models.Snapshot {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.State.SnapshotFor(viewerID)
}

// PlayCard validates and applies one play. Rejections leave the state
// unchanged, are reported to the caller, and additionally surface to the
// acting player as a private invalid_move event.
func (g *Game) PlayCard(playerID, cardID string) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.playCardLocked(playerID, cardID)
}

// playCardLocked assumes Mu is held.
func (g *Game) playCardLocked(playerID, cardID string) error {
	if err := applyPlay(g.State, playerID, cardID); err != nil {
		g.logger.WithFields(logrus.Fields{
			"game":   g.ID,
			"player": playerID,
			"card":   cardID,
		}).WithError(err).Debug("play rejected")
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventInvalidMove,
			Message: err.Error(),
		})
		return err
	}

	played := g.State.CardsOnTable[len(g.State.CardsOnTable)-1].Card
	g.logger.WithFields(logrus.Fields{
		"game":   g.ID,
		"player": playerID,
		"card":   played.ID,
		"round":  g.State.CurrentRound,
	}).Info("card played")
	g.fireEvent(GameEvent{
		Type:     EventCardPlayed,
		PlayerID: playerID,
		Card:     &played,
		Message:  g.State.StatusMessage,
	})

	if g.State.TrickComplete() {
		g.settleTimer = time.AfterFunc(g.Timings.Settle, g.SettleTrick)
		return nil
	}
	g.scheduleBotMove()
	return nil
}

// SettleTrick resolves the open trick once the table is full. Duplicate or
// early invocations are harmless no-ops, so it is safe to trigger from
// multiple timers or an external scheduler.
func (g *Game) SettleTrick() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	summary, err := applySettlement(g.State)
	if err != nil {
		g.logger.WithField("game", g.ID).WithError(err).Error("trick settlement failed")
		return
	}
	if summary == nil {
		return
	}

	g.logger.WithFields(logrus.Fields{
		"game":   g.ID,
		"round":  summary.RoundNumber,
		"winner": summary.WinnerID,
		"team":   summary.WinningTeam,
		"points": summary.Points,
	}).Info("trick settled")
	g.fireEvent(GameEvent{
		Type:     EventTrickSettled,
		PlayerID: summary.WinnerID,
		Summary:  summary,
		Message:  g.State.StatusMessage,
	})

	g.roundTimer = time.AfterFunc(g.Timings.NextRound, g.AdvanceRound)
}

// AdvanceRound starts the next trick or finishes the game. Idempotent:
// invoked with no settled trick pending it does nothing.
func (g *Game) AdvanceRound() {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if !applyRoundAdvance(g.State) {
		return
	}

	if g.State.Finished {
		g.logger.WithFields(logrus.Fields{
			"game":   g.ID,
			"winner": g.State.GameWinner,
			"scoreA": g.State.Teams[models.TeamA].Score,
			"scoreB": g.State.Teams[models.TeamB].Score,
		}).Info("game over")
		g.stopTimersLocked()
		g.fireEvent(GameEvent{
			Type:    EventGameEnd,
			Message: g.State.StatusMessage,
			Payload: map[string]interface{}{
				"winner": g.State.GameWinner,
				"scores": map[models.TeamID]int{
					models.TeamA: g.State.Teams[models.TeamA].Score,
					models.TeamB: g.State.Teams[models.TeamB].Score,
				},
			},
		})
		if g.OnGameEnd != nil {
			final := *g.State.Clone()
			go g.OnGameEnd(final)
		}
		return
	}

	g.fireEvent(GameEvent{Type: EventRoundStarted, Message: g.State.StatusMessage})
	g.scheduleBotMove()
}

// scheduleBotMove arms the thinking timer when the seat on turn is
// computer-controlled. Assumes Mu is held. The fired move goes through
// PlayCard like any other input; a stale timer loses the turn-ownership
// check there and aborts harmlessly.
func (g *Game) scheduleBotMove() {
	moverID := g.State.CurrentTurn
	if moverID == "" || g.State.Finished || g.Provider == nil {
		return
	}
	mover, ok := g.State.Players[moverID]
	if !ok || mover.IsHuman {
		return
	}
	if g.botTimer != nil {
		g.botTimer.Stop()
	}
	g.botTimer = time.AfterFunc(g.Timings.BotThink, func() {
		g.runBotTurn(moverID)
	})
}

// runBotTurn asks the Move Provider for a card and plays it. The provider
// is untrusted: an illegal choice, an error or a timeout all fall back to
// the first legal card.
func (g *Game) runBotTurn(moverID string) {
	g.Mu.Lock()
	if g.State.Finished || g.State.CurrentTurn != moverID {
		g.Mu.Unlock()
		return
	}
	mover := g.State.Players[moverID]
	legal := LegalMoves(mover.Hand, g.State.LeadingSuit)
	snap := g.State.SnapshotFor(moverID)
	g.Mu.Unlock()

	if len(legal) == 0 {
		g.logger.WithFields(logrus.Fields{"game": g.ID, "player": moverID}).Warn("bot has no cards to play")
		return
	}

	chosen := legal[0].ID
	ctx, cancel := context.WithTimeout(context.Background(), g.Timings.ProviderTimeout)
	move, err := g.Provider.ChooseMove(ctx, snap, legal, moverID, g.Difficulty)
	cancel()
	switch {
	case err != nil:
		g.logger.WithFields(logrus.Fields{"game": g.ID, "player": moverID}).
			WithError(err).Warn("move provider failed, playing fallback card")
	case !containsCard(legal, move.CardID):
		g.logger.WithFields(logrus.Fields{
			"game": g.ID, "player": moverID, "card": move.CardID,
		}).Warn("move provider returned an illegal card, playing fallback card")
	default:
		chosen = move.CardID
		if move.Rationale != "" {
			g.logger.WithFields(logrus.Fields{
				"game": g.ID, "player": moverID, "card": chosen,
			}).Debugf("bot rationale: %s", move.Rationale)
		}
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.State.Finished || g.State.CurrentTurn != moverID {
		return
	}
	if err := g.playCardLocked(moverID, chosen); err != nil {
		g.logger.WithFields(logrus.Fields{"game": g.ID, "player": moverID, "card": chosen}).
			WithError(err).Error("bot fallback play rejected")
	}
}

func containsCard(cards []models.Card, id string) bool {
	for _, c := range cards {
		if c.ID == id {
			return true
		}
	}
	return false
}

// stopTimersLocked cancels pending pacing timers. Assumes Mu is held.
func (g *Game) stopTimersLocked() {
	for _, t := range []*time.Timer{g.settleTimer, g.roundTimer, g.botTimer} {
		if t != nil {
			t.Stop()
		}
	}
}

// fireEvent broadcasts an event to all connected players. Assumes Mu is
// held; BroadcastFn implementations must not re-enter the game lock
// synchronously.
func (g *Game) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event to one player only. Assumes Mu is held.
func (g *Game) fireEventToPlayer(playerID string, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}
