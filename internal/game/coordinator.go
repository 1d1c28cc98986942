package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dkoya/spade3/internal/models"
	"github.com/dkoya/spade3/internal/store"
)

// Coordinator is the multi-actor scheduler: it watches the shared record
// and arms the timers no client is responsible for: trick settlement,
// round advance and computer moves. Several coordinators may watch the
// same game; every transition they trigger is an idempotent transaction,
// so duplicate timers abort harmlessly instead of double-settling.
type Coordinator struct {
	GameID     uuid.UUID
	Store      store.Store
	Provider   MoveProvider
	Difficulty string
	Timings    Timings

	logger *logrus.Logger
	cancel func()
}

func NewCoordinator(gameID uuid.UUID, st store.Store, provider MoveProvider, logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Coordinator{
		GameID:   gameID,
		Store:    st,
		Provider: provider,
		Timings:  DefaultTimings(),
		logger:   logger,
	}
}

// Run subscribes to the game's change feed and reacts to the current
// record until the game finishes or ctx is cancelled. It also reacts once
// to the state as of startup so a freshly created game gets its opening
// bot move.
func (c *Coordinator) Run(ctx context.Context) error {
	cancel, err := c.Store.Subscribe(ctx, c.GameID, func(gs models.GameState) {
		c.react(ctx, &gs)
	})
	if err != nil {
		return err
	}
	c.cancel = cancel

	gs, err := c.Store.ReadGame(ctx, c.GameID)
	if err != nil {
		cancel()
		return err
	}
	c.react(ctx, gs)
	return nil
}

// Stop ends the subscription.
func (c *Coordinator) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// react schedules at most one follow-up transition for a committed state.
// The scheduled transaction re-checks its own precondition, so reacting to
// the same state twice (or to a state that moved on meanwhile) is safe.
func (c *Coordinator) react(ctx context.Context, gs *models.GameState) {
	switch {
	case gs.Finished:
		c.Stop()

	case gs.RoundWinner != "":
		c.after(c.Timings.NextRound, func() {
			if err := AdvanceRoundTxn(ctx, c.Store, c.GameID); err != nil {
				c.logger.WithField("game", c.GameID).WithError(err).Warn("round advance failed")
			}
		})

	case gs.TrickComplete():
		c.after(c.Timings.Settle, func() {
			if err := SettleTrickTxn(ctx, c.Store, c.GameID); err != nil {
				c.logger.WithField("game", c.GameID).WithError(err).Warn("trick settlement failed")
			}
		})

	case gs.CurrentTurn != "" && c.Provider != nil:
		mover, ok := gs.Players[gs.CurrentTurn]
		if !ok || mover.IsHuman {
			return
		}
		moverID := mover.ID
		c.after(c.Timings.BotThink, func() {
			c.playBotMove(ctx, moverID)
		})
	}
}

func (c *Coordinator) after(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// playBotMove re-reads the record, asks the provider, validates its choice
// against the independently computed legal set and plays through the same
// transaction a human client would use. A stale turn simply loses the
// ownership check inside the transaction.
func (c *Coordinator) playBotMove(ctx context.Context, moverID string) {
	gs, err := c.Store.ReadGame(ctx, c.GameID)
	if err != nil || gs.Finished || gs.CurrentTurn != moverID {
		return
	}
	mover := gs.Players[moverID]
	legal := LegalMoves(mover.Hand, gs.LeadingSuit)
	if len(legal) == 0 {
		return
	}

	chosen := legal[0].ID
	callCtx, cancel := context.WithTimeout(ctx, c.Timings.ProviderTimeout)
	move, err := c.Provider.ChooseMove(callCtx, gs.SnapshotFor(moverID), legal, moverID, c.Difficulty)
	cancel()
	if err == nil && containsCard(legal, move.CardID) {
		chosen = move.CardID
	} else if err != nil {
		c.logger.WithFields(logrus.Fields{"game": c.GameID, "player": moverID}).
			WithError(err).Warn("move provider failed, playing fallback card")
	}

	err = PlayCardTxn(ctx, c.Store, c.GameID, moverID, chosen)
	if err != nil && !errors.Is(err, ErrNotYourTurn) && !errors.Is(err, ErrTrickPending) {
		c.logger.WithFields(logrus.Fields{"game": c.GameID, "player": moverID, "card": chosen}).
			WithError(err).Warn("bot play rejected")
	}
}
