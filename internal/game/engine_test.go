package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoya/spade3/internal/deck"
	"github.com/dkoya/spade3/internal/models"
)

// scriptedProvider lets tests control exactly what the engine receives
// from a Move Provider.
type scriptedProvider struct {
	choose func(legal []models.Card) (Move, error)
}

func (p *scriptedProvider) ChooseMove(ctx context.Context, snap models.Snapshot, legal []models.Card, moverID, difficulty string) (Move, error) {
	if p.choose == nil {
		return Move{CardID: legal[0].ID}, nil
	}
	return p.choose(legal)
}

// eventRecorder collects broadcast events the way connected clients would
// receive them.
type eventRecorder struct {
	mu      sync.Mutex
	events  []GameEvent
	private map[string][]GameEvent
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{private: make(map[string][]GameEvent)}
}

func (r *eventRecorder) broadcast(ev GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) broadcastTo(playerID string, ev GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.private[playerID] = append(r.private[playerID], ev)
}

func (r *eventRecorder) byType(t GameEventType) []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []GameEvent
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (r *eventRecorder) privateByType(playerID string, t GameEventType) []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []GameEvent
	for _, ev := range r.private[playerID] {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func fastTimings() Timings {
	return Timings{
		BotThink:        time.Millisecond,
		Settle:          time.Millisecond,
		NextRound:       time.Millisecond,
		ProviderTimeout: 100 * time.Millisecond,
	}
}

func newEngine(t *testing.T, playerCount int, seed int64, provider MoveProvider) (*Game, *eventRecorder) {
	t.Helper()
	gs := newTestState(t, playerCount, seed)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	g := NewGame(gs, provider, logger)
	g.Timings = fastTimings()
	rec := newEventRecorder()
	g.BroadcastFn = rec.broadcast
	g.BroadcastToPlayerFn = rec.broadcastTo
	return g, rec
}

func waitForFinish(t *testing.T, g *Game) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		g.Mu.Lock()
		done := g.State.Finished
		g.Mu.Unlock()
		if done {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("game did not finish in time")
}

func TestAllBotGameRunsToCompletion(t *testing.T) {
	g, rec := newEngine(t, 4, 21, &scriptedProvider{})

	done := make(chan models.GameState, 1)
	g.OnGameEnd = func(final models.GameState) { done <- final }

	g.Start()
	waitForFinish(t, g)

	select {
	case final := <-done:
		assert.True(t, final.Finished)
		assert.Len(t, final.RoundHistory, 13)
		assert.Equal(t, preparedDeckPoints(t, 4),
			final.Teams[models.TeamA].Score+final.Teams[models.TeamB].Score)
	case <-time.After(5 * time.Second):
		t.Fatal("OnGameEnd was never invoked")
	}

	assert.NotEmpty(t, rec.byType(EventCardPlayed))
	assert.Len(t, rec.byType(EventTrickSettled), 13)
	assert.Len(t, rec.byType(EventGameEnd), 1)
}

// A provider that always picks an illegal card still produces a finished
// game: the engine falls back to the first legal card every turn.
func TestIllegalProviderChoiceFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		choose: func(legal []models.Card) (Move, error) {
			return Move{CardID: "bogus-card-id"}, nil
		},
	}
	g, _ := newEngine(t, 4, 22, provider)
	g.Start()
	waitForFinish(t, g)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.True(t, g.State.Finished)
	assert.Len(t, g.State.RoundHistory, 13)
}

func TestFailingProviderFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		choose: func(legal []models.Card) (Move, error) {
			return Move{}, errors.New("model backend unreachable")
		},
	}
	g, _ := newEngine(t, 4, 23, provider)
	g.Start()
	waitForFinish(t, g)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.True(t, g.State.Finished)
	assert.Equal(t, preparedDeckPoints(t, 4),
		g.State.Teams[models.TeamA].Score+g.State.Teams[models.TeamB].Score)
}

// A slow provider hits the context deadline; the turn must still be
// played rather than hanging the game.
func TestSlowProviderTimesOutAndFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		choose: func(legal []models.Card) (Move, error) {
			time.Sleep(50 * time.Millisecond)
			return Move{CardID: legal[len(legal)-1].ID}, nil
		},
	}
	g, _ := newEngine(t, 4, 24, provider)
	g.Timings.ProviderTimeout = 100 * time.Millisecond
	g.Start()
	waitForFinish(t, g)

	g.Mu.Lock()
	defer g.Mu.Unlock()
	assert.True(t, g.State.Finished)
}

func TestRejectedHumanPlayGetsPrivateInvalidMoveEvent(t *testing.T) {
	gs := newTestState(t, 4, 25)
	// Mark every seat human so no timers fire during the test.
	for _, p := range gs.Players {
		p.IsHuman = true
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	g := NewGame(gs, nil, logger)
	g.Timings = fastTimings()
	rec := newEventRecorder()
	g.BroadcastFn = rec.broadcast
	g.BroadcastToPlayerFn = rec.broadcastTo

	wrongSeat := gs.NextSeat(gs.CurrentTurn)
	err := g.PlayCard(wrongSeat, gs.Players[wrongSeat].Hand[0].ID)
	require.ErrorIs(t, err, ErrNotYourTurn)

	private := rec.privateByType(wrongSeat, EventInvalidMove)
	require.Len(t, private, 1)
	assert.Contains(t, private[0].Message, ErrNotYourTurn.Error())
	assert.Empty(t, rec.byType(EventCardPlayed), "a rejected play is never broadcast")
}

func TestSnapshotRedactsOtherHands(t *testing.T) {
	gs := newTestState(t, 4, 26)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	g := NewGame(gs, nil, logger)

	viewer := gs.PlayerAt(0).ID
	snap := g.Snapshot(viewer)

	require.Len(t, snap.Players, 4)
	for _, sp := range snap.Players {
		if sp.ID == viewer {
			assert.Len(t, sp.Hand, 13)
		} else {
			assert.Empty(t, sp.Hand, "%s's hand must be hidden from %s", sp.ID, viewer)
			assert.Equal(t, 13, sp.HandSize)
		}
	}
}

func TestDefaultTimingsReadEnvOverrides(t *testing.T) {
	t.Setenv("SPADE3_BOT_THINK_MS", "10")
	t.Setenv("SPADE3_SETTLE_MS", "not-a-number")
	tm := DefaultTimings()
	assert.Equal(t, 10*time.Millisecond, tm.BotThink)
	assert.Equal(t, 1000*time.Millisecond, tm.Settle, "bad values keep the default")
}

// Mixed tables work too: humans play through PlayCard, bots through
// timers, and the game still converges.
func TestMixedHumanAndBotGame(t *testing.T) {
	seats := deck.DefaultSeats(4)
	seats[0] = deck.Seat{Name: "Ari", Human: true}
	gs, err := Initialize(4, seats, rand.New(rand.NewSource(27)))
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	g := NewGame(gs, &scriptedProvider{}, logger)
	g.Timings = fastTimings()

	human := gs.PlayerAt(0).ID
	g.Start()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		g.Mu.Lock()
		finished := g.State.Finished
		turn := g.State.CurrentTurn
		var cardID string
		if turn == human {
			p := g.State.Players[human]
			legal := LegalMoves(p.Hand, g.State.LeadingSuit)
			if len(legal) > 0 {
				cardID = legal[0].ID
			}
		}
		g.Mu.Unlock()

		if finished {
			break
		}
		if cardID != "" {
			_ = g.PlayCard(human, cardID)
			continue
		}
		time.Sleep(2 * time.Millisecond)
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()
	require.True(t, g.State.Finished, "mixed game did not finish")
	assert.Len(t, g.State.RoundHistory, 13)
}
