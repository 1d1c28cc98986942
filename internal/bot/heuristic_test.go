package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoya/spade3/internal/game"
	"github.com/dkoya/spade3/internal/models"
)

func card(suit models.Suit, rank models.Rank) models.Card {
	return models.NewCard(suit, rank)
}

func tableCard(playerID string, suit models.Suit, rank models.Rank) models.PlayedCard {
	return models.PlayedCard{PlayerID: playerID, Card: card(suit, rank)}
}

// fourSeats builds a redacted snapshot with the standard team layout:
// P1/P3 on Team A, P2/P4 on Team B.
func fourSeats(table ...models.PlayedCard) models.Snapshot {
	snap := models.Snapshot{CardsOnTable: table}
	for i, id := range []string{"P1", "P2", "P3", "P4"} {
		snap.Players = append(snap.Players, models.SnapshotPlayer{
			ID:   id,
			Team: models.TeamForSeat(i),
			Seat: i,
		})
	}
	return snap
}

func choose(t *testing.T, snap models.Snapshot, legal []models.Card) game.Move {
	t.Helper()
	move, err := NewHeuristic().ChooseMove(context.Background(), snap, legal, "P3", "normal")
	require.NoError(t, err)
	found := false
	for _, c := range legal {
		if c.ID == move.CardID {
			found = true
		}
	}
	require.True(t, found, "chosen card %q must come from the legal set", move.CardID)
	return move
}

func TestChooseMoveEmptyLegalSetFails(t *testing.T) {
	_, err := NewHeuristic().ChooseMove(context.Background(), fourSeats(), nil, "P3", "normal")
	assert.Error(t, err)
}

func TestChooseMoveHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHeuristic().ChooseMove(ctx, fourSeats(), []models.Card{card(models.Hearts, "4")}, "P3", "normal")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLeadKeepsPointCardsAndTrumpsBack(t *testing.T) {
	legal := []models.Card{
		card(models.Spades, "3"),
		card(models.Hearts, "K"),
		card(models.Hearts, "4"),
		card(models.Clubs, "5"),
	}
	move := choose(t, fourSeats(), legal)
	assert.Equal(t, card(models.Hearts, "4").ID, move.CardID)
}

func TestFeedsPointsToHoldingTeammate(t *testing.T) {
	// P1 (teammate of P3) holds the trick with the Ace of Hearts.
	snap := fourSeats(
		tableCard("P1", models.Hearts, "A"),
		tableCard("P2", models.Hearts, "6"),
	)
	legal := []models.Card{
		card(models.Hearts, "4"),
		card(models.Hearts, "10"),
		card(models.Hearts, "5"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Hearts, "10").ID, move.CardID, "the fattest point card goes to the teammate")
}

func TestPlaysLowWhenTeammateHoldsAndNoPointsInHand(t *testing.T) {
	snap := fourSeats(
		tableCard("P1", models.Hearts, "A"),
		tableCard("P2", models.Hearts, "6"),
	)
	legal := []models.Card{
		card(models.Hearts, "9"),
		card(models.Hearts, "4"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Hearts, "4").ID, move.CardID)
}

func TestTakesTrickWithCheapestWinner(t *testing.T) {
	// P2 (opponent) holds with the 10 of Hearts.
	snap := fourSeats(
		tableCard("P1", models.Hearts, "6"),
		tableCard("P2", models.Hearts, "10"),
	)
	legal := []models.Card{
		card(models.Hearts, "A"),
		card(models.Hearts, "J"),
		card(models.Hearts, "4"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Hearts, "A").ID, move.CardID, "the Ace wins without spending a 10-point card")
}

func TestDiscardsLowWhenTrickIsUnwinnable(t *testing.T) {
	snap := fourSeats(
		tableCard("P1", models.Hearts, "6"),
		tableCard("P2", models.Spades, "A"),
	)
	legal := []models.Card{
		card(models.Hearts, "K"),
		card(models.Hearts, "7"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Hearts, "7").ID, move.CardID)
}

func TestHoldsThreeOfSpadesOnCheapTricks(t *testing.T) {
	// Only 10 points on the table: not worth burning the 30-point trump.
	snap := fourSeats(
		tableCard("P1", models.Hearts, "6"),
		tableCard("P2", models.Hearts, "10"),
	)
	legal := []models.Card{
		card(models.Spades, "3"),
		card(models.Diamonds, "7"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Diamonds, "7").ID, move.CardID, "3 of Spades stays home for 10 points")
}

func TestSpendsThreeOfSpadesOnRichTricks(t *testing.T) {
	// 20 points on the table clears the threshold.
	snap := fourSeats(
		tableCard("P1", models.Hearts, "K"),
		tableCard("P2", models.Hearts, "10"),
	)
	legal := []models.Card{
		card(models.Spades, "3"),
		card(models.Diamonds, "7"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Spades, "3").ID, move.CardID)
}

func TestPrefersOrdinarySpadeOverThreeOfSpades(t *testing.T) {
	// A plain spade wins the trick just as well, so the heavy trump stays
	// back even on a rich table.
	snap := fourSeats(
		tableCard("P1", models.Hearts, "K"),
		tableCard("P2", models.Hearts, "10"),
	)
	legal := []models.Card{
		card(models.Spades, "3"),
		card(models.Spades, "8"),
	}
	move := choose(t, snap, legal)
	assert.Equal(t, card(models.Spades, "8").ID, move.CardID)
}
