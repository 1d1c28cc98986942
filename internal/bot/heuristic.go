// Package bot provides the built-in Move Provider for computer seats.
package bot

import (
	"context"
	"fmt"

	"github.com/dkoya/spade3/internal/game"
	"github.com/dkoya/spade3/internal/models"
)

// Heuristic is a rule-based Move Provider. It never sees another seat's
// cards: its input is the same redacted snapshot a client gets, plus the
// legal set the engine computed for it.
type Heuristic struct{}

// NewHeuristic returns the default provider.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// ChooseMove picks a card from the legal set:
//
//   - leading an empty table: lowest-value card that is not worth points,
//     keeping point cards and trumps back;
//   - a teammate currently holds the trick: dump the highest point card to
//     fatten the take, else the lowest card;
//   - an opponent holds it and we can beat their card: cheapest winning
//     card (the 3 of Spades only when the trick is rich enough to be worth
//     it);
//   - cannot win: throw the lowest-value legal card.
func (h *Heuristic) ChooseMove(ctx context.Context, snap models.Snapshot, legal []models.Card, moverID, difficulty string) (game.Move, error) {
	if err := ctx.Err(); err != nil {
		return game.Move{}, err
	}
	if len(legal) == 0 {
		return game.Move{}, fmt.Errorf("empty legal set for %s", moverID)
	}

	if len(snap.CardsOnTable) == 0 {
		c := lowestThrowaway(legal)
		return game.Move{CardID: c.ID, Rationale: "leading low, keeping points back"}, nil
	}

	holderID, err := game.ResolveTrick(snap.CardsOnTable)
	if err != nil {
		return game.Move{}, err
	}
	if sameTeam(snap, moverID, holderID) {
		if c, ok := highestPointCard(legal); ok {
			return game.Move{CardID: c.ID, Rationale: "feeding points to the holding teammate"}, nil
		}
		c := lowestCard(legal)
		return game.Move{CardID: c.ID, Rationale: "teammate holds the trick, playing low"}, nil
	}

	trickValue := game.TrickPoints(snap.CardsOnTable)
	if c, ok := cheapestWinner(snap.CardsOnTable, legal, trickValue); ok {
		return game.Move{CardID: c.ID, Rationale: fmt.Sprintf("taking the trick (%d points on the table)", trickValue)}, nil
	}

	c := lowestThrowaway(legal)
	return game.Move{CardID: c.ID, Rationale: "cannot win, discarding low"}, nil
}

func sameTeam(snap models.Snapshot, a, b string) bool {
	var ta, tb models.TeamID
	for _, p := range snap.Players {
		if p.ID == a {
			ta = p.Team
		}
		if p.ID == b {
			tb = p.Team
		}
	}
	return ta != "" && ta == tb
}

// cheapestWinner returns the lowest card that would currently win the
// trick. The 3 of Spades is held back unless the table already carries at
// least 20 points.
func cheapestWinner(table []models.PlayedCard, legal []models.Card, trickValue int) (models.Card, bool) {
	var best models.Card
	found := false
	for _, c := range legal {
		if models.IsThreeOfSpades(c) && trickValue < 20 {
			continue
		}
		trial := append(append([]models.PlayedCard(nil), table...), models.PlayedCard{PlayerID: "trial", Card: c})
		winner, err := game.ResolveTrick(trial)
		if err != nil || winner != "trial" {
			continue
		}
		if !found || cardWeight(c) < cardWeight(best) {
			best = c
			found = true
		}
	}
	return best, found
}

func highestPointCard(cards []models.Card) (models.Card, bool) {
	var best models.Card
	found := false
	for _, c := range cards {
		if models.PointValue(c) == 0 || models.IsThreeOfSpades(c) {
			continue
		}
		if !found || models.PointValue(c) > models.PointValue(best) {
			best = c
			found = true
		}
	}
	return best, found
}

// lowestThrowaway prefers worthless off-trump cards, then cheap point
// cards, then anything.
func lowestThrowaway(cards []models.Card) models.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if cardWeight(c) < cardWeight(best) {
			best = c
		}
	}
	return best
}

func lowestCard(cards []models.Card) models.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if models.RankValue(c.Rank) < models.RankValue(best.Rank) {
			best = c
		}
	}
	return best
}

// cardWeight orders cards by how reluctant the bot is to part with them:
// rank first, then heavy penalties for point cards and trumps.
func cardWeight(c models.Card) int {
	w := models.RankValue(c.Rank)
	w += models.PointValue(c) * 2
	if c.Suit == models.Spades {
		w += 15
	}
	if models.IsThreeOfSpades(c) {
		w += 100
	}
	return w
}
