package game

import (
	"github.com/dkoya/spade3/internal/models"
)

// ResolveTrick determines the winner of a completed trick. plays must be
// in play order. Priority:
//
//  1. the last-played 3 of Spades (two-deck games can hold two copies),
//  2. the highest-rank Spade, later play winning rank ties,
//  3. the highest card of the leading suit, later play winning rank ties,
//  4. the trick leader (unreachable when suit-following held).
//
// The leading suit is the suit of the first card played; the resolver
// derives it rather than trusting a stored value.
func ResolveTrick(plays []models.PlayedCard) (string, error) {
	if len(plays) == 0 {
		return "", ErrEmptyTrick
	}

	winner := ""
	for _, p := range plays {
		if models.IsThreeOfSpades(p.Card) {
			winner = p.PlayerID
		}
	}
	if winner != "" {
		return winner, nil
	}

	best := -1
	for _, p := range plays {
		if p.Card.Suit != models.Spades {
			continue
		}
		// >= so a later identical spade beats an earlier one.
		if v := models.RankValue(p.Card.Rank); v >= best {
			best = v
			winner = p.PlayerID
		}
	}
	if winner != "" {
		return winner, nil
	}

	leading := plays[0].Card.Suit
	best = -1
	for _, p := range plays {
		if p.Card.Suit != leading {
			continue
		}
		if v := models.RankValue(p.Card.Rank); v >= best {
			best = v
			winner = p.PlayerID
		}
	}
	if winner != "" {
		return winner, nil
	}

	return plays[0].PlayerID, nil
}

// TrickPoints sums the point values of every card played in the trick.
// The whole sum goes to the winning player's team, never split.
func TrickPoints(plays []models.PlayedCard) int {
	total := 0
	for _, p := range plays {
		total += models.PointValue(p.Card)
	}
	return total
}

// LegalMoves computes the mover's legal cards: the full hand when no suit
// has been led or the hand holds none of it, otherwise the cards matching
// the leading suit. This is the only source of truth for move legality;
// Move Provider output is always validated against it.
func LegalMoves(hand []models.Card, leading models.Suit) []models.Card {
	if leading == "" {
		return append([]models.Card(nil), hand...)
	}
	var matching []models.Card
	for _, c := range hand {
		if c.Suit == leading {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		return append([]models.Card(nil), hand...)
	}
	return matching
}
