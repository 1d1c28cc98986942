// Package deck builds, prepares, shuffles and deals the raw card decks for
// every supported table size.
package deck

import (
	"fmt"
	"math/rand"

	"github.com/dkoya/spade3/internal/models"
)

// ErrUnsupportedPlayerCount is returned for any table size outside
// {4, 6, 8, 12}. Initialization must fail loudly rather than default to an
// unsupported shape.
var ErrUnsupportedPlayerCount = fmt.Errorf("unsupported player count")

// SupportedPlayerCount reports whether n seats form a valid table.
func SupportedPlayerCount(n int) bool {
	switch n {
	case 4, 6, 8, 12:
		return true
	}
	return false
}

// Build constructs the raw ordered deck for a table size: one standard
// 52-card deck for 4 or 6 players, two decks with disjoint card ids for
// 8 or 12.
func Build(playerCount int) ([]models.Card, error) {
	if !SupportedPlayerCount(playerCount) {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedPlayerCount, playerCount)
	}

	single := make([]models.Card, 0, 52)
	for _, suit := range models.Suits {
		for _, rank := range models.Ranks {
			single = append(single, models.NewCard(suit, rank))
		}
	}
	if playerCount <= 6 {
		return single, nil
	}

	// Two decks: suffix ids with the deck index so every card id stays
	// unique within the game.
	double := make([]models.Card, 0, 104)
	for deckIdx := 1; deckIdx <= 2; deckIdx++ {
		for _, c := range single {
			double = append(double, models.Card{
				ID:   fmt.Sprintf("%s-%d", c.ID, deckIdx),
				Suit: c.Suit,
				Rank: c.Rank,
			})
		}
	}
	return double, nil
}

// Prepare strips cards for non-standard table sizes: every rank-2 card is
// removed for 6 or 12 players so the deck divides evenly across seats
// (48 and 96 cards). Other table sizes get the deck back unchanged.
func Prepare(playerCount int, cards []models.Card) []models.Card {
	if playerCount != 6 && playerCount != 12 {
		return cards
	}
	prepared := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank == "2" {
			continue
		}
		prepared = append(prepared, c)
	}
	return prepared
}

// Shuffle returns a uniformly random permutation of the deck
// (Fisher-Yates). The input slice is never mutated.
func Shuffle(cards []models.Card, rng *rand.Rand) []models.Card {
	shuffled := append([]models.Card(nil), cards...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
