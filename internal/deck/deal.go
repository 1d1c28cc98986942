package deck

import (
	"fmt"

	"github.com/dkoya/spade3/internal/models"
)

// Seat describes one requested seat at the table. A zero Name gets a
// default "Player N" display name.
type Seat struct {
	Name  string
	Human bool
}

// DefaultSeats builds an all-bot seating plan for a table size.
func DefaultSeats(playerCount int) []Seat {
	seats := make([]Seat, playerCount)
	return seats
}

// Deal partitions a prepared, shuffled deck evenly across the table. Hands
// are dealt round-robin one card at a time until the deck is exhausted;
// the prepared deck always divides evenly, so every hand ends up with
// len(cards)/playerCount cards. Seats alternate Team A / Team B by index.
//
// The returned opener follows the table-size rule: for 4 or 6 players the
// holder of an Ace of Spades (either copy in a two-deck game) leads the
// first trick; for 8 or 12 players seat 0 leads. The Ace lookup falls back
// to seat 0 defensively; correct deck construction guarantees a holder.
func Deal(cards []models.Card, playerCount int, seats []Seat) ([]*models.Player, string, error) {
	if !SupportedPlayerCount(playerCount) {
		return nil, "", fmt.Errorf("%w: %d", ErrUnsupportedPlayerCount, playerCount)
	}
	if len(seats) != playerCount {
		return nil, "", fmt.Errorf("seating plan has %d seats, want %d", len(seats), playerCount)
	}
	if len(cards)%playerCount != 0 {
		return nil, "", fmt.Errorf("deck of %d cards does not divide across %d seats", len(cards), playerCount)
	}

	players := make([]*models.Player, playerCount)
	for i := range players {
		name := seats[i].Name
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = &models.Player{
			ID:      fmt.Sprintf("Player %d", i+1),
			Name:    name,
			Hand:    make([]models.Card, 0, len(cards)/playerCount),
			IsHuman: seats[i].Human,
			Team:    models.TeamForSeat(i),
			Seat:    i,
		}
	}

	for i, c := range cards {
		p := players[i%playerCount]
		p.Hand = append(p.Hand, c)
	}

	return players, openingPlayer(players, playerCount), nil
}

// openingPlayer applies the table-size branch, not the deck count: 4 and 6
// seat games open with the Ace of Spades holder, larger tables with seat 0.
func openingPlayer(players []*models.Player, playerCount int) string {
	if playerCount == 4 || playerCount == 6 {
		for _, p := range players {
			for _, c := range p.Hand {
				if c.Suit == models.Spades && c.Rank == "A" {
					return p.ID
				}
			}
		}
	}
	return players[0].ID
}
