package models

import "fmt"

// Suit is one of the four French suits. Spades are the permanent trump suit.
type Suit string

const (
	Spades   Suit = "Spades"
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
	Clubs    Suit = "Clubs"
)

// Suits lists every suit in deck-construction order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Rank is a card rank: "2".."10", "J", "Q", "K", "A".
type Rank string

// Ranks lists every rank in deck-construction order.
var Ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// Card is immutable once created. ID is unique within a game even across
// duplicate decks: "Spades-A" in a one-deck game, "Spades-A-1"/"Spades-A-2"
// in a two-deck game.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

// NewCard builds a card with the single-deck id scheme.
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: fmt.Sprintf("%s-%s", suit, rank), Suit: suit, Rank: rank}
}

var rankValues = map[Rank]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 11, "Q": 12, "K": 13, "A": 14,
}

// RankValue returns the comparison value of a rank: 2..10 numeric,
// J=11, Q=12, K=13, A=14. Unknown ranks compare lowest.
func RankValue(r Rank) int {
	return rankValues[r]
}

// PointValue returns the scoring value of a card: the 3 of Spades is worth
// 30, any 10/J/Q/K is worth 10, any 5 is worth 5, everything else
// (including the Ace) is worth nothing.
func PointValue(c Card) int {
	switch {
	case c.Rank == "3" && c.Suit == Spades:
		return 30
	case c.Rank == "10" || c.Rank == "J" || c.Rank == "Q" || c.Rank == "K":
		return 10
	case c.Rank == "5":
		return 5
	default:
		return 0
	}
}

// IsThreeOfSpades reports whether c is a copy of the game's highest card.
func IsThreeOfSpades(c Card) bool {
	return c.Rank == "3" && c.Suit == Spades
}
