package models

// TeamID identifies one of the two fixed teams.
type TeamID string

const (
	TeamA TeamID = "Team A"
	TeamB TeamID = "Team B"
)

// TeamForSeat returns the team a seat index belongs to. Seats alternate:
// even seats are Team A, odd seats are Team B.
func TeamForSeat(seat int) TeamID {
	if seat%2 == 0 {
		return TeamA
	}
	return TeamB
}

// Player is a single seat at the table. Hand order is display-only; the
// rules never depend on it. A player's hand strictly shrinks over the game.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hand    []Card `json:"hand"`
	IsHuman bool   `json:"isHuman"`
	Team    TeamID `json:"team"`
	Seat    int    `json:"seat"`
}

// HasCard reports whether the player currently holds the card with the
// given id.
func (p *Player) HasCard(cardID string) bool {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// CardByID returns the held card with the given id, if any.
func (p *Player) CardByID(cardID string) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}

// RemoveCard takes the card with the given id out of the player's hand and
// returns it. The second return is false when the card is not held.
func (p *Player) RemoveCard(cardID string) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}

// HoldsSuit reports whether the player holds at least one card of the suit.
func (p *Player) HoldsSuit(suit Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// Team holds the derived score for one side. Score is never mutated
// directly; it is recomputed from the round ledger after every settlement.
type Team struct {
	ID      TeamID   `json:"id"`
	Score   int      `json:"score"`
	Members []string `json:"members"`
}
