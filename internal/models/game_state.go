package models

import "github.com/google/uuid"

// PlayedCard is one entry on the table: who played which card. The slice
// order on GameState.CardsOnTable is play order.
type PlayedCard struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// RoundSummary is the immutable ledger entry for a settled trick. The full
// collection keyed by round number is the authoritative score record; team
// scores are always recomputable by summation over it.
type RoundSummary struct {
	RoundNumber int    `json:"roundNumber"`
	WinnerID    string `json:"winnerId"`
	WinningTeam TeamID `json:"winningTeam"`
	Points      int    `json:"points"`
}

// GameState is the complete shared game record. It is created once by the
// dealer and mutated only through the play / settle / advance transitions.
// In multi-actor deployments it is the exact shape persisted in the shared
// store.
type GameState struct {
	ID      uuid.UUID          `json:"id"`
	Players map[string]*Player `json:"players"`
	// Seats fixes the seating order; map iteration order is useless for
	// turn advancement.
	Seats        []string             `json:"seats"`
	Teams        map[TeamID]*Team     `json:"teams"`
	RoundHistory map[int]RoundSummary `json:"roundHistory"`

	PlayerCount int `json:"playerCount"`
	// TotalRounds is derived from the dealt hand size, never hard-coded.
	TotalRounds int `json:"totalRounds"`

	// CurrentTurn is a player id, or "" while a completed trick awaits
	// settlement or after the game has ended.
	CurrentTurn        string       `json:"currentTurn"`
	CurrentRound       int          `json:"currentRound"`
	CurrentRoundPoints int          `json:"currentRoundPoints"`
	CardsOnTable       []PlayedCard `json:"cardsOnTable"`
	// LeadingSuit is "" iff CardsOnTable is empty.
	LeadingSuit Suit `json:"leadingSuit"`

	// RoundWinner is set once the open trick settles and cleared when the
	// next trick starts. LastRoundWinner carries forward to seed the next
	// trick's opening player.
	RoundWinner     string `json:"roundWinner"`
	LastRoundWinner string `json:"lastRoundWinner"`

	// GameWinner stays "" on a tie; Finished distinguishes a tied end
	// from a game still in progress.
	GameWinner TeamID `json:"gameWinner"`
	Finished   bool   `json:"finished"`

	IsDealing     bool   `json:"isDealing"`
	StatusMessage string `json:"statusMessage"`
}

// PlayerAt returns the player seated at the given index.
func (gs *GameState) PlayerAt(seat int) *Player {
	return gs.Players[gs.Seats[seat]]
}

// SeatOf returns the seat index of a player id, or -1.
func (gs *GameState) SeatOf(playerID string) int {
	for i, id := range gs.Seats {
		if id == playerID {
			return i
		}
	}
	return -1
}

// NextSeat returns the player id seated after the given player, wrapping
// around the table. Every seat plays exactly once per trick; nobody is
// skipped.
func (gs *GameState) NextSeat(playerID string) string {
	seat := gs.SeatOf(playerID)
	if seat < 0 {
		return ""
	}
	return gs.Seats[(seat+1)%len(gs.Seats)]
}

// TrickComplete reports whether the table holds one card per seat.
func (gs *GameState) TrickComplete() bool {
	return len(gs.CardsOnTable) == gs.PlayerCount
}

// RecomputeScores rebuilds both team scores by summation over the round
// ledger. Called after every settlement so the scores are always derived,
// never independently mutated.
func (gs *GameState) RecomputeScores() {
	totals := map[TeamID]int{TeamA: 0, TeamB: 0}
	for _, rs := range gs.RoundHistory {
		totals[rs.WinningTeam] += rs.Points
	}
	for id, team := range gs.Teams {
		team.Score = totals[id]
	}
}

// Clone deep-copies the state. Store implementations hand transaction
// callbacks a clone so an aborted transaction leaves no trace.
func (gs *GameState) Clone() *GameState {
	cp := *gs

	cp.Players = make(map[string]*Player, len(gs.Players))
	for id, p := range gs.Players {
		pc := *p
		pc.Hand = append([]Card(nil), p.Hand...)
		cp.Players[id] = &pc
	}
	cp.Seats = append([]string(nil), gs.Seats...)

	cp.Teams = make(map[TeamID]*Team, len(gs.Teams))
	for id, t := range gs.Teams {
		tc := *t
		tc.Members = append([]string(nil), t.Members...)
		cp.Teams[id] = &tc
	}

	cp.RoundHistory = make(map[int]RoundSummary, len(gs.RoundHistory))
	for n, rs := range gs.RoundHistory {
		cp.RoundHistory[n] = rs
	}
	cp.CardsOnTable = append([]PlayedCard(nil), gs.CardsOnTable...)

	return &cp
}
