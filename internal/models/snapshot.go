package models

import "github.com/google/uuid"

// SnapshotPlayer is the per-player public view: identity and team for
// everyone, full hand only for the viewer, hand size for the rest.
type SnapshotPlayer struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Team          TeamID `json:"team"`
	Seat          int    `json:"seat"`
	IsHuman       bool   `json:"isHuman"`
	HandSize      int    `json:"handSize"`
	Hand          []Card `json:"hand,omitempty"`
	IsCurrentTurn bool   `json:"isCurrentTurn"`
}

// Snapshot is the redacted game view handed to clients and to the Move
// Provider. It never exposes another seat's cards.
type Snapshot struct {
	GameID             uuid.UUID            `json:"gameId"`
	PlayerCount        int                  `json:"playerCount"`
	CurrentRound       int                  `json:"currentRound"`
	TotalRounds        int                  `json:"totalRounds"`
	CurrentTurn        string               `json:"currentTurn"`
	CurrentRoundPoints int                  `json:"currentRoundPoints"`
	CardsOnTable       []PlayedCard         `json:"cardsOnTable"`
	LeadingSuit        Suit                 `json:"leadingSuit"`
	RoundWinner        string               `json:"roundWinner,omitempty"`
	LastRoundWinner    string               `json:"lastRoundWinner,omitempty"`
	GameWinner         TeamID               `json:"gameWinner,omitempty"`
	Finished           bool                 `json:"finished"`
	Teams              map[TeamID]*Team     `json:"teams"`
	RoundHistory       map[int]RoundSummary `json:"roundHistory"`
	Players            []SnapshotPlayer     `json:"players"`
	StatusMessage      string               `json:"statusMessage"`
}

// SnapshotFor builds the state view for one viewer. An empty viewer id
// produces a fully redacted spectator view.
func (gs *GameState) SnapshotFor(viewerID string) Snapshot {
	snap := Snapshot{
		GameID:             gs.ID,
		PlayerCount:        gs.PlayerCount,
		CurrentRound:       gs.CurrentRound,
		TotalRounds:        gs.TotalRounds,
		CurrentTurn:        gs.CurrentTurn,
		CurrentRoundPoints: gs.CurrentRoundPoints,
		CardsOnTable:       append([]PlayedCard(nil), gs.CardsOnTable...),
		LeadingSuit:        gs.LeadingSuit,
		RoundWinner:        gs.RoundWinner,
		LastRoundWinner:    gs.LastRoundWinner,
		GameWinner:         gs.GameWinner,
		Finished:           gs.Finished,
		Teams:              make(map[TeamID]*Team, len(gs.Teams)),
		RoundHistory:       make(map[int]RoundSummary, len(gs.RoundHistory)),
		StatusMessage:      gs.StatusMessage,
	}
	for id, t := range gs.Teams {
		tc := *t
		tc.Members = append([]string(nil), t.Members...)
		snap.Teams[id] = &tc
	}
	for n, rs := range gs.RoundHistory {
		snap.RoundHistory[n] = rs
	}
	for seat, id := range gs.Seats {
		p := gs.Players[id]
		sp := SnapshotPlayer{
			ID:            p.ID,
			Name:          p.Name,
			Team:          p.Team,
			Seat:          seat,
			IsHuman:       p.IsHuman,
			HandSize:      len(p.Hand),
			IsCurrentTurn: gs.CurrentTurn == p.ID,
		}
		if p.ID == viewerID {
			sp.Hand = append([]Card(nil), p.Hand...)
		}
		snap.Players = append(snap.Players, sp)
	}
	return snap
}
