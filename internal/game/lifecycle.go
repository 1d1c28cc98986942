package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/dkoya/spade3/internal/deck"
	"github.com/dkoya/spade3/internal/models"
)

// Initialize builds the complete starting state for a table: raw deck,
// table-size preparation, shuffle, deal, team assignment and opening
// player. The only fatal input is an unsupported player count.
func Initialize(playerCount int, seats []deck.Seat, rng *rand.Rand) (*models.GameState, error) {
	cards, err := deck.Build(playerCount)
	if err != nil {
		return nil, err
	}
	prepared := deck.Prepare(playerCount, cards)
	shuffled := deck.Shuffle(prepared, rng)

	players, openerID, err := deck.Deal(shuffled, playerCount, seats)
	if err != nil {
		return nil, err
	}

	gs := &models.GameState{
		ID:           uuid.New(),
		Players:      make(map[string]*models.Player, playerCount),
		Seats:        make([]string, 0, playerCount),
		Teams:        make(map[models.TeamID]*models.Team, 2),
		RoundHistory: make(map[int]models.RoundSummary),
		PlayerCount:  playerCount,
		// Total rounds falls out of the deal: the prepared deck divides
		// evenly, so every seat plays one card per trick until hands are
		// empty.
		TotalRounds:  len(players[0].Hand),
		CurrentRound: 1,
		CurrentTurn:  openerID,
		IsDealing:    false,
	}
	gs.Teams[models.TeamA] = &models.Team{ID: models.TeamA}
	gs.Teams[models.TeamB] = &models.Team{ID: models.TeamB}
	for _, p := range players {
		gs.Players[p.ID] = p
		gs.Seats = append(gs.Seats, p.ID)
		team := gs.Teams[p.Team]
		team.Members = append(team.Members, p.ID)
	}
	gs.StatusMessage = fmt.Sprintf("Round 1: %s's turn.", gs.Players[openerID].Name)
	return gs, nil
}

// applyPlay is the single play-card transition shared by the in-process
// engine and the store-backed transactions. It validates the move against
// the given state and either mutates it or returns a typed rejection with
// the state untouched.
func applyPlay(gs *models.GameState, playerID, cardID string) error {
	if gs.Finished {
		return ErrGameOver
	}
	if gs.CurrentTurn == "" {
		return ErrTrickPending
	}
	player, ok := gs.Players[playerID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerID)
	}
	if gs.CurrentTurn != playerID {
		return ErrNotYourTurn
	}
	card, held := player.CardByID(cardID)
	if !held {
		return fmt.Errorf("%w: %q", ErrCardNotHeld, cardID)
	}
	if gs.LeadingSuit != "" && card.Suit != gs.LeadingSuit && player.HoldsSuit(gs.LeadingSuit) {
		return fmt.Errorf("%w (%s)", ErrMustFollowSuit, gs.LeadingSuit)
	}

	player.RemoveCard(cardID)
	gs.CardsOnTable = append(gs.CardsOnTable, models.PlayedCard{PlayerID: playerID, Card: card})
	if gs.LeadingSuit == "" {
		gs.LeadingSuit = card.Suit
	}
	gs.CurrentRoundPoints += models.PointValue(card)

	if gs.TrickComplete() {
		// Pause the turn pointer until the trick settles.
		gs.CurrentTurn = ""
		gs.StatusMessage = "Calculating round winner..."
		return nil
	}

	next := gs.NextSeat(playerID)
	gs.CurrentTurn = next
	gs.StatusMessage = fmt.Sprintf("%s's turn.", gs.Players[next].Name)
	return nil
}

// applySettlement resolves a completed trick exactly once: winner, points,
// ledger entry, derived team scores. Stale or duplicate invocations (trick
// not complete, already settled, game over) are benign no-ops that return
// a nil summary.
func applySettlement(gs *models.GameState) (*models.RoundSummary, error) {
	if gs.Finished || gs.RoundWinner != "" || !gs.TrickComplete() {
		return nil, nil
	}

	winnerID, err := ResolveTrick(gs.CardsOnTable)
	if err != nil {
		return nil, err
	}
	winner, ok := gs.Players[winnerID]
	if !ok {
		return nil, fmt.Errorf("%w: trick winner %q", ErrUnknownPlayer, winnerID)
	}

	summary := models.RoundSummary{
		RoundNumber: gs.CurrentRound,
		WinnerID:    winnerID,
		WinningTeam: winner.Team,
		Points:      TrickPoints(gs.CardsOnTable),
	}
	gs.RoundHistory[summary.RoundNumber] = summary
	gs.RecomputeScores()

	gs.RoundWinner = winnerID
	gs.LastRoundWinner = winnerID
	gs.StatusMessage = fmt.Sprintf("%s won the round!", winner.Name)
	return &summary, nil
}

// applyRoundAdvance moves a settled game to the next trick, or ends it
// after the final round. Invoked before the open trick settles it is a
// no-op. Returns true when the state changed.
func applyRoundAdvance(gs *models.GameState) bool {
	if gs.Finished || gs.RoundWinner == "" {
		return false
	}

	if gs.CurrentRound >= gs.TotalRounds {
		scoreA := gs.Teams[models.TeamA].Score
		scoreB := gs.Teams[models.TeamB].Score
		switch {
		case scoreA > scoreB:
			gs.GameWinner = models.TeamA
			gs.StatusMessage = fmt.Sprintf("Game Over! %s wins!", models.TeamA)
		case scoreB > scoreA:
			gs.GameWinner = models.TeamB
			gs.StatusMessage = fmt.Sprintf("Game Over! %s wins!", models.TeamB)
		default:
			gs.StatusMessage = "Game Over! It's a tie!"
		}
		gs.Finished = true
		gs.CurrentTurn = ""
		return true
	}

	opener := gs.LastRoundWinner
	gs.CurrentRound++
	gs.CardsOnTable = nil
	gs.LeadingSuit = ""
	gs.RoundWinner = ""
	gs.CurrentRoundPoints = 0
	gs.CurrentTurn = opener
	gs.StatusMessage = fmt.Sprintf("Round %d: %s's turn.", gs.CurrentRound, gs.Players[opener].Name)
	return true
}
