package database

import (
	"context"
	"fmt"

	"github.com/dkoya/spade3/internal/models"
)

// SaveGameResult persists a finished game: one game_results row plus one
// game_rounds row per settled trick, in a single transaction. The round
// rows are the authoritative ledger; the result row's scores are the
// summed convenience copy.
func SaveGameResult(ctx context.Context, gs *models.GameState) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	if !gs.Finished {
		return fmt.Errorf("game %s is not finished", gs.ID)
	}

	tx, err := DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin result tx for game %s: %w", gs.ID, err)
	}
	defer tx.Rollback(ctx)

	q := `
		INSERT INTO game_results (game_id, player_count, total_rounds, winner, score_team_a, score_team_b)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
		ON CONFLICT (game_id) DO NOTHING
	`
	_, err = tx.Exec(ctx, q,
		gs.ID,
		gs.PlayerCount,
		gs.TotalRounds,
		string(gs.GameWinner),
		gs.Teams[models.TeamA].Score,
		gs.Teams[models.TeamB].Score,
	)
	if err != nil {
		return fmt.Errorf("insert game_results for game %s: %w", gs.ID, err)
	}

	rq := `
		INSERT INTO game_rounds (game_id, round_number, winner_id, winning_team, points)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, round_number) DO NOTHING
	`
	for n := 1; n <= gs.TotalRounds; n++ {
		rs, ok := gs.RoundHistory[n]
		if !ok {
			continue
		}
		if _, err := tx.Exec(ctx, rq, gs.ID, rs.RoundNumber, rs.WinnerID, string(rs.WinningTeam), rs.Points); err != nil {
			return fmt.Errorf("insert game_rounds %d for game %s: %w", n, gs.ID, err)
		}
	}

	return tx.Commit(ctx)
}
