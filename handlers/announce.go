// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/revmix/models"
)

// AnnounceResults ranks a room's performances, records the winner on the
// room, and credits XP, badges, and win/battle counters.
//
// A room with no performances is left untouched: no winner, and
// results_announced stays false (the sweep force-closes such rooms
// anyway).
//
// The winner write doubles as the announcement claim: it only fires if
// results_announced is still false, so a concurrent close request and
// sweep tick cannot both credit the same room.
func AnnounceResults(db *sql.DB, roomID string) error {
	perfs, err := roomPerformances(db, roomID)
	if err != nil {
		return fmt.Errorf("failed to load performances for room %s: %w", roomID, err)
	}

	if len(perfs) == 0 {
		return nil
	}

	ranked := RankPerformances(perfs)
	winner := ranked[0]

	res, err := db.Exec(`
		UPDATE room
		SET winner_id = $1, results_announced = TRUE
		WHERE id = $2 AND results_announced = FALSE
	`, winner.UserID, roomID)
	if err != nil {
		return fmt.Errorf("failed to record winner for room %s: %w", roomID, err)
	}

	claimed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check announcement claim: %w", err)
	}
	if claimed == 0 {
		// Someone else announced first; crediting already happened.
		slog.Info("results already announced", "room_id", roomID)
		return nil
	}

	// Winner: XP, win, battle, and the badge. Badges are append-only;
	// repeat winners collect the badge again.
	_, err = db.Exec(`
		UPDATE app_user
		SET xp = xp + $1, wins = wins + 1, battles = battles + 1,
		    badges = badges || to_jsonb($2::text)
		WHERE id = $3
	`, models.WinnerXP, models.BadgeBattleWinner, winner.UserID)
	if err != nil {
		return fmt.Errorf("failed to credit winner %s: %w", winner.UserID, err)
	}

	// Everyone else who submitted gets participation credit.
	for _, perf := range ranked[1:] {
		_, err := db.Exec(`
			UPDATE app_user
			SET xp = xp + $1, battles = battles + 1
			WHERE id = $2
		`, models.ParticipantXP, perf.UserID)
		if err != nil {
			return fmt.Errorf("failed to credit participant %s: %w", perf.UserID, err)
		}
	}

	slog.Info("results announced", "room_id", roomID, "winner_id", winner.UserID, "performances", len(ranked))
	return nil
}
