// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/revmix/handlers"
	"github.com/danielhkuo/revmix/models"
)

// Sweeper periodically closes expired rooms and announces their results.
type Sweeper struct {
	db       *sql.DB
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

func New(db *sql.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:       db,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the background sweep loop. Call Stop to shut it down.
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("sweeper started", "interval", s.interval)

		for {
			select {
			case <-ticker.C:
				if err := s.Sweep(time.Now().UTC()); err != nil {
					slog.Error("sweep failed", "error", err)
				}
			case <-s.done:
				slog.Info("sweeper stopped")
				return
			}
		}
	}()
}

// Stop signals the loop to exit and waits for it.
func (s *Sweeper) Stop() {
	close(s.done)
	s.wg.Wait()
}

// Sweep closes every room whose expiry is before now. Results are
// announced before the close; a room whose announcement fails stays
// open and is retried on the next tick.
func (s *Sweeper) Sweep(now time.Time) error {
	rows, err := s.db.Query(`
		SELECT id, results_announced
		FROM room
		WHERE expires_at < $1 AND status != $2
	`, now, models.StatusClosed)
	if err != nil {
		return err
	}
	defer rows.Close()

	type expiredRoom struct {
		id        string
		announced bool
	}

	expired := []expiredRoom{}
	for rows.Next() {
		var room expiredRoom
		if err := rows.Scan(&room.id, &room.announced); err != nil {
			return err
		}
		expired = append(expired, room)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, room := range expired {
		if !room.announced {
			if err := handlers.AnnounceResults(s.db, room.id); err != nil {
				slog.Error("failed to announce results for expired room", "error", err, "room_id", room.id)
				continue
			}
		}

		_, err := s.db.Exec(`
			UPDATE room
			SET status = $1, results_announced = TRUE
			WHERE id = $2
		`, models.StatusClosed, room.id)
		if err != nil {
			slog.Error("failed to close expired room", "error", err, "room_id", room.id)
			continue
		}

		slog.Info("expired room closed", "room_id", room.id)
	}

	return nil
}
