// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/cliparse"
	"github.com/danielhkuo/revmix/middleware"
	"github.com/danielhkuo/revmix/models"
)

type PerformanceHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn auth.Authenticator
}

func NewPerformanceHandler(db *sql.DB, cfg cliparse.Config, authn auth.Authenticator) *PerformanceHandler {
	return &PerformanceHandler{db: db, cfg: cfg, authn: authn}
}

const performanceColumns = `id, user_id, username, room_id, audio_data, duration, timeline_marks, audio_timeline, submitted_at, votes, average_score, vote_count`

func scanPerformance(s scanner) (models.Performance, error) {
	var p models.Performance
	var marks, timeline, votes []byte
	err := s.Scan(
		&p.ID, &p.UserID, &p.Username, &p.RoomID, &p.AudioData,
		&p.Duration, &marks, &timeline, &p.SubmittedAt,
		&votes, &p.AverageScore, &p.VoteCount,
	)
	if err != nil {
		return models.Performance{}, err
	}
	if err := json.Unmarshal(marks, &p.TimelineMarks); err != nil {
		return models.Performance{}, err
	}
	if err := json.Unmarshal(timeline, &p.AudioTimeline); err != nil {
		return models.Performance{}, err
	}
	if err := json.Unmarshal(votes, &p.Votes); err != nil {
		return models.Performance{}, err
	}
	return p, nil
}

// roomPerformances returns a room's performances in submission order.
func roomPerformances(db *sql.DB, roomID string) ([]models.Performance, error) {
	rows, err := db.Query(`
		SELECT `+performanceColumns+`
		FROM performance
		WHERE room_id = $1
		ORDER BY submitted_at, id
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perfs := []models.Performance{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		perfs = append(perfs, p)
	}

	return perfs, rows.Err()
}

// Submit handles POST /api/performances
func (h *PerformanceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	var req models.SubmitPerformanceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.RoomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}
	if req.AudioData == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "audio_data is required")
		return
	}
	if req.Duration < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "duration must be non-negative")
		return
	}

	// Room must exist; the audio payload itself is opaque
	var roomExists bool
	err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM room WHERE id = $1)`, req.RoomID).Scan(&roomExists)
	if err != nil {
		slog.Error("failed to check room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !roomExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	if req.TimelineMarks == nil {
		req.TimelineMarks = []float64{}
	}
	if req.AudioTimeline == nil {
		req.AudioTimeline = []models.TimelineSegment{}
	}
	marks, _ := json.Marshal(req.TimelineMarks)
	timeline, _ := json.Marshal(req.AudioTimeline)

	perf := models.Performance{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Username:      user.Username,
		RoomID:        req.RoomID,
		AudioData:     req.AudioData,
		Duration:      req.Duration,
		TimelineMarks: req.TimelineMarks,
		AudioTimeline: req.AudioTimeline,
		SubmittedAt:   time.Now().UTC(),
		Votes:         map[string]models.VoteScores{},
		AverageScore:  0.0,
		VoteCount:     0,
	}

	_, err = h.db.Exec(`
		INSERT INTO performance (id, user_id, username, room_id, audio_data, duration, timeline_marks, audio_timeline, submitted_at, votes, average_score, vote_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '{}', 0, 0)
	`, perf.ID, perf.UserID, perf.Username, perf.RoomID, perf.AudioData, perf.Duration, marks, timeline, perf.SubmittedAt)

	if err != nil {
		slog.Error("failed to insert performance", "error", err, "room_id", req.RoomID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit performance")
		return
	}

	slog.Info("performance submitted", "performance_id", perf.ID, "room_id", perf.RoomID, "user_id", perf.UserID)

	middleware.JSONResponse(w, http.StatusCreated, perf)
}

// ListByRoom handles GET /api/performances/room/{id}
// Returns the room's performances ranked by average score.
func (h *PerformanceHandler) ListByRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT `+performanceColumns+`
		FROM performance
		WHERE room_id = $1
		ORDER BY average_score DESC
	`, roomID)
	if err != nil {
		slog.Error("failed to query performances", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	perfs := []models.Performance{}
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			slog.Error("failed to scan performance", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		perfs = append(perfs, p)
	}

	middleware.JSONResponse(w, http.StatusOK, models.PerformanceListResponse{
		Performances: perfs,
	})
}
