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
	"github.com/lib/pq"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/cliparse"
	"github.com/danielhkuo/revmix/middleware"
	"github.com/danielhkuo/revmix/models"
)

type VoteHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn auth.Authenticator
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, authn auth.Authenticator) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, authn: authn}
}

// Cast handles POST /api/votes
//
// The vote row and the performance's votes map / derived aggregates are
// committed in one transaction, with the performance row locked, so
// readers never see a vote_count without its matching average_score.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.PerformanceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "performance_id is required")
		return
	}

	// Missing scores default to 5
	scores := models.VoteScores{Flow: 5, Lyrics: 5, Creativity: 5}
	if req.Flow != nil {
		scores.Flow = *req.Flow
	}
	if req.Lyrics != nil {
		scores.Lyrics = *req.Lyrics
	}
	if req.Creativity != nil {
		scores.Creativity = *req.Creativity
	}
	emoji := req.EmojiReaction
	if emoji == "" {
		emoji = models.DefaultEmojiReaction
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Lock the performance so concurrent votes serialize on the aggregate
	var perfUserID string
	var votesRaw []byte
	err = tx.QueryRow(`
		SELECT user_id, votes FROM performance WHERE id = $1 FOR UPDATE
	`, req.PerformanceID).Scan(&perfUserID, &votesRaw)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Performance not found")
		return
	}
	if err != nil {
		slog.Error("failed to query performance", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var alreadyVoted bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE voter_id = $1 AND performance_id = $2
		)
	`, user.ID, req.PerformanceID).Scan(&alreadyVoted)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for this performance")
		return
	}

	if perfUserID == user.ID {
		middleware.ErrorResponse(w, http.StatusConflict, "You cannot vote for your own performance")
		return
	}

	vote := models.Vote{
		ID:            uuid.NewString(),
		VoterID:       user.ID,
		VoterUsername: user.Username,
		PerformanceID: req.PerformanceID,
		RoomID:        req.RoomID,
		Flow:          scores.Flow,
		Lyrics:        scores.Lyrics,
		Creativity:    scores.Creativity,
		EmojiReaction: emoji,
		CreatedAt:     time.Now().UTC(),
	}

	_, err = tx.Exec(`
		INSERT INTO vote (id, voter_id, voter_username, performance_id, room_id, flow, lyrics, creativity, emoji_reaction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, vote.ID, vote.VoterID, vote.VoterUsername, vote.PerformanceID, vote.RoomID,
		vote.Flow, vote.Lyrics, vote.Creativity, vote.EmojiReaction, vote.CreatedAt)

	if err != nil {
		// Unique constraint backstop for a concurrent duplicate
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted for this performance")
			return
		}
		slog.Error("failed to insert vote", "error", err, "performance_id", req.PerformanceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	// Fold the vote into the performance aggregate
	votes := map[string]models.VoteScores{}
	if err := json.Unmarshal(votesRaw, &votes); err != nil {
		slog.Error("failed to parse votes map", "error", err, "performance_id", req.PerformanceID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}
	votes[user.ID] = scores

	updated, err := json.Marshal(votes)
	if err != nil {
		slog.Error("failed to encode votes map", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	_, err = tx.Exec(`
		UPDATE performance
		SET votes = $1, average_score = $2, vote_count = $3
		WHERE id = $4
	`, updated, AverageScore(votes), len(votes), req.PerformanceID)

	if err != nil {
		slog.Error("failed to update performance aggregate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	slog.Info("vote cast", "vote_id", vote.ID, "performance_id", vote.PerformanceID, "voter_id", vote.VoterID)

	middleware.JSONResponse(w, http.StatusCreated, vote)
}

// ListByPerformance handles GET /api/votes/performance/{id}
func (h *VoteHandler) ListByPerformance(w http.ResponseWriter, r *http.Request) {
	performanceID := r.PathValue("id")
	if performanceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "performance_id is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, voter_id, voter_username, performance_id, room_id, flow, lyrics, creativity, emoji_reaction, created_at
		FROM vote
		WHERE performance_id = $1
		ORDER BY created_at
	`, performanceID)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		err := rows.Scan(&v.ID, &v.VoterID, &v.VoterUsername, &v.PerformanceID, &v.RoomID,
			&v.Flow, &v.Lyrics, &v.Creativity, &v.EmojiReaction, &v.CreatedAt)
		if err != nil {
			slog.Error("failed to scan vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		votes = append(votes, v)
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteListResponse{
		Votes: votes,
	})
}
