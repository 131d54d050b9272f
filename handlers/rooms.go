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

type RoomHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn auth.Authenticator
}

func NewRoomHandler(db *sql.DB, cfg cliparse.Config, authn auth.Authenticator) *RoomHandler {
	return &RoomHandler{db: db, cfg: cfg, authn: authn}
}

const roomColumns = `id, name, host_id, type, prompt, participants, status, created_at, expires_at, timer_duration, max_participants, results_announced, winner_id`

func scanRoom(s scanner) (models.Room, error) {
	var room models.Room
	var participants []byte
	err := s.Scan(
		&room.ID, &room.Name, &room.HostID, &room.Type, &room.Prompt,
		&participants, &room.Status, &room.CreatedAt, &room.ExpiresAt,
		&room.TimerDuration, &room.MaxParticipants, &room.ResultsAnnounced,
		&room.WinnerID,
	)
	if err != nil {
		return models.Room{}, err
	}
	if err := json.Unmarshal(participants, &room.Participants); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func getRoom(db *sql.DB, roomID string) (models.Room, error) {
	return scanRoom(db.QueryRow(`SELECT `+roomColumns+` FROM room WHERE id = $1`, roomID))
}

// List handles GET /api/rooms
// Only rooms that are neither expired nor closed are listed.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT `+roomColumns+`
		FROM room
		WHERE expires_at > $1 AND status != $2
		ORDER BY created_at DESC
	`, time.Now().UTC(), models.StatusClosed)
	if err != nil {
		slog.Error("failed to query rooms", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			slog.Error("failed to scan room", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		rooms = append(rooms, room)
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomListResponse{
		Rooms: rooms,
	})
}

// Get handles GET /api/rooms/{id}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}

	room, err := getRoom(h.db, roomID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, room)
}

// Create handles POST /api/rooms
// The host joins automatically and the expiry is pinned to creation + TTL.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	var req models.CreateRoomRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		req.Name = models.DefaultRoomName
	}
	if req.Type == "" {
		req.Type = models.RoomTypeChallenge
	}
	if req.Type != models.RoomTypeSolo && req.Type != models.RoomTypeCollab && req.Type != models.RoomTypeChallenge {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be solo, collab, or challenge")
		return
	}
	if req.Prompt == "" {
		req.Prompt = models.DefaultPrompt
	}
	if req.TimerDuration <= 0 {
		req.TimerDuration = models.DefaultTimerDuration
	}
	if req.MaxParticipants <= 0 {
		req.MaxParticipants = models.DefaultMaxParticipants
	}

	now := time.Now().UTC()
	room := models.Room{
		ID:               uuid.NewString(),
		Name:             req.Name,
		HostID:           user.ID,
		Type:             req.Type,
		Prompt:           req.Prompt,
		Participants:     []string{user.ID},
		Status:           models.StatusWaiting,
		CreatedAt:        now,
		ExpiresAt:        now.Add(h.cfg.RoomTTL),
		TimerDuration:    req.TimerDuration,
		MaxParticipants:  req.MaxParticipants,
		ResultsAnnounced: false,
		WinnerID:         nil,
	}

	participants, _ := json.Marshal(room.Participants)

	_, err = h.db.Exec(`
		INSERT INTO room (id, name, host_id, type, prompt, participants, status, created_at, expires_at, timer_duration, max_participants, results_announced, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, NULL)
	`, room.ID, room.Name, room.HostID, room.Type, room.Prompt, participants,
		room.Status, room.CreatedAt, room.ExpiresAt, room.TimerDuration, room.MaxParticipants)

	if err != nil {
		slog.Error("failed to insert room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	slog.Info("room created", "room_id", room.ID, "host_id", room.HostID, "expires_at", room.ExpiresAt)

	middleware.JSONResponse(w, http.StatusCreated, room)
}

// Join handles POST /api/rooms/{id}/join
// Joining a room you are already in is a silent no-op.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}

	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	room, err := getRoom(h.db, roomID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if room.ExpiresAt.Before(time.Now().UTC()) {
		middleware.ErrorResponse(w, http.StatusConflict, "Room has expired")
		return
	}
	if room.Status == models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusConflict, "Room is closed")
		return
	}

	alreadyIn := false
	for _, id := range room.Participants {
		if id == user.ID {
			alreadyIn = true
			break
		}
	}

	if !alreadyIn {
		if len(room.Participants) >= room.MaxParticipants {
			middleware.ErrorResponse(w, http.StatusConflict, "Room is full")
			return
		}

		_, err = h.db.Exec(`
			UPDATE room
			SET participants = participants || to_jsonb($1::text)
			WHERE id = $2
		`, user.ID, roomID)

		if err != nil {
			slog.Error("failed to join room", "error", err, "room_id", roomID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join room")
			return
		}

		slog.Info("user joined room", "room_id", roomID, "user_id", user.ID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Joined room successfully",
	})
}

// Results handles GET /api/rooms/{id}/results
// Returns the room, its performances ranked by average score, and the
// announced winner if any.
func (h *RoomHandler) Results(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}

	room, err := getRoom(h.db, roomID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	perfs, err := roomPerformances(h.db, roomID)
	if err != nil {
		slog.Error("failed to query performances", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RoomResultsResponse{
		Room:             room,
		Performances:     RankPerformances(perfs),
		ResultsAnnounced: room.ResultsAnnounced,
		WinnerID:         room.WinnerID,
	})
}

// Close handles POST /api/rooms/{id}/close
// Host-only. Announces results if they have not been announced, then
// force-closes the room.
func (h *RoomHandler) Close(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if roomID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "room_id is required")
		return
	}

	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	room, err := getRoom(h.db, roomID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Room not found")
		return
	}
	if err != nil {
		slog.Error("failed to query room", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if room.HostID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the room host can close the room")
		return
	}

	if !room.ResultsAnnounced {
		if err := AnnounceResults(h.db, roomID); err != nil {
			slog.Error("failed to announce results", "error", err, "room_id", roomID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close room")
			return
		}
	}

	_, err = h.db.Exec(`
		UPDATE room
		SET status = $1, results_announced = TRUE
		WHERE id = $2
	`, models.StatusClosed, roomID)

	if err != nil {
		slog.Error("failed to close room", "error", err, "room_id", roomID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close room")
		return
	}

	slog.Info("room closed", "room_id", roomID, "host_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Room closed successfully",
	})
}
