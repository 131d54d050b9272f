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

type ChallengeHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn auth.Authenticator
}

func NewChallengeHandler(db *sql.DB, cfg cliparse.Config, authn auth.Authenticator) *ChallengeHandler {
	return &ChallengeHandler{db: db, cfg: cfg, authn: authn}
}

func scanChallenge(s scanner) (models.Challenge, error) {
	var c models.Challenge
	var rules, participants []byte
	err := s.Scan(&c.ID, &c.Title, &c.Description, &c.CreatorID, &c.Type,
		&rules, &participants, &c.CreatedAt, &c.StartsAt, &c.Status)
	if err != nil {
		return models.Challenge{}, err
	}
	if err := json.Unmarshal(rules, &c.Rules); err != nil {
		return models.Challenge{}, err
	}
	if err := json.Unmarshal(participants, &c.Participants); err != nil {
		return models.Challenge{}, err
	}
	return c, nil
}

// List handles GET /api/challenges
func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, title, description, creator_id, type, rules, participants, created_at, starts_at, status
		FROM challenge
		ORDER BY starts_at
	`)
	if err != nil {
		slog.Error("failed to query challenges", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	challenges := []models.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			slog.Error("failed to scan challenge", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		challenges = append(challenges, c)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ChallengeListResponse{
		Challenges: challenges,
	})
}

// Create handles POST /api/challenges
// New challenges start one hour out, in the upcoming state.
func (h *ChallengeHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	var req models.CreateChallengeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		req.Title = "New Challenge"
	}
	if req.Type == "" {
		req.Type = "public"
	}
	if req.Type != "public" && req.Type != "private" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type must be public or private")
		return
	}
	if req.Rules == nil {
		req.Rules = map[string]any{}
	}

	now := time.Now().UTC()
	challenge := models.Challenge{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		CreatorID:    user.ID,
		Type:         req.Type,
		Rules:        req.Rules,
		Participants: []string{user.ID},
		CreatedAt:    now,
		StartsAt:     now.Add(time.Hour),
		Status:       "upcoming",
	}

	rules, _ := json.Marshal(challenge.Rules)
	participants, _ := json.Marshal(challenge.Participants)

	_, err = h.db.Exec(`
		INSERT INTO challenge (id, title, description, creator_id, type, rules, participants, created_at, starts_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, challenge.ID, challenge.Title, challenge.Description, challenge.CreatorID, challenge.Type,
		rules, participants, challenge.CreatedAt, challenge.StartsAt, challenge.Status)

	if err != nil {
		slog.Error("failed to insert challenge", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	slog.Info("challenge created", "challenge_id", challenge.ID, "creator", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, challenge)
}
