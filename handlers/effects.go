// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/cliparse"
	"github.com/danielhkuo/revmix/middleware"
	"github.com/danielhkuo/revmix/models"
)

type EffectHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn auth.Authenticator
}

func NewEffectHandler(db *sql.DB, cfg cliparse.Config, authn auth.Authenticator) *EffectHandler {
	return &EffectHandler{db: db, cfg: cfg, authn: authn}
}

// List handles GET /api/audio-effects
func (h *EffectHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, category, audio_data, duration, created_by, created_at
		FROM audio_effect
		ORDER BY created_at
	`)
	if err != nil {
		slog.Error("failed to query audio effects", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	effects := []models.AudioEffect{}
	for rows.Next() {
		var e models.AudioEffect
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.AudioData, &e.Duration, &e.CreatedBy, &e.CreatedAt); err != nil {
			slog.Error("failed to scan audio effect", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		effects = append(effects, e)
	}

	middleware.JSONResponse(w, http.StatusOK, models.EffectListResponse{
		Effects: effects,
	})
}

// Create handles POST /api/audio-effects
// User uploads always land in the custom category.
func (h *EffectHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	var req models.CreateEffectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.AudioData == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "audio_data is required")
		return
	}

	effect := models.AudioEffect{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Category:  "custom",
		AudioData: req.AudioData,
		Duration:  req.Duration,
		CreatedBy: &user.ID,
		CreatedAt: time.Now().UTC(),
	}

	_, err = h.db.Exec(`
		INSERT INTO audio_effect (id, name, category, audio_data, duration, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, effect.ID, effect.Name, effect.Category, effect.AudioData, effect.Duration, effect.CreatedBy, effect.CreatedAt)

	if err != nil {
		slog.Error("failed to insert audio effect", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create effect")
		return
	}

	slog.Info("audio effect created", "effect_id", effect.ID, "creator", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, effect)
}
