// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/cliparse"
	"github.com/danielhkuo/revmix/middleware"
	"github.com/danielhkuo/revmix/models"
)

type UserHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	authn *auth.Client
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config, authn *auth.Client) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, authn: authn}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}
	if len(req.Username) < 2 || len(req.Username) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 2-50 characters")
		return
	}

	var taken bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM app_user WHERE username = $1)`, req.Username).Scan(&taken)
	if err != nil {
		slog.Error("failed to check username", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already exists")
		return
	}

	externalID, accessToken, err := h.authn.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("identity provider signup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Registration failed")
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		AvatarURL: models.DefaultAvatarURL,
		Level:     1,
		XP:        0,
		Bio:       "New to the scene 🎤",
		Badges:    []string{models.BadgeNewcomer},
		Wins:      0,
		Battles:   0,
		CreatedAt: time.Now().UTC(),
		AuthID:    &externalID,
	}

	badges, _ := json.Marshal(user.Badges)

	_, err = h.db.Exec(`
		INSERT INTO app_user (id, username, email, avatar_url, level, xp, bio, badges, wins, battles, created_at, auth_id)
		VALUES ($1, $2, $3, $4, 1, 0, $5, $6, 0, 0, $7, $8)
	`, user.ID, user.Username, user.Email, user.AvatarURL, user.Bio, badges, user.CreatedAt, externalID)

	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   3600,
	})
}

// Login handles POST /api/auth/login
// Test accounts authenticate locally against a bcrypt hash; everyone
// else goes through the identity provider's password grant.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Username == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := scanUser(h.db.QueryRow(`
		SELECT ` + userColumns + ` FROM app_user WHERE username = $1
	`, req.Username))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var accessToken string
	if user.IsTestUser && user.PasswordHash != nil {
		if err := auth.CheckPassword(*user.PasswordHash, req.Password); err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		accessToken = auth.TestToken(user.ID)
	} else {
		accessToken, err = h.authn.SignInWithPassword(r.Context(), user.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			slog.Error("identity provider login failed", "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Authentication service error")
			return
		}
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		User:        user,
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   3600,
	})
}

// Logout handles POST /api/auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	// Provider-side revocation is best effort; test tokens have nothing
	// to revoke
	token := auth.BearerToken(r)
	if _, isTest := auth.ParseTestToken(token); !isTest {
		if err := h.authn.SignOut(r.Context(), token); err != nil {
			slog.Warn("provider sign-out failed", "error", err)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Logged out successfully",
	})
}

// GetProfile handles GET /api/users/profile/{id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}

	user, err := scanUser(h.db.QueryRow(`
		SELECT ` + userColumns + ` FROM app_user WHERE id = $1
	`, userID))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// GetMe handles GET /api/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(h.db, h.authn, r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// Leaderboard handles GET /api/users/leaderboard
func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	rows, err := h.db.Query(`
		SELECT `+userColumns+`
		FROM app_user
		ORDER BY xp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to query leaderboard", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		users = append(users, user)
	}

	middleware.JSONResponse(w, http.StatusOK, models.LeaderboardResponse{
		Leaderboard: users,
	})
}
