// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/models"
)

// fakeProvider serves just enough of the identity provider API for
// registration and password login tests.
func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "provider-token",
			"user":         map[string]string{"id": "ext-id-123"},
		})
	})
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "provider-token",
		})
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRegister(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	provider := fakeProvider(t)
	handler := NewUserHandler(conn, cfg, auth.NewClient(provider.URL, "test-key"))

	tests := []struct {
		name           string
		requestBody    models.RegisterRequest
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.SessionResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Username: "mc_fresh",
				Email:    "fresh@revmix.app",
				Password: "secret123",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.SessionResponse) {
				if resp.User.Username != "mc_fresh" {
					t.Errorf("Expected username mc_fresh, got %s", resp.User.Username)
				}
				if resp.User.Level != 1 || resp.User.XP != 0 {
					t.Errorf("Expected level 1 / 0 xp, got %d/%d", resp.User.Level, resp.User.XP)
				}
				if resp.User.Bio != "New to the scene 🎤" {
					t.Errorf("Expected newcomer bio, got %q", resp.User.Bio)
				}
				if len(resp.User.Badges) != 1 || resp.User.Badges[0] != models.BadgeNewcomer {
					t.Errorf("Expected Newcomer badge, got %v", resp.User.Badges)
				}
				if resp.AccessToken != "provider-token" {
					t.Errorf("Expected provider token, got %s", resp.AccessToken)
				}
				if resp.TokenType != "bearer" {
					t.Errorf("Expected token_type bearer, got %s", resp.TokenType)
				}
			},
		},
		{
			name: "duplicate username",
			requestBody: models.RegisterRequest{
				Username: "mc_fresh",
				Email:    "other@revmix.app",
				Password: "secret123",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "missing fields",
			requestBody: models.RegisterRequest{
				Username: "incomplete",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "username too short",
			requestBody: models.RegisterRequest{
				Username: "x",
				Email:    "x@revmix.app",
				Password: "secret123",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest("POST", "/api/auth/register", tt.requestBody, "")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.checkResponse != nil && w.Code == http.StatusCreated {
				var resp models.SessionResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestRegisterProviderDown(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	// Point at a closed server so the provider call fails
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	handler := NewUserHandler(conn, cfg, auth.NewClient(dead.URL, "test-key"))

	req := authedRequest("POST", "/api/auth/register", models.RegisterRequest{
		Username: "mc_unlucky",
		Email:    "unlucky@revmix.app",
		Password: "secret123",
	}, "")
	w := httptest.NewRecorder()

	handler.Register(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestLoginTestUser(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewUserHandler(conn, cfg, getTestAuthn(cfg))

	hash, err := auth.HashPassword("letmein")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	userID := createTestUser(t, conn, "test_mc")
	if _, err := conn.Exec(`UPDATE app_user SET password_hash = $1 WHERE id = $2`, hash, userID); err != nil {
		t.Fatalf("Failed to set password hash: %v", err)
	}

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.SessionResponse)
	}{
		{
			name: "correct password",
			requestBody: models.LoginRequest{
				Username: "test_mc",
				Password: "letmein",
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.SessionResponse) {
				if resp.AccessToken != auth.TestToken(userID) {
					t.Errorf("Expected test token, got %s", resp.AccessToken)
				}
			},
		},
		{
			name: "wrong password",
			requestBody: models.LoginRequest{
				Username: "test_mc",
				Password: "wrong",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown username",
			requestBody: models.LoginRequest{
				Username: "nobody",
				Password: "letmein",
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing password",
			requestBody: models.LoginRequest{
				Username: "test_mc",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest("POST", "/api/auth/login", tt.requestBody, "")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.checkResponse != nil && w.Code == http.StatusOK {
				var resp models.SessionResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewUserHandler(conn, cfg, getTestAuthn(cfg))
	userID := createTestUser(t, conn, "leaver")

	t.Run("authenticated", func(t *testing.T) {
		req := authedRequest("POST", "/api/auth/logout", nil, userID)
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/auth/logout", nil)
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})
}

func TestGetMe(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewUserHandler(conn, cfg, getTestAuthn(cfg))
	userID := createTestUser(t, conn, "me_myself")

	req := authedRequest("GET", "/api/users/me", nil, userID)
	w := httptest.NewRecorder()

	handler.GetMe(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := json.NewDecoder(w.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.ID != userID {
		t.Errorf("Expected user %s, got %s", userID, user.ID)
	}
}

func TestGetProfile(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewUserHandler(conn, cfg, getTestAuthn(cfg))
	userID := createTestUser(t, conn, "profiled")

	t.Run("existing user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/profile/"+userID, nil)
		req.SetPathValue("id", userID)
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/profile/nope", nil)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})
}

func TestLeaderboard(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewUserHandler(conn, cfg, getTestAuthn(cfg))

	low := createTestUser(t, conn, "low_xp")
	high := createTestUser(t, conn, "high_xp")
	mid := createTestUser(t, conn, "mid_xp")

	for id, xp := range map[string]int{low: 10, high: 500, mid: 100} {
		if _, err := conn.Exec(`UPDATE app_user SET xp = $1 WHERE id = $2`, xp, id); err != nil {
			t.Fatalf("Failed to set xp: %v", err)
		}
	}

	t.Run("ordered by xp", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/leaderboard", nil)
		w := httptest.NewRecorder()

		handler.Leaderboard(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp models.LeaderboardResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(resp.Leaderboard) != 3 {
			t.Fatalf("Expected 3 users, got %d", len(resp.Leaderboard))
		}
		expected := []string{high, mid, low}
		for i, id := range expected {
			if resp.Leaderboard[i].ID != id {
				t.Errorf("Position %d: expected %s, got %s", i, id, resp.Leaderboard[i].ID)
			}
		}
	})

	t.Run("limit applied", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/leaderboard?limit=1", nil)
		w := httptest.NewRecorder()

		handler.Leaderboard(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp models.LeaderboardResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		if len(resp.Leaderboard) != 1 || resp.Leaderboard[0].ID != high {
			t.Errorf("Expected only top user, got %v", resp.Leaderboard)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/users/leaderboard?limit=zero", nil)
		w := httptest.NewRecorder()

		handler.Leaderboard(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
