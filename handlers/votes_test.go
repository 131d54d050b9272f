// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/revmix/models"
)

func intPtr(v int) *int {
	return &v
}

func TestCastVote(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewVoteHandler(conn, cfg, getTestAuthn(cfg))

	performerID := createTestUser(t, conn, "performer")
	voterID := createTestUser(t, conn, "voter")

	roomID := createTestRoom(t, conn, performerID, models.StatusWaiting, time.Now().UTC().Add(time.Hour))
	perfID := createTestPerformance(t, conn, roomID, performerID, "performer", 0)

	tests := []struct {
		name           string
		requestBody    models.CastVoteRequest
		voterID        string
		expectedStatus int
		checkResponse  func(t *testing.T, vote *models.Vote)
	}{
		{
			name: "valid vote",
			requestBody: models.CastVoteRequest{
				PerformanceID: perfID,
				RoomID:        roomID,
				Flow:          intPtr(8),
				Lyrics:        intPtr(7),
				Creativity:    intPtr(9),
				EmojiReaction: "🎤",
			},
			voterID:        voterID,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, vote *models.Vote) {
				if vote.Flow != 8 || vote.Lyrics != 7 || vote.Creativity != 9 {
					t.Errorf("Expected scores 8/7/9, got %d/%d/%d", vote.Flow, vote.Lyrics, vote.Creativity)
				}
				if vote.EmojiReaction != "🎤" {
					t.Errorf("Expected emoji 🎤, got %s", vote.EmojiReaction)
				}
				if vote.VoterUsername != "voter" {
					t.Errorf("Expected denormalized username 'voter', got '%s'", vote.VoterUsername)
				}

				// Aggregate must reflect the vote in the same commit
				var avg float64
				var count int
				err := conn.QueryRow(`
					SELECT average_score, vote_count FROM performance WHERE id = $1
				`, perfID).Scan(&avg, &count)
				if err != nil {
					t.Fatalf("Failed to query aggregate: %v", err)
				}
				if count != 1 {
					t.Errorf("Expected vote_count 1, got %d", count)
				}
				if math.Abs(avg-8.0) > 1e-9 {
					t.Errorf("Expected average_score 8.0, got %f", avg)
				}
			},
		},
		{
			name: "duplicate vote",
			requestBody: models.CastVoteRequest{
				PerformanceID: perfID,
				RoomID:        roomID,
				Flow:          intPtr(1),
				Lyrics:        intPtr(1),
				Creativity:    intPtr(1),
			},
			voterID:        voterID,
			expectedStatus: http.StatusConflict,
		},
		{
			name: "self vote",
			requestBody: models.CastVoteRequest{
				PerformanceID: perfID,
				RoomID:        roomID,
			},
			voterID:        performerID,
			expectedStatus: http.StatusConflict,
		},
		{
			name: "unknown performance",
			requestBody: models.CastVoteRequest{
				PerformanceID: "nope",
				RoomID:        roomID,
			},
			voterID:        voterID,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing performance_id",
			requestBody:    models.CastVoteRequest{RoomID: roomID},
			voterID:        voterID,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest("POST", "/api/votes", tt.requestBody, tt.voterID)
			w := httptest.NewRecorder()

			handler.Cast(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.checkResponse != nil && w.Code == http.StatusCreated {
				var vote models.Vote
				if err := json.NewDecoder(w.Body).Decode(&vote); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				tt.checkResponse(t, &vote)
			}
		})
	}
}

func TestCastVoteDefaults(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewVoteHandler(conn, cfg, getTestAuthn(cfg))

	performerID := createTestUser(t, conn, "performer")
	voterID := createTestUser(t, conn, "voter")

	roomID := createTestRoom(t, conn, performerID, models.StatusWaiting, time.Now().UTC().Add(time.Hour))
	perfID := createTestPerformance(t, conn, roomID, performerID, "performer", 0)

	// Scores and emoji omitted entirely
	req := authedRequest("POST", "/api/votes", models.CastVoteRequest{
		PerformanceID: perfID,
		RoomID:        roomID,
	}, voterID)
	w := httptest.NewRecorder()

	handler.Cast(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	var vote models.Vote
	if err := json.NewDecoder(w.Body).Decode(&vote); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if vote.Flow != 5 || vote.Lyrics != 5 || vote.Creativity != 5 {
		t.Errorf("Expected default scores 5/5/5, got %d/%d/%d", vote.Flow, vote.Lyrics, vote.Creativity)
	}
	if vote.EmojiReaction != models.DefaultEmojiReaction {
		t.Errorf("Expected default emoji %s, got %s", models.DefaultEmojiReaction, vote.EmojiReaction)
	}
}

func TestCastVoteAggregateAcrossVoters(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewVoteHandler(conn, cfg, getTestAuthn(cfg))

	performerID := createTestUser(t, conn, "performer")
	aliceID := createTestUser(t, conn, "alice")
	bobID := createTestUser(t, conn, "bob")

	roomID := createTestRoom(t, conn, performerID, models.StatusWaiting, time.Now().UTC().Add(time.Hour))
	perfID := createTestPerformance(t, conn, roomID, performerID, "performer", 0)

	votes := []struct {
		voterID string
		scores  [3]int
	}{
		{aliceID, [3]int{9, 9, 9}},
		{bobID, [3]int{3, 3, 3}},
	}

	for _, v := range votes {
		req := authedRequest("POST", "/api/votes", models.CastVoteRequest{
			PerformanceID: perfID,
			RoomID:        roomID,
			Flow:          intPtr(v.scores[0]),
			Lyrics:        intPtr(v.scores[1]),
			Creativity:    intPtr(v.scores[2]),
		}, v.voterID)
		w := httptest.NewRecorder()

		handler.Cast(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Vote from %s: expected status 201, got %d. Body: %s", v.voterID, w.Code, w.Body.String())
		}
	}

	var avg float64
	var count int
	err := conn.QueryRow(`
		SELECT average_score, vote_count FROM performance WHERE id = $1
	`, perfID).Scan(&avg, &count)
	if err != nil {
		t.Fatalf("Failed to query aggregate: %v", err)
	}

	if count != 2 {
		t.Errorf("Expected vote_count 2, got %d", count)
	}
	if math.Abs(avg-6.0) > 1e-9 {
		t.Errorf("Expected average_score 6.0, got %f", avg)
	}
}

func TestListVotesByPerformance(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()

	cfg := getTestConfig()
	handler := NewVoteHandler(conn, cfg, getTestAuthn(cfg))

	performerID := createTestUser(t, conn, "performer")
	voterID := createTestUser(t, conn, "voter")

	roomID := createTestRoom(t, conn, performerID, models.StatusWaiting, time.Now().UTC().Add(time.Hour))
	perfID := createTestPerformance(t, conn, roomID, performerID, "performer", 0)

	castReq := authedRequest("POST", "/api/votes", models.CastVoteRequest{
		PerformanceID: perfID,
		RoomID:        roomID,
	}, voterID)
	castW := httptest.NewRecorder()
	handler.Cast(castW, castReq)
	if castW.Code != http.StatusCreated {
		t.Fatalf("Failed to seed vote: %d", castW.Code)
	}

	req := httptest.NewRequest("GET", "/api/votes/performance/"+perfID, nil)
	req.SetPathValue("id", perfID)
	w := httptest.NewRecorder()

	handler.ListByPerformance(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp models.VoteListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Votes) != 1 {
		t.Fatalf("Expected 1 vote, got %d", len(resp.Votes))
	}
	if resp.Votes[0].VoterID != voterID {
		t.Errorf("Expected voter %s, got %s", voterID, resp.Votes[0].VoterID)
	}
}
