// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/cliparse"
	"github.com/danielhkuo/revmix/handlers"
	"github.com/danielhkuo/revmix/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, authn *auth.Client) http.Handler {
	mux := chi.NewRouter()

	// Browser clients are served from arbitrary origins during battles
	mux.Use(cors.AllowAll().Handler)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg, authn)
	roomHandler := handlers.NewRoomHandler(db, cfg, authn)
	performanceHandler := handlers.NewPerformanceHandler(db, cfg, authn)
	voteHandler := handlers.NewVoteHandler(db, cfg, authn)
	effectHandler := handlers.NewEffectHandler(db, cfg, authn)
	challengeHandler := handlers.NewChallengeHandler(db, cfg, authn)

	// Health check
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint
	mux.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("RevMix API v1"))
	})

	// Authentication
	mux.Post("/api/auth/register", middleware.WithLogging(userHandler.Register))
	mux.Post("/api/auth/login", middleware.WithLogging(userHandler.Login))
	mux.Post("/api/auth/logout", middleware.WithLogging(userHandler.Logout))

	// Users
	mux.Get("/api/users/me", middleware.WithLogging(userHandler.GetMe))
	mux.Get("/api/users/leaderboard", middleware.WithLogging(userHandler.Leaderboard))
	mux.Get("/api/users/profile/{id}", middleware.WithLogging(userHandler.GetProfile))

	// Rooms
	mux.Get("/api/rooms", middleware.WithLogging(roomHandler.List))
	mux.Post("/api/rooms", middleware.WithLogging(roomHandler.Create))
	mux.Get("/api/rooms/{id}", middleware.WithLogging(roomHandler.Get))
	mux.Post("/api/rooms/{id}/join", middleware.WithLogging(roomHandler.Join))
	mux.Get("/api/rooms/{id}/results", middleware.WithLogging(roomHandler.Results))
	mux.Post("/api/rooms/{id}/close", middleware.WithLogging(roomHandler.Close))

	// Performances
	mux.Post("/api/performances", middleware.WithLogging(performanceHandler.Submit))
	mux.Get("/api/performances/room/{id}", middleware.WithLogging(performanceHandler.ListByRoom))

	// Votes
	mux.Post("/api/votes", middleware.WithLogging(voteHandler.Cast))
	mux.Get("/api/votes/performance/{id}", middleware.WithLogging(voteHandler.ListByPerformance))

	// Soundboard and challenges
	mux.Get("/api/audio-effects", middleware.WithLogging(effectHandler.List))
	mux.Post("/api/audio-effects", middleware.WithLogging(effectHandler.Create))
	mux.Get("/api/challenges", middleware.WithLogging(challengeHandler.List))
	mux.Post("/api/challenges", middleware.WithLogging(challengeHandler.Create))

	return mux
}
