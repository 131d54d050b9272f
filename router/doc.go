// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the RevMix API.

# Route Registration

NewRouter creates a chi router with all endpoints and permissive CORS:

	mux := router.NewRouter(db, cfg, authn)

# Endpoints

Health:

	GET /health

Authentication:

	POST /api/auth/register - Create account
	POST /api/auth/login    - Password login
	POST /api/auth/logout   - Revoke session

Users:

	GET /api/users/me           - Current user
	GET /api/users/leaderboard  - Top users by XP
	GET /api/users/profile/{id} - Public profile

Rooms:

	GET  /api/rooms              - Active rooms
	POST /api/rooms              - Create room
	GET  /api/rooms/{id}         - Room details
	POST /api/rooms/{id}/join    - Join room
	GET  /api/rooms/{id}/results - Ranked results
	POST /api/rooms/{id}/close   - Close room (host only)

Performances and votes:

	POST /api/performances               - Submit performance
	GET  /api/performances/room/{id}     - Room's performances
	POST /api/votes                      - Cast vote
	GET  /api/votes/performance/{id}     - Performance's votes

Soundboard and challenges:

	GET  /api/audio-effects - List effects
	POST /api/audio-effects - Upload effect
	GET  /api/challenges    - List challenges
	POST /api/challenges    - Create challenge

# Handler Initialization

The router creates handler instances with dependency injection:

	userHandler := handlers.NewUserHandler(db, cfg, authn)
	roomHandler := handlers.NewRoomHandler(db, cfg, authn)

All handlers receive the database connection, configuration, and the
identity provider client.
*/
package router
