// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the RevMix API.

# Handler Types

Each handler is a struct with database, config, and authenticator
dependencies:

  - UserHandler: registration, login, profiles, leaderboard
  - RoomHandler: room lifecycle (create, join, results, close)
  - PerformanceHandler: performance submission and listing
  - VoteHandler: vote casting and listing
  - EffectHandler, ChallengeHandler: soundboard clips and challenges

Handlers are created via constructor functions:

	roomHandler := handlers.NewRoomHandler(db, cfg, authn)

# Room Lifecycle

Rooms progress waiting → active → judging → completed → closed; this
package only ever writes the terminal closed state. A room is created
with expires_at pinned to created_at + cfg.RoomTTL and is closed either
by its host (POST /api/rooms/{id}/close) or by the sweeper package once
it expires.

# Voting

Cast enforces one vote per voter per performance (unique constraint plus
an in-transaction check) and rejects self-votes, both with 409. The vote
row and the performance's votes map, average_score, and vote_count are
committed together in one transaction.

# Scoring and Results

scoring.go holds the pure pieces: AverageScore (mean over voters of each
voter's three-category mean) and RankPerformances (stable descending
sort). announce.go holds AnnounceResults, which records the winner with
a conditional update and credits XP, badges, and counters; it is invoked
by room close and by the expiry sweep.

# Authentication

CurrentUser resolves bearer tokens: test_token_ tokens map straight to
test accounts, everything else is verified by the identity provider and
matched on auth_id.
*/
package handlers
