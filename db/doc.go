// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - app_user: Accounts, XP, badges, win/battle counters
  - room: Battle rooms and lifecycle state
  - performance: Submitted audio entries with vote aggregates
  - vote: One vote per voter per performance
  - challenge: Scheduled community challenges
  - audio_effect: Built-in and user-uploaded soundboard clips

# Relationships

	app_user 1──* room (host)
	room 1──* performance
	performance 1──* vote
	app_user 1──* performance
	app_user 1──* vote

# Document columns

List- and map-shaped fields live in JSONB columns so single-statement
updates stay atomic:

  - room.participants: ordered array of user IDs (join order)
  - performance.votes: {voter_id: {flow, lyrics, creativity}}
  - performance.timeline_marks, performance.audio_timeline
  - app_user.badges: append-only array, duplicates allowed

# Indexes

  - app_user.username (unique)
  - app_user.auth_id (unique)
  - vote.(voter_id, performance_id) (unique) - the duplicate-vote guard
  - room.expires_at - drives the expiry sweep range scan
  - room.status, performance.room_id, performance.user_id,
    vote.performance_id
*/
package db
