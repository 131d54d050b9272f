// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// All timestamps are TIMESTAMPTZ. The expiry sweep compares expires_at
// against UTC wall time; a naive TIMESTAMP column would silently shift
// rooms into the wrong sweep window.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    avatar_url TEXT NOT NULL DEFAULT '',
    level INTEGER NOT NULL DEFAULT 1,
    xp INTEGER NOT NULL DEFAULT 0,
    bio TEXT NOT NULL DEFAULT '',
    badges JSONB NOT NULL DEFAULT '[]',
    wins INTEGER NOT NULL DEFAULT 0,
    battles INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    auth_id TEXT UNIQUE,
    password_hash TEXT,
    is_test_user BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_app_user_username ON app_user(username);

-- Rooms
CREATE TABLE IF NOT EXISTS room (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    host_id TEXT NOT NULL REFERENCES app_user(id),
    type TEXT NOT NULL DEFAULT 'challenge' CHECK (type IN ('solo', 'collab', 'challenge')),
    prompt TEXT NOT NULL,
    participants JSONB NOT NULL DEFAULT '[]',
    status TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('waiting', 'active', 'judging', 'completed', 'closed')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL,
    timer_duration INTEGER NOT NULL DEFAULT 300,
    max_participants INTEGER NOT NULL DEFAULT 10,
    results_announced BOOLEAN NOT NULL DEFAULT FALSE,
    winner_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_room_expires_at ON room(expires_at);
CREATE INDEX IF NOT EXISTS idx_room_status ON room(status);

-- Performances
CREATE TABLE IF NOT EXISTS performance (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    username TEXT NOT NULL,
    room_id TEXT NOT NULL REFERENCES room(id),
    audio_data TEXT NOT NULL,
    duration DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (duration >= 0),
    timeline_marks JSONB NOT NULL DEFAULT '[]',
    audio_timeline JSONB NOT NULL DEFAULT '[]',
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    votes JSONB NOT NULL DEFAULT '{}',
    average_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    vote_count INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_performance_room_id ON performance(room_id);
CREATE INDEX IF NOT EXISTS idx_performance_user_id ON performance(user_id);

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES app_user(id),
    voter_username TEXT NOT NULL,
    performance_id TEXT NOT NULL REFERENCES performance(id),
    room_id TEXT NOT NULL,
    flow INTEGER NOT NULL DEFAULT 5,
    lyrics INTEGER NOT NULL DEFAULT 5,
    creativity INTEGER NOT NULL DEFAULT 5,
    emoji_reaction TEXT NOT NULL DEFAULT '🔥',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (voter_id, performance_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_performance_id ON vote(performance_id);

-- Challenges
CREATE TABLE IF NOT EXISTS challenge (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL REFERENCES app_user(id),
    type TEXT NOT NULL DEFAULT 'public' CHECK (type IN ('public', 'private')),
    rules JSONB NOT NULL DEFAULT '{}',
    participants JSONB NOT NULL DEFAULT '[]',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    starts_at TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL DEFAULT 'upcoming' CHECK (status IN ('upcoming', 'active', 'completed'))
);

-- Audio effects
CREATE TABLE IF NOT EXISTS audio_effect (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    category TEXT NOT NULL CHECK (category IN ('builtin', 'custom')),
    audio_data TEXT NOT NULL,
    duration DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_by TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
