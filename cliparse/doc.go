// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8001)
  - DatabaseURL: PostgreSQL connection string (required)
  - AuthURL: Identity provider base URL (required)
  - AuthAnonKey: Identity provider API key (required)
  - RoomTTL: Room lifetime from creation to expiry (default: 1h)
  - SweepInterval: Expiry sweep period (default: 5m)

# CLI Flags

	-p          Server port
	-d          Database URL
	-auth-url   Identity provider base URL
	-auth-key   Identity provider API key
	-ttl        Room TTL
	-sweep      Sweep interval

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	AUTH_URL       → -auth-url
	AUTH_ANON_KEY  → -auth-key
	ROOM_TTL       → -ttl
	SWEEP_INTERVAL → -sweep

CLI flags take precedence over environment variables. Durations use Go
syntax ("1h", "5m", "30s").

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - AUTH_URL must be provided
  - AUTH_ANON_KEY must be provided
*/
package cliparse
