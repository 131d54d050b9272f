// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the RevMix API server.

RevMix is a social rap-battle service: users open time-boxed battle rooms,
submit audio performances, score each other across three categories
(flow, lyrics, creativity), and earn XP and badges when results land.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... AUTH_URL=https://... AUTH_ANON_KEY=... go run main.go

Or with flags:

	go run main.go -p 8001 -d "postgres://..." -auth-url "https://..." -auth-key "..."

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - AUTH_URL (-auth-url): base URL of the identity provider
  - AUTH_ANON_KEY (-auth-key): identity provider API key

Optional settings:

  - PORT (-p): server port (default: 8001)
  - ROOM_TTL (-ttl): room lifetime from creation to expiry (default: 1h)
  - SWEEP_INTERVAL (-sweep): expiry sweep period (default: 5m)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, rooms, performances, votes)
    plus the score aggregator and result announcer
  - router: route definitions using chi
  - middleware: logging, JSON helpers
  - models: domain and request/response types
  - auth: identity-provider client, test tokens, password hashing
  - db: schema creation
  - cliparse: configuration parsing
  - sweeper: periodic room expiry sweep

See package documentation for each component.
*/
package main
