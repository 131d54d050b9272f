// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth integrates with the external identity provider and handles
the two credential paths the API accepts.

# Identity Provider

Client wraps a Supabase-style HTTP API:

	authn := auth.NewClient(cfg.AuthURL, cfg.AuthAnonKey)
	externalID, err := authn.Authenticate(ctx, token)

Sign-up, password sign-in, and sign-out map to /auth/v1/signup,
/auth/v1/token?grant_type=password, and /auth/v1/logout. The Authenticator
interface exposes only Authenticate so handlers can be tested against a
stub.

# Test Accounts

Operator-seeded accounts have no provider identity. Their bearer tokens
carry the test_token_ prefix and resolve directly to a user row flagged
is_test_user; their passwords are bcrypt hashes checked locally with
CheckPassword.

# Helpers

BearerToken extracts the token from an Authorization header. TestToken
and ParseTestToken build and recognize test-account tokens.
*/
package auth
