// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielhkuo/revmix/auth"
	"github.com/danielhkuo/revmix/models"
)

var errUnauthorized = errors.New("could not validate credentials")

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const userColumns = `id, username, email, avatar_url, level, xp, bio, badges, wins, battles, created_at, auth_id, password_hash, is_test_user`

func scanUser(s scanner) (models.User, error) {
	var u models.User
	var badges []byte
	err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.AvatarURL, &u.Level, &u.XP,
		&u.Bio, &badges, &u.Wins, &u.Battles, &u.CreatedAt,
		&u.AuthID, &u.PasswordHash, &u.IsTestUser,
	)
	if err != nil {
		return models.User{}, err
	}
	if err := json.Unmarshal(badges, &u.Badges); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// CurrentUser resolves the request's bearer token to an application user.
// Test tokens resolve locally; everything else goes through the identity
// provider and then maps back via auth_id.
func CurrentUser(db *sql.DB, authn auth.Authenticator, r *http.Request) (models.User, error) {
	token := auth.BearerToken(r)
	if token == "" {
		return models.User{}, errUnauthorized
	}

	if userID, ok := auth.ParseTestToken(token); ok {
		user, err := scanUser(db.QueryRow(`
			SELECT `+userColumns+` FROM app_user WHERE id = $1 AND is_test_user = TRUE
		`, userID))
		if err != nil {
			return models.User{}, errUnauthorized
		}
		return user, nil
	}

	externalID, err := authn.Authenticate(r.Context(), token)
	if err != nil {
		return models.User{}, errUnauthorized
	}

	user, err := scanUser(db.QueryRow(`
		SELECT `+userColumns+` FROM app_user WHERE auth_id = $1
	`, externalID))
	if err != nil {
		return models.User{}, errUnauthorized
	}
	return user, nil
}
