// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// builtinAudioData is a short WAV stub shared by every built-in clip.
// Real clip audio ships with the frontend; the API only needs a valid
// payload for clients that read effects through it.
const builtinAudioData = "UklGRnoGAABXQVZFZm10IBAAAAABAAEAQB8AAEAfAAABAAgAZGF0YQoGAACBhYqFbF1fdJivrJBhNjVgodDbq2EcBj+a2/LDciUFLIHO8tiJNwgZaLvt559NEAxQp+PwtmMcBjiR1/LMeSwFJHfH8N2QQAoUX7Xqz6hVFQlLH"

var builtinEffects = []struct {
	id       string
	name     string
	duration float64
}{
	{"builtin-boom", "Boom", 0.5},
	{"builtin-applause", "Applause", 1.0},
	{"builtin-air-horn", "Air Horn", 0.8},
	{"builtin-vinyl-scratch", "Vinyl Scratch", 0.3},
}

// SeedEffects inserts the built-in soundboard effects.
// Safe to call multiple times - rows are keyed by fixed IDs.
func SeedEffects(db *sql.DB) error {
	for _, e := range builtinEffects {
		_, err := db.Exec(`
			INSERT INTO audio_effect (id, name, category, audio_data, duration, created_by, created_at)
			VALUES ($1, $2, 'builtin', $3, $4, NULL, NOW())
			ON CONFLICT (id) DO NOTHING
		`, e.id, e.name, builtinAudioData, e.duration)
		if err != nil {
			return fmt.Errorf("failed to seed effect %s: %w", e.name, err)
		}
	}

	return nil
}
