package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	AuthURL       string
	AuthAnonKey   string
	RoomTTL       time.Duration
	SweepInterval time.Duration
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("revmix", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	// Identity provider (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AuthURL, "auth-url", "", "Identity provider base URL (prefer env)")
	fs.StringVar(&cfg.AuthAnonKey, "auth-key", "", "Identity provider API key (prefer env)")

	// Room lifecycle tuning
	fs.DurationVar(&cfg.RoomTTL, "ttl", 0, "Room lifetime from creation to expiry")
	fs.DurationVar(&cfg.SweepInterval, "sweep", 0, "Expiry sweep period")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8001 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Identity provider - MUST be provided
	if cfg.AuthURL == "" {
		cfg.AuthURL = os.Getenv("AUTH_URL")
	}
	if cfg.AuthURL == "" {
		return Config{}, errors.New("AUTH_URL required")
	}

	if cfg.AuthAnonKey == "" {
		cfg.AuthAnonKey = os.Getenv("AUTH_ANON_KEY")
	}
	if cfg.AuthAnonKey == "" {
		return Config{}, errors.New("AUTH_ANON_KEY required")
	}

	if cfg.RoomTTL == 0 {
		if ttlStr := os.Getenv("ROOM_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, errors.New("invalid ROOM_TTL env variable")
			}
			cfg.RoomTTL = ttl
		} else {
			cfg.RoomTTL = time.Hour
		}
	}

	if cfg.SweepInterval == 0 {
		if sweepStr := os.Getenv("SWEEP_INTERVAL"); sweepStr != "" {
			sweep, err := time.ParseDuration(sweepStr)
			if err != nil {
				return Config{}, errors.New("invalid SWEEP_INTERVAL env variable")
			}
			cfg.SweepInterval = sweep
		} else {
			cfg.SweepInterval = 5 * time.Minute
		}
	}

	return cfg, nil
}
