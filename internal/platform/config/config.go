package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	SweepEnabled  bool
	SweepInterval time.Duration
}

// DefaultSweepInterval bounds how often the overdue sweep runs.
var DefaultSweepInterval = 1 * time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("GRAMSEVA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	interval := DefaultSweepInterval
	if raw := os.Getenv("GRAMSEVA_SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	return Server{
		Addr:          addr,
		DatabaseURL:   os.Getenv("GRAMSEVA_DATABASE_URL"),
		SweepEnabled:  os.Getenv("GRAMSEVA_SWEEP_ENABLED") == "true",
		SweepInterval: interval,
	}
}
