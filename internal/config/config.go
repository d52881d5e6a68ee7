// Package config loads server settings from flags, falling back to
// SIMPLECHESS_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

const envPrefix = "SIMPLECHESS_"

type Config struct {
	Addr                string
	AllowOrigins        string
	DataDir             string
	MatchmakingInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        "http://localhost:5173",
		DataDir:             "",
		MatchmakingInterval: time.Second,
	}
}

// Load parses args (without the program name). getenv is usually os.Getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(envPrefix + "ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv(envPrefix + "ALLOW_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv(envPrefix + "DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv(envPrefix + "MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sMATCHMAKING_INTERVAL: %w", envPrefix, err)
		}
		cfg.MatchmakingInterval = d
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "badger directory; empty keeps games in memory")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "how often queued players are paired")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.MatchmakingInterval <= 0 {
		return Config{}, fmt.Errorf("matchmaking interval must be positive, got %s", cfg.MatchmakingInterval)
	}
	return cfg, nil
}
