// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/MisterGoldie/wargame/engine"
)

// Config holds every tunable of the service. Engine rule knobs are surfaced
// here so deployments can pick a rule variant without a rebuild.
type Config struct {
	ListenAddr    string `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisURL      string `env:"REDIS_URL"`
	ProfileAPIURL string `env:"PROFILE_API_URL"`

	CooldownPeriod   time.Duration `env:"MOVE_COOLDOWN" envDefault:"1s"`
	IncludeNukes     bool          `env:"INCLUDE_NUKES" envDefault:"true"`
	NukeThreshold    int           `env:"NUKE_THRESHOLD" envDefault:"10"`
	NukeCapture      int           `env:"NUKE_CAPTURE" envDefault:"10"`
	ForcedWarEvery   int           `env:"FORCED_WAR_EVERY" envDefault:"12"`
	StrictInvariants bool          `env:"STRICT_INVARIANTS" envDefault:"false"`

	ProfileCacheTTL      time.Duration `env:"PROFILE_CACHE_TTL" envDefault:"10m"`
	ProfileCacheAttempts int           `env:"PROFILE_CACHE_MAX_ATTEMPTS" envDefault:"3"`
}

// Load reads .env if present, then parses the environment.
func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Rules maps the configured knobs onto an engine rule set.
func (c Config) Rules() engine.Rules {
	return engine.Rules{
		IncludeNukes:     c.IncludeNukes,
		NukeThreshold:    c.NukeThreshold,
		NukeCapture:      c.NukeCapture,
		WarStake:         3,
		ForcedWarEvery:   c.ForcedWarEvery,
		CooldownPeriod:   c.CooldownPeriod,
		StrictInvariants: c.StrictInvariants,
	}
}
