package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/jwebster45206/precalc-roulette/pkg/actor"
	"github.com/jwebster45206/precalc-roulette/pkg/state"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevelRaw string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile     string `envconfig:"LOG_FILE"`

	QuestionsFile string `envconfig:"QUESTIONS_FILE"` // empty = built-in pool

	Chambers               int           `envconfig:"CHAMBERS" default:"6"`
	AICorrectChance        float64       `envconfig:"AI_CORRECT_CHANCE" default:"0.6"`
	AIShootChanceOnCorrect float64       `envconfig:"AI_SHOOT_CHANCE" default:"0.8"`
	AIDelay                time.Duration `envconfig:"AI_DELAY" default:"900ms"`
	Seed                   int64         `envconfig:"SEED" default:"0"` // 0 = time-based

	LogLevel slog.Level `ignored:"true"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the game tuning values.
func (c *Config) Validate() error {
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Rules converts the tuning values into engine rules.
func (c *Config) Rules() state.Rules {
	return state.Rules{
		Chambers: c.Chambers,
		AI: actor.AIPolicy{
			CorrectChance:        c.AICorrectChance,
			ShootChanceOnCorrect: c.AIShootChanceOnCorrect,
		},
		MonsterDelay: c.AIDelay,
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
