package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/matchday/internal/feedback"
	"github.com/udisondev/matchday/internal/match"
	"github.com/udisondev/matchday/internal/minigame"
)

// DefaultPath is used when MATCHDAY_CONFIG is not set.
const DefaultPath = "config/matchday.yaml"

// PathEnv names the environment variable overriding DefaultPath.
const PathEnv = "MATCHDAY_CONFIG"

// Matchday holds all configuration for the game host.
type Matchday struct {
	LogLevel string `yaml:"log_level"`

	Database  DatabaseConfig    `yaml:"database"`
	Clock     ClockConfig       `yaml:"clock"`
	Arena     ArenaConfig       `yaml:"arena"`
	Feedback  feedback.Settings `yaml:"feedback"`
	Spectator SpectatorConfig   `yaml:"spectator"`
	Autopilot AutopilotConfig   `yaml:"autopilot"`
}

// DatabaseConfig selects and locates the storage backend.
type DatabaseConfig struct {
	Driver     string         `yaml:"driver"` // sqlite | postgres
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`

	// WriteQueue is the async writer's buffer (default: 256).
	WriteQueue int `yaml:"write_queue"`
}

// Target returns the file path or DSN for the selected driver.
func (d DatabaseConfig) Target() string {
	if d.Driver == "postgres" {
		return d.Postgres.DSN()
	}
	return d.SQLitePath
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode,
	)
}

// ClockConfig drives the fixed-step simulation.
type ClockConfig struct {
	TickRate int     `yaml:"tick_rate"` // steps per second
	Speed    float64 `yaml:"speed"`     // simulated seconds per real second
	Seed     uint64  `yaml:"seed"`      // 0 = seed from time
}

// Step returns the simulated length of one tick in seconds.
func (c ClockConfig) Step() float64 { return 1 / float64(c.TickRate) }

// ArenaConfig is the play-area geometry reported by the presentation.
type ArenaConfig struct {
	minigame.Layout `yaml:",inline"`
	MatchField      match.Field `yaml:"match_field"`
}

// SpectatorConfig controls the read-only websocket feed.
type SpectatorConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BindAddress string        `yaml:"bind_address"`
	Interval    time.Duration `yaml:"interval"` // between snapshots
}

// AutopilotConfig controls the headless player.
type AutopilotConfig struct {
	Enabled bool    `yaml:"enabled"`
	Skill   float64 `yaml:"skill"` // 0..1, chance of a good input
}

// Default returns Matchday config with sensible defaults.
func Default() Matchday {
	return Matchday{
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "data/matchday.db",
			Postgres: PostgresConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "matchday",
				Password: "matchday",
				DBName:   "matchday",
				SSLMode:  "disable",
			},
			WriteQueue: 256,
		},
		Clock: ClockConfig{
			TickRate: 60,
			Speed:    1,
		},
		Arena: ArenaConfig{
			Layout:     minigame.DefaultLayout(),
			MatchField: match.DefaultField(),
		},
		Feedback: feedback.DefaultSettings(),
		Spectator: SpectatorConfig{
			BindAddress: "127.0.0.1:8088",
			Interval:    100 * time.Millisecond,
		},
		Autopilot: AutopilotConfig{
			Enabled: true,
			Skill:   0.8,
		},
	}
}

// Validate reports the first setting the host cannot run with.
func (c Matchday) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is empty")
		}
	case "postgres":
	default:
		return fmt.Errorf("database.driver %q: want sqlite or postgres", c.Database.Driver)
	}
	if c.Clock.TickRate <= 0 {
		return fmt.Errorf("clock.tick_rate must be > 0, got %d", c.Clock.TickRate)
	}
	if c.Clock.Speed <= 0 {
		return fmt.Errorf("clock.speed must be > 0, got %v", c.Clock.Speed)
	}
	if c.Autopilot.Skill < 0 || c.Autopilot.Skill > 1 {
		return fmt.Errorf("autopilot.skill must be in [0,1], got %v", c.Autopilot.Skill)
	}
	if c.Spectator.Enabled && c.Spectator.Interval <= 0 {
		return fmt.Errorf("spectator.interval must be > 0, got %v", c.Spectator.Interval)
	}
	return nil
}

// Path returns the config path from the environment or DefaultPath.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}

// Load loads Matchday config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Matchday, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
