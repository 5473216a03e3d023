package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"planner/internal/model"
)

// NOTE: first-run behavior matches the rest of the tooling: a missing file
// is created with defaults and 0600 permissions.

const (
	defaultListen         = "127.0.0.1:8080"
	defaultTitle          = "My Schedule"
	defaultWeather        = "30.2°C Beijing"
	defaultUpcomingLimit  = 5
	defaultCellEventLimit = 2
	defaultDigestCron     = "0 8 * * *"
	defaultLogLevel       = "info"
)

// SeedEvent is a starting event declared in the config file.
type SeedEvent struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	// Date is YYYY-MM-DD.
	Date      string `yaml:"date" json:"date"`
	StartTime string `yaml:"start_time" json:"start_time"`
	EndTime   string `yaml:"end_time" json:"end_time"`
	Type      string `yaml:"type" json:"type"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the planner page.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the planner page and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is an optional IANA zone for "today". Empty means the
	// process's local wall-clock time.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Title is shown in the page header.
	Title string `yaml:"title" json:"title"`

	// Weather is the static placeholder shown next to the clock.
	Weather string `yaml:"weather" json:"weather"`

	// UpcomingLimit caps the upcoming-events panel.
	UpcomingLimit int `yaml:"upcoming_limit" json:"upcoming_limit"`

	// CellEventLimit is how many events a grid cell shows before "+N more".
	CellEventLimit int `yaml:"cell_event_limit" json:"cell_event_limit"`

	// DigestCron schedules the agenda digest log line. Empty disables it.
	DigestCron string `yaml:"digest_cron" json:"digest_cron"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// SeedICS optionally points at an .ics file whose VEVENTs are loaded at
	// startup, after SeedEvents.
	SeedICS string `yaml:"seed_ics" json:"seed_ics"`

	SeedEvents []SeedEvent `yaml:"seed_events" json:"seed_events"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// envOverrides are read from PLANNER_* variables and win over the file.
type envOverrides struct {
	Listen     string `envconfig:"LISTEN"`
	Timezone   string `envconfig:"TIMEZONE"`
	DigestCron string `envconfig:"DIGEST_CRON"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

// DefaultSeedEvents are the sample events a fresh install starts with.
func DefaultSeedEvents() []SeedEvent {
	return []SeedEvent{
		{Title: "Client meeting", Description: "Remember to prepare the meeting materials", Date: "2025-01-15", StartTime: "10:00", EndTime: "11:00", Type: "work"},
		{Title: "Workout", Description: "Leg day", Date: "2025-01-16", StartTime: "18:00", EndTime: "19:30", Type: "exercise"},
		{Title: "English class", Description: "Speaking practice", Date: "2025-01-17", StartTime: "19:00", EndTime: "20:00", Type: "study"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:         defaultListen,
		Title:          defaultTitle,
		Weather:        defaultWeather,
		UpcomingLimit:  defaultUpcomingLimit,
		CellEventLimit: defaultCellEventLimit,
		DigestCron:     defaultDigestCron,
		LogLevel:       defaultLogLevel,
		SeedEvents:     DefaultSeedEvents(),
	}
}

// Normalize fills in missing/zero values so partially-filled files still
// behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.UpcomingLimit <= 0 {
		c.UpcomingLimit = defaultUpcomingLimit
	}
	if c.CellEventLimit <= 0 {
		c.CellEventLimit = defaultCellEventLimit
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.SeedEvents == nil {
		c.SeedEvents = []SeedEvent{}
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Events converts SeedEvents into model events, assigning ids with newID.
// Invalid entries are returned as an error naming the offending index.
func (c *Config) Events(newID func() string) ([]model.Event, error) {
	out := make([]model.Event, 0, len(c.SeedEvents))
	for i, s := range c.SeedEvents {
		ev, err := s.toEvent(newID())
		if err != nil {
			return nil, fmt.Errorf("seed_events[%d]: %w", i, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (s SeedEvent) toEvent(id string) (model.Event, error) {
	if s.Title == "" {
		return model.Event{}, errors.New("title is empty")
	}
	date, err := model.ParseDate(s.Date)
	if err != nil {
		return model.Event{}, err
	}
	if !model.ValidClock(s.StartTime) || !model.ValidClock(s.EndTime) {
		return model.Event{}, fmt.Errorf("times must be HH:MM, got %q-%q", s.StartTime, s.EndTime)
	}
	typ := model.TypeWork
	if s.Type != "" {
		if typ, err = model.ParseEventType(s.Type); err != nil {
			return model.Event{}, err
		}
	}
	return model.Event{
		ID:          id,
		Title:       s.Title,
		Description: s.Description,
		Date:        date,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		Type:        typ,
	}, nil
}

// ApplyEnv overlays PLANNER_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process("planner", &env); err != nil {
		return fmt.Errorf("failed to process environment variables: %w", err)
	}
	if env.Listen != "" {
		c.Listen = env.Listen
	}
	if env.Timezone != "" {
		c.Timezone = env.Timezone
	}
	if env.DigestCron != "" {
		c.DigestCron = env.DigestCron
	}
	if env.LogLevel != "" {
		c.LogLevel = env.LogLevel
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
//
// Environment overrides are applied in both cases but never written back.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, cfg.ApplyEnv()
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, cfg.ApplyEnv()
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".planner-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
