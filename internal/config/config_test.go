package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/model"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("seed-%d", n)
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "planner.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Listen, again.Listen)
	assert.Len(t, again.SeedEvents, 3)
}

func TestLoadNormalizesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \"0.0.0.0:9000\"\nupcoming_limit: 0\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, defaultUpcomingLimit, cfg.UpcomingLimit)
	assert.Equal(t, defaultCellEventLimit, cfg.CellEventLimit)
	assert.Equal(t, defaultTitle, cfg.Title)
	assert.Empty(t, cfg.SeedEvents)
	assert.Nil(t, cfg.BasicAuth)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLANNER_LISTEN", "127.0.0.1:9999")
	t.Setenv("PLANNER_DIGEST_CRON", "*/5 * * * *")
	path := filepath.Join(t.TempDir(), "planner.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Listen)
	assert.Equal(t, "*/5 * * * *", cfg.DigestCron)

	// The file keeps the defaults.
	onDisk := DefaultConfig()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), onDisk.Listen)
}

func TestSeedEvents(t *testing.T) {
	cfg := DefaultConfig()
	evs, err := cfg.Events(counterIDs())
	require.NoError(t, err)
	require.Len(t, evs, 3)

	assert.Equal(t, "seed-1", evs[0].ID)
	assert.Equal(t, model.NewDate(2025, time.January, 15), evs[0].Date)
	assert.Equal(t, model.TypeWork, evs[0].Type)
	assert.Equal(t, model.TypeExercise, evs[1].Type)
	assert.Equal(t, model.TypeStudy, evs[2].Type)
}

func TestSeedEventsValidation(t *testing.T) {
	tests := []SeedEvent{
		{Title: "", Date: "2025-01-01", StartTime: "09:00", EndTime: "10:00"},
		{Title: "x", Date: "Jan 1", StartTime: "09:00", EndTime: "10:00"},
		{Title: "x", Date: "2025-01-01", StartTime: "9", EndTime: "10:00"},
		{Title: "x", Date: "2025-01-01", StartTime: "09:00", EndTime: "10:00", Type: "party"},
	}
	for i, s := range tests {
		cfg := &Config{SeedEvents: []SeedEvent{s}}
		_, err := cfg.Events(counterIDs())
		assert.Error(t, err, "case %d", i)
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "Not/AZone"
	loc, err = cfg.Location()
	assert.Error(t, err)
	assert.Equal(t, time.Local, loc)
}
