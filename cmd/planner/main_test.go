package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/calendar"
	"planner/internal/config"
	"planner/internal/model"
)

func TestPrintGrid(t *testing.T) {
	var buf bytes.Buffer
	printGrid(&buf, calendar.Month{Year: 2025, Month: time.February})

	want := "February 2025\n" +
		"Su Mo Tu We Th Fr Sa\n" +
		"                   1\n" +
		" 2  3  4  5  6  7  8\n" +
		" 9 10 11 12 13 14 15\n" +
		"16 17 18 19 20 21 22\n" +
		"23 24 25 26 27 28\n"
	assert.Equal(t, want, buf.String())
}

func TestBootstrapLoadsSeeds(t *testing.T) {
	dir := t.TempDir()
	icsPath := filepath.Join(dir, "seed.ics")
	require.NoError(t, os.WriteFile(icsPath, []byte("BEGIN:VCALENDAR\r\n"+
		"VERSION:2.0\r\n"+
		"PRODID:-//test//test//EN\r\n"+
		"BEGIN:VEVENT\r\n"+
		"UID:x@example.com\r\n"+
		"DTSTAMP:20250101T000000Z\r\n"+
		"DTSTART;VALUE=DATE:20250118\r\n"+
		"SUMMARY:Concert\r\n"+
		"CATEGORIES:entertainment\r\n"+
		"END:VEVENT\r\n"+
		"END:VCALENDAR\r\n"), 0o600))

	conf := config.DefaultConfig()
	conf.SeedICS = icsPath

	st, loc, err := bootstrap(conf)
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	all := st.All()
	require.Len(t, all, 4)
	assert.Equal(t, "Client meeting", all[0].Title)
	assert.Equal(t, "Concert", all[3].Title)
	assert.Equal(t, model.TypeEntertainment, all[3].Type)
	assert.Equal(t, model.NewDate(2025, time.January, 18), all[3].Date)

	ids := map[string]bool{}
	for _, ev := range all {
		assert.False(t, ids[ev.ID])
		ids[ev.ID] = true
	}
}

func TestBootstrapRejectsMissingSeedFile(t *testing.T) {
	conf := config.DefaultConfig()
	conf.SeedICS = filepath.Join(t.TempDir(), "missing.ics")
	_, _, err := bootstrap(conf)
	assert.Error(t, err)
}

func TestBootstrapRejectsInvalidSeedEvent(t *testing.T) {
	conf := config.DefaultConfig()
	conf.SeedEvents = []config.SeedEvent{{Title: "x", Date: "2025-01-01", StartTime: "09:00", EndTime: "10:00", Type: "party"}}
	_, _, err := bootstrap(conf)
	assert.Error(t, err)
}
