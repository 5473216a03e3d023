package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateCompare(t *testing.T) {
	a := NewDate(2025, time.January, 15)
	b := NewDate(2025, time.January, 16)
	c := NewDate(2024, time.December, 31)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, c.Before(a))
	assert.Equal(t, 0, a.Compare(NewDate(2025, time.January, 15)))
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2025, time.March, 10, 0, 5, 0, 0, time.Local)
	evening := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, DateOf(morning), DateOf(evening))
}

func TestNewDateNormalizes(t *testing.T) {
	assert.Equal(t, Date{2025, time.March, 2}, NewDate(2025, time.February, 30))
	assert.Equal(t, Date{2024, time.February, 29}, NewDate(2024, time.March, 0))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, Date{2025, time.March, 10}, d)
	assert.Equal(t, "2025-03-10", d.String())

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{NewDate(2025, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-01-05"}`, string(b))

	var out struct {
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, NewDate(2025, time.January, 5), out.D)
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:00", "23:59"} {
		assert.True(t, ValidClock(ok), ok)
	}
	for _, bad := range []string{"", "9:00", "24:00", "12:60", "noon", "09:00:00"} {
		assert.False(t, ValidClock(bad), bad)
	}
}

func TestEventTypes(t *testing.T) {
	require.Len(t, EventTypes, 4)
	for _, et := range EventTypes {
		assert.True(t, et.Valid())
		assert.NotEmpty(t, et.Label())
		assert.NotEmpty(t, et.Color())
	}
	_, err := ParseEventType("meeting")
	assert.Error(t, err)
	et, err := ParseEventType("study")
	require.NoError(t, err)
	assert.Equal(t, TypeStudy, et)
}

func TestDraftComplete(t *testing.T) {
	d := EmptyDraft(NewDate(2025, time.March, 10))
	assert.Equal(t, TypeWork, d.Type)
	assert.False(t, d.Complete())

	d.Title = "Team sync"
	d.StartTime = "09:00"
	assert.False(t, d.Complete())
	d.EndTime = "10:00"
	assert.True(t, d.Complete())

	ev := d.Event("id-1", NewDate(2025, time.March, 11))
	assert.Equal(t, "id-1", ev.ID)
	assert.Equal(t, NewDate(2025, time.March, 11), ev.Date)
	assert.Equal(t, "Team sync", ev.Title)
}
