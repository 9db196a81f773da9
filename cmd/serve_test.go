package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hveem/calwatch/config"
)

func TestBuildCalendarID(t *testing.T) {
	assert.Equal(t, "john@example.com", buildCalendarID("john", "example.com"))
	assert.Equal(t, "jane@other.org", buildCalendarID("jane@other.org", "example.com"))
	assert.Equal(t, "bare", buildCalendarID("bare", ""))
}

func TestBuildEntitiesSkipsUntracked(t *testing.T) {
	cfg := &config.Config{
		MinPollInterval: config.Duration{Duration: 15 * time.Minute},
		Calendars: []config.CalendarConfig{
			{
				CalID: "team@example.com",
				Entities: []config.EntityConfig{
					{DeviceID: "team_standup", Track: true},
					{DeviceID: "private", Track: false},
				},
			},
			{
				CalID: "other@example.com",
				Entities: []config.EntityConfig{
					{DeviceID: "other_cal", Name: "Other", Track: true},
				},
			},
		},
	}

	entities := buildEntities(nil, cfg, nil)
	require.Len(t, entities, 2)
	assert.Equal(t, "calendar.team_standup", entities[0].ID())
	assert.Equal(t, "calendar.other_cal", entities[1].ID())
	assert.Equal(t, "Other", entities[1].Name())
	assert.Equal(t, "team@example.com", entities[0].Watcher().CalendarID())
}
