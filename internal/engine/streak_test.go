package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNextStreak(t *testing.T) {
	last := day("2025-03-10T22:00:00Z")
	cases := []struct {
		name    string
		current int
		last    *time.Time
		now     time.Time
		want    int
	}{
		{"first check-in", 0, nil, day("2025-03-10T08:00:00Z"), 1},
		{"same day", 4, &last, day("2025-03-10T23:59:00Z"), 4},
		{"next day", 4, &last, day("2025-03-11T00:01:00Z"), 5},
		{"gap", 4, &last, day("2025-03-13T09:00:00Z"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextStreak(tc.current, tc.last, tc.now))
		})
	}
}

func TestCheckInGold(t *testing.T) {
	assert.Equal(t, 5, CheckInGold(1))
	assert.Equal(t, 35, CheckInGold(7))
	assert.Equal(t, 35, CheckInGold(30))
}

func TestStreakExpired(t *testing.T) {
	now := day("2025-03-12T10:00:00Z")
	yesterday := day("2025-03-11T01:00:00Z")
	older := day("2025-03-10T23:59:59Z")

	assert.False(t, StreakExpired(nil, now))
	assert.False(t, StreakExpired(&yesterday, now))
	assert.True(t, StreakExpired(&older, now))
}

func TestDayKey_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	assert.Equal(t, "2025-03-10", DayKey(time.Date(2025, 3, 11, 2, 0, 0, 0, loc)))
}
