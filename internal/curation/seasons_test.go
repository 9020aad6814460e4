package curation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonNames(seasons []season) []string {
	names := make([]string, 0, len(seasons))
	for _, s := range seasons {
		names = append(names, s.Name)
	}
	return names
}

func TestActiveSeasons(t *testing.T) {
	tests := []struct {
		month time.Month
		want  []string
	}{
		{time.March, []string{"spring"}},
		{time.June, []string{"summer", "summer-sale"}},
		{time.November, []string{"autumn", "holiday", "black-friday"}},
		{time.December, []string{"winter", "holiday"}},
		{time.February, []string{"winter", "valentine"}},
		{time.September, []string{"autumn"}},
	}

	for _, tc := range tests {
		got := activeSeasons(tc.month)
		assert.ElementsMatch(t, tc.want, seasonNames(got), "month %s", tc.month)
	}
}

func TestSeasonWindow(t *testing.T) {
	byName := make(map[string]season)
	for _, s := range seasonTable {
		byName[s.Name] = s
	}

	spring := byName["spring"]
	start, end := spring.window(2026)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.May, 31, 23, 59, 59, 0, time.UTC), end)

	// Winter wraps past December into the following year.
	winter := byName["winter"]
	start, end = winter.window(2026)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, time.February, 28, 23, 59, 59, 0, time.UTC), end)

	// 2027 winter ends in leap-year February.
	start, end = winter.window(2027)
	require.Equal(t, time.Date(2027, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2028, time.February, 29, 23, 59, 59, 0, time.UTC), end)

	// Single-month season starts and ends in the same month.
	valentine := byName["valentine"]
	start, end = valentine.window(2026)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), end)
}

func TestSeasonMatchesKeywords(t *testing.T) {
	var winter season
	for _, s := range seasonTable {
		if s.Name == "winter" {
			winter = s
		}
	}
	require.NotEmpty(t, winter.Keywords)

	assert.True(t, winter.matchesKeywords([]string{"portfolio", "snow"}))
	assert.True(t, winter.matchesKeywords([]string{"CHRISTMAS"}), "matching is case-insensitive")
	assert.False(t, winter.matchesKeywords([]string{"beach", "travel"}))
	assert.False(t, winter.matchesKeywords(nil))
	assert.False(t, winter.matchesKeywords([]string{"snowman"}), "no substring matching")
}

func TestSeasonTitle(t *testing.T) {
	assert.Equal(t, "Spring Picks", seasonTitle("spring"))
	assert.Equal(t, "Black Friday Picks", seasonTitle("black-friday"))
	assert.Equal(t, "Summer Sale Picks", seasonTitle("summer-sale"))
}
