// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package curation

import (
	"strings"
	"time"
)

// season is one entry in the fixed seasonal curation table: the months it
// is active in, its theme color, and the tag keywords that qualify a
// template for it.
type season struct {
	Name       string
	Months     []time.Month // in window order; a wrap (12→2) crosses a year boundary
	ThemeColor string
	Keywords   []string
}

// seasonTable drives GenerateSeasonal. A month may activate several seasons
// at once (November activates autumn, holiday and black-friday).
var seasonTable = []season{
	{
		Name:       "spring",
		Months:     []time.Month{time.March, time.April, time.May},
		ThemeColor: "#A8E6CF",
		Keywords:   []string{"spring", "bloom", "floral", "fresh", "garden", "easter"},
	},
	{
		Name:       "summer",
		Months:     []time.Month{time.June, time.July, time.August},
		ThemeColor: "#FFD93D",
		Keywords:   []string{"summer", "beach", "sun", "travel", "vacation", "tropical"},
	},
	{
		Name:       "autumn",
		Months:     []time.Month{time.September, time.October, time.November},
		ThemeColor: "#D2691E",
		Keywords:   []string{"autumn", "fall", "harvest", "halloween", "cozy", "pumpkin"},
	},
	{
		Name:       "winter",
		Months:     []time.Month{time.December, time.January, time.February},
		ThemeColor: "#A5D8FF",
		Keywords:   []string{"winter", "snow", "holiday", "christmas", "cold", "festive"},
	},
	{
		Name:       "holiday",
		Months:     []time.Month{time.November, time.December},
		ThemeColor: "#C9184A",
		Keywords:   []string{"holiday", "christmas", "gift", "celebration", "new-year", "festive"},
	},
	{
		Name:       "valentine",
		Months:     []time.Month{time.February},
		ThemeColor: "#FF8FAB",
		Keywords:   []string{"valentine", "love", "romance", "heart", "couple"},
	},
	{
		Name:       "summer-sale",
		Months:     []time.Month{time.June, time.July},
		ThemeColor: "#FF6B35",
		Keywords:   []string{"sale", "discount", "promo", "deal", "summer"},
	},
	{
		Name:       "black-friday",
		Months:     []time.Month{time.November},
		ThemeColor: "#1B1B1E",
		Keywords:   []string{"black-friday", "sale", "deal", "discount", "shopping"},
	},
}

// activeSeasons returns the seasons whose month set contains the given month.
func activeSeasons(month time.Month) []season {
	var active []season
	for _, s := range seasonTable {
		for _, m := range s.Months {
			if m == month {
				active = append(active, s)
				break
			}
		}
	}
	return active
}

// window computes the season's date range for a generation year: the first
// day of its first month through the last day of its last month. A season
// whose months wrap past December (winter) ends in the following year.
func (s season) window(year int) (start, end time.Time) {
	first := s.Months[0]
	last := s.Months[len(s.Months)-1]

	endYear := year
	if last < first {
		endYear = year + 1
	}

	start = time.Date(year, first, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	end = time.Date(endYear, last+1, 0, 23, 59, 59, 0, time.UTC)
	return start, end
}

// matchesKeywords reports whether any template tag intersects the season's
// keyword set. Tags are matched case-insensitively.
func (s season) matchesKeywords(tags []string) bool {
	for _, tag := range tags {
		for _, kw := range s.Keywords {
			if strings.EqualFold(tag, kw) {
				return true
			}
		}
	}
	return false
}
