// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package curation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// MinSeasonalTemplates is the materialization threshold for seasonal
// collections.
const MinSeasonalTemplates = 3

// seasonalLimit caps how many templates a seasonal collection carries.
const seasonalLimit = 15

// GenerateSeasonal republishes the seasonal collections active for the
// given month. Each season's candidates are selected by tag intersection
// against its keyword set, filtered in the store over the whole public
// population and ranked by quality score. Seasons below threshold are
// skipped.
func (c *Curator) GenerateSeasonal(ctx context.Context, month time.Month, year int) ([]*models.Collection, error) {
	if month < time.January || month > time.December {
		return nil, errs.Validation("month", "must be 1-12")
	}
	if year < 2000 || year > 2200 {
		return nil, errs.Validation("year", "out of range")
	}

	active := activeSeasons(month)
	if len(active) == 0 {
		return nil, nil
	}

	var generated []*models.Collection
	for _, s := range active {
		candidates, err := c.templates.ListPublicTagged(ctx, s.Keywords, seasonalLimit)
		if err != nil {
			return generated, fmt.Errorf("seasonal %s candidates: %w", s.Name, err)
		}
		// The store query narrows by tag; matchesKeywords remains the
		// authoritative intersection test.
		var picked []*models.Template
		for _, t := range candidates {
			if s.matchesKeywords(t.Tags) {
				picked = append(picked, t)
			}
		}
		if len(picked) < MinSeasonalTemplates {
			slog.Info("season below threshold, skipped",
				"season", s.Name,
				"candidates", len(picked),
			)
			continue
		}

		start, end := s.window(year)
		coll := &models.Collection{
			Type:        models.CollectionTypeSeasonal,
			Name:        seasonTitle(s.Name),
			Description: fmt.Sprintf("Hand-picked templates for the %s season", s.Name),
			TemplateIDs: templateIDs(picked),
			IsVisible:   true,
			IsFeatured:  true,
			Seasonal: &models.SeasonalMeta{
				Season:     s.Name,
				ThemeColor: s.ThemeColor,
				StartDate:  start,
				EndDate:    end,
			},
		}

		replaced, err := c.collections.Replace(ctx, coll, "season", s.Name)
		if err != nil {
			return generated, fmt.Errorf("seasonal %s: %w", s.Name, err)
		}
		generated = append(generated, replaced)

		slog.Info("seasonal collection generated",
			"season", s.Name,
			"templates", len(replaced.TemplateIDs),
		)
	}

	c.invalidateDiscovery(ctx)
	return generated, nil
}

// seasonTitle renders a season name for display ("black-friday" →
// "Black Friday Picks").
func seasonTitle(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ") + " Picks"
}
