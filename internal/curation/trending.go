// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package curation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"glowwwmarket/internal/models"
)

// MinTrendingTemplates is the materialization threshold: an algorithm that
// yields fewer qualifying templates produces no collection for that run.
const MinTrendingTemplates = 5

// trendingCadence is recorded as refresh-cadence metadata on generated
// trending collections.
const trendingCadence = "daily"

// Trending algorithm names. Each keeps exactly one live collection,
// replaced on every run.
const (
	AlgoDownloads7d = "downloads_7d"
	AlgoRated30d    = "rated_30d"
	AlgoRisingStars = "rising_stars"
	AlgoNewNotable  = "new_notable"
)

// minRatingsForRated is the rating-count floor for the rated_30d algorithm.
const minRatingsForRated = 5

// trendingAlgorithm produces a ranked candidate list for one named algorithm.
type trendingAlgorithm struct {
	Name        string
	Title       string
	Description string
	Featured    bool
	Rank        func(ctx context.Context, c *Curator) ([]*models.Template, error)
}

// trendingAlgorithms is the fixed set run by GenerateTrending, in order.
var trendingAlgorithms = []trendingAlgorithm{
	{
		Name:        AlgoDownloads7d,
		Title:       "Trending This Week",
		Description: "Most downloaded templates right now",
		Featured:    true,
		Rank: func(ctx context.Context, c *Curator) ([]*models.Template, error) {
			return c.templates.ListPublicByDownloads(ctx, 20)
		},
	},
	{
		Name:        AlgoRated30d,
		Title:       "Top Rated",
		Description: "Highest rated templates this month",
		Rank: func(ctx context.Context, c *Curator) ([]*models.Template, error) {
			return c.templates.ListPublicByRating(ctx, minRatingsForRated, 15)
		},
	},
	{
		Name:        AlgoRisingStars,
		Title:       "Rising Stars",
		Description: "Templates gaining traction fastest",
		Rank: func(ctx context.Context, c *Curator) ([]*models.Template, error) {
			return c.templates.ListPublicByGrowth(ctx, 12)
		},
	},
	{
		Name:        AlgoNewNotable,
		Title:       "New & Notable",
		Description: "Fresh templates making an entrance",
		Rank: func(ctx context.Context, c *Curator) ([]*models.Template, error) {
			return c.templates.ListPublicCreatedSince(ctx, time.Now().AddDate(0, 0, -7), 10)
		},
	},
}

// GenerateTrending runs every trending algorithm against the current
// template population and republishes one collection per algorithm that
// clears the materialization threshold. Each run fully supersedes the
// algorithm's previous collection; algorithms below threshold are skipped
// (their stale collection, if any, is left for the next qualifying run).
func (c *Curator) GenerateTrending(ctx context.Context) ([]*models.Collection, error) {
	now := time.Now().UTC()
	var generated []*models.Collection

	for _, algo := range trendingAlgorithms {
		candidates, err := algo.Rank(ctx, c)
		if err != nil {
			return generated, fmt.Errorf("trending %s: %w", algo.Name, err)
		}
		if len(candidates) < MinTrendingTemplates {
			slog.Info("trending algorithm below threshold, skipped",
				"algorithm", algo.Name,
				"candidates", len(candidates),
			)
			continue
		}

		coll := &models.Collection{
			Type:        models.CollectionTypeTrending,
			Name:        algo.Title,
			Description: algo.Description,
			TemplateIDs: templateIDs(candidates),
			IsVisible:   true,
			IsFeatured:  algo.Featured,
			Trending: &models.TrendingMeta{
				Algorithm:   algo.Name,
				RefreshedAt: now,
				Cadence:     trendingCadence,
			},
		}

		replaced, err := c.collections.Replace(ctx, coll, "algorithm", algo.Name)
		if err != nil {
			return generated, fmt.Errorf("trending %s: %w", algo.Name, err)
		}
		generated = append(generated, replaced)

		slog.Info("trending collection generated",
			"algorithm", algo.Name,
			"templates", len(replaced.TemplateIDs),
		)
	}

	c.invalidateDiscovery(ctx)
	return generated, nil
}
