// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package quality

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
	"glowwwmarket/internal/store"
)

// MaxCommentLen bounds rating comment length in runes.
const MaxCommentLen = 500

// Aggregator accepts rating submissions and keeps each template's quality
// projection in sync with its rating set.
type Aggregator struct {
	ratings *store.RatingStore
}

// NewAggregator creates an Aggregator over the given rating store.
func NewAggregator(ratings *store.RatingStore) *Aggregator {
	return &Aggregator{ratings: ratings}
}

// SubmitRating upserts one user's rating for a template and returns the
// freshly derived quality score. Re-rating replaces the user's previous
// score; it never adds a second entry. Validation happens before any write.
func (a *Aggregator) SubmitRating(ctx context.Context, templateID, userID uuid.UUID, score int, comment string) (*models.QualityScore, error) {
	if score < 1 || score > MaxScore {
		return nil, errs.Validation("score", "must be between 1 and 5")
	}
	if utf8.RuneCountInString(comment) > MaxCommentLen {
		return nil, errs.Validation("comment", "exceeds 500 characters")
	}
	if templateID == uuid.Nil {
		return nil, errs.Validation("template_id", "required")
	}
	if userID == uuid.Nil {
		return nil, errs.Validation("user_id", "required")
	}

	rating := &models.Rating{
		TemplateID: templateID,
		UserID:     userID,
		Score:      score,
		Comment:    comment,
	}

	var result *models.QualityScore
	err := errs.Retry(ctx, func(ctx context.Context) error {
		qs, err := a.ratings.Submit(ctx, rating, Compute)
		if err != nil {
			return err
		}
		result = qs
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("rating submitted",
		"template", templateID,
		"score", score,
		"total_ratings", result.TotalRatings,
		"wilson", result.WilsonLowerBound,
	)
	return result, nil
}

// Recompute rebuilds a template's quality projection from its rating set.
// Projection repair: the stored score must always be re-derivable, so this
// is safe to run at any time.
func (a *Aggregator) Recompute(ctx context.Context, templateID uuid.UUID) (*models.QualityScore, error) {
	var result *models.QualityScore
	err := errs.Retry(ctx, func(ctx context.Context) error {
		qs, err := a.ratings.Recompute(ctx, templateID, Compute)
		if err != nil {
			return err
		}
		result = qs
		return nil
	})
	return result, err
}

// ListRatings returns a page of a template's ratings, newest first.
func (a *Aggregator) ListRatings(ctx context.Context, templateID uuid.UUID, limit int, cursor time.Time) ([]*models.Rating, error) {
	return a.ratings.ListByTemplate(ctx, templateID, limit, cursor)
}
