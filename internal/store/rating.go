// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// ratingColumns lists all columns for ratings SELECTs.
const ratingColumns = `template_id, user_id, score, comment, created_at, updated_at`

// RatingStore provides access to per-user template ratings. Ratings are
// keyed by (template_id, user_id): submissions upsert, they never append.
type RatingStore struct {
	db *sql.DB
}

// NewRatingStore creates a new RatingStore backed by the given database.
func NewRatingStore(db *sql.DB) *RatingStore {
	return &RatingStore{db: db}
}

// scanRating scans a single ratings row into a Rating.
func scanRating(scanner interface{ Scan(...any) error }) (*models.Rating, error) {
	var r models.Rating
	err := scanner.Scan(
		&r.TemplateID, &r.UserID, &r.Score, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Submit upserts a rating and rewrites the owning template's quality
// projection in one transaction. The template row is locked first, so
// concurrent submissions for the same template serialize and each derives
// its projection from the complete rating set it can see; no submission is
// lost and the cached score never drifts from the set.
//
// derive receives the post-upsert rating count and raw average and returns
// the projection to write back. The whole operation is idempotent: retrying
// the same rating converges on the same stored state.
func (s *RatingStore) Submit(ctx context.Context, rating *models.Rating, derive func(count int, average float64) models.QualityScore) (*models.QualityScore, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin rating tx", err)
	}
	defer tx.Rollback()

	// Lock the template row; also the existence check.
	var templateID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM templates WHERE id = $1 FOR UPDATE
	`, rating.TemplateID).Scan(&templateID)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("template", rating.TemplateID)
	}
	if err != nil {
		return nil, classify("lock template for rating", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (template_id, user_id, score, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (template_id, user_id)
		DO UPDATE SET score = EXCLUDED.score, comment = EXCLUDED.comment, updated_at = NOW()
	`, rating.TemplateID, rating.UserID, rating.Score, rating.Comment)
	if err != nil {
		return nil, classify("upsert rating", err)
	}

	// Fresh aggregate over the complete current set, inside the same tx.
	var count int
	var average float64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(score), 0) FROM ratings WHERE template_id = $1
	`, rating.TemplateID).Scan(&count, &average)
	if err != nil {
		return nil, classify("aggregate ratings", err)
	}

	score := derive(count, average)

	_, err = tx.ExecContext(ctx, `
		UPDATE templates
		SET average_rating = $1, total_ratings = $2, wilson_score = $3,
			is_quality_for_ai = $4, is_featured = $5, updated_at = NOW()
		WHERE id = $6
	`, score.Average, score.TotalRatings, score.WilsonLowerBound,
		score.IsQualityForAI, score.IsFeatured, rating.TemplateID)
	if err != nil {
		return nil, classify("write quality projection", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit rating tx", err)
	}
	return &score, nil
}

// Recompute rebuilds a template's quality projection from its rating set
// without touching any rating. Used for projection repair.
func (s *RatingStore) Recompute(ctx context.Context, templateID uuid.UUID, derive func(count int, average float64) models.QualityScore) (*models.QualityScore, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin recompute tx", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM templates WHERE id = $1 FOR UPDATE`, templateID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("template", templateID)
	}
	if err != nil {
		return nil, classify("lock template for recompute", err)
	}

	var count int
	var average float64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(AVG(score), 0) FROM ratings WHERE template_id = $1
	`, templateID).Scan(&count, &average)
	if err != nil {
		return nil, classify("aggregate ratings", err)
	}

	score := derive(count, average)

	_, err = tx.ExecContext(ctx, `
		UPDATE templates
		SET average_rating = $1, total_ratings = $2, wilson_score = $3,
			is_quality_for_ai = $4, is_featured = $5, updated_at = NOW()
		WHERE id = $6
	`, score.Average, score.TotalRatings, score.WilsonLowerBound,
		score.IsQualityForAI, score.IsFeatured, templateID)
	if err != nil {
		return nil, classify("write quality projection", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit recompute tx", err)
	}
	return &score, nil
}

// FindByTemplateAndUser returns a single user's rating for a template.
// Returns nil if the user has not rated it.
func (s *RatingStore) FindByTemplateAndUser(ctx context.Context, templateID, userID uuid.UUID) (*models.Rating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+ratingColumns+` FROM ratings
		WHERE template_id = $1 AND user_id = $2
	`, templateID, userID)
	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find rating", err)
	}
	return r, nil
}

// ListByTemplate returns ratings for a template, newest first. Cursor pages
// by creation time; zero means "from the newest".
func (s *RatingStore) ListByTemplate(ctx context.Context, templateID uuid.UUID, limit int, cursor time.Time) ([]*models.Rating, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query := `
		SELECT ` + ratingColumns + ` FROM ratings
		WHERE template_id = $1`
	args := []any{templateID}
	if !cursor.IsZero() {
		query += ` AND created_at < $2`
		args = append(args, cursor)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list ratings", err)
	}
	defer rows.Close()

	var ratings []*models.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, classify("scan rating", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, classify("list ratings", rows.Err())
}

// Count returns the number of ratings for a template.
func (s *RatingStore) Count(ctx context.Context, templateID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ratings WHERE template_id = $1
	`, templateID).Scan(&count)
	if err != nil {
		return 0, classify("count ratings", err)
	}
	return count, nil
}
