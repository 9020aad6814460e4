// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// templateColumns lists all columns for templates SELECTs.
const templateColumns = `id, slug, name, description, category, tags, status,
	visibility, commercial, price, creator_id, preview_url, current_version,
	average_rating, total_ratings, wilson_score, is_quality_for_ai, is_featured,
	view_count, download_count, usage_count, growth_rate, moderation_note,
	created_at, updated_at`

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// scanTemplate scans a single templates row into a Template.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	var t models.Template
	var tags []byte
	err := scanner.Scan(
		&t.ID, &t.Slug, &t.Name, &t.Description, &t.Category, &tags, &t.Status,
		&t.Visibility, &t.Commercial, &t.Price, &t.CreatorID, &t.PreviewURL,
		&t.CurrentVersion, &t.AverageRating, &t.TotalRatings, &t.WilsonScore,
		&t.IsQualityForAI, &t.IsFeatured, &t.ViewCount, &t.DownloadCount,
		&t.UsageCount, &t.GrowthRate, &t.ModerationNote, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Tags, err = stringsFromJSON(tags)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new template. New templates start pending, unlisted, at
// version 1.0.0; moderation and versioning move them forward from there.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	tags, err := jsonColumn(t.Tags)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO templates (slug, name, description, category, tags,
			status, visibility, commercial, price, creator_id, preview_url, current_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+templateColumns,
		t.Slug, t.Name, t.Description, t.Category, tags,
		t.Status, t.Visibility, t.Commercial, t.Price, t.CreatorID, t.PreviewURL,
		t.CurrentVersion,
	)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, classify("create template", err)
	}
	return created, nil
}

// CreateWithInitialVersion inserts a template together with its first
// version record in a single transaction, so a submission never exists
// without history. The version is stored at t.CurrentVersion.
func (s *TemplateStore) CreateWithInitialVersion(ctx context.Context, t *models.Template, v *models.Version) (*models.Template, *models.Version, error) {
	tags, err := jsonColumn(t.Tags)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, classify("begin create template", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO templates (slug, name, description, category, tags,
			status, visibility, commercial, price, creator_id, preview_url, current_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+templateColumns,
		t.Slug, t.Name, t.Description, t.Category, tags,
		t.Status, t.Visibility, t.Commercial, t.Price, t.CreatorID, t.PreviewURL,
		t.CurrentVersion,
	)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, nil, classify("create template", err)
	}

	row = tx.QueryRowContext(ctx, `
		INSERT INTO template_versions (template_id, version, version_type,
			content, content_digest, changelog, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+versionColumns,
		created.ID, created.CurrentVersion, v.VersionType, v.Content,
		v.ContentDigest, v.Changelog, v.CreatedBy,
	)
	initial, err := scanVersion(row)
	if err != nil {
		return nil, nil, classify("create initial version", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, classify("commit create template", err)
	}
	return created, initial, nil
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+` FROM templates WHERE id = $1
	`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find template by id", err)
	}
	return t, nil
}

// FindBySlug retrieves a template by its share slug. Returns nil if not found.
func (s *TemplateStore) FindBySlug(ctx context.Context, slug string) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+` FROM templates WHERE slug = $1
	`, slug)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find template by slug", err)
	}
	return t, nil
}

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	Status     models.TemplateStatus
	Category   string
	Visibility models.TemplateVisibility
	Limit      int
	// Cursor pages by creation time: only templates created strictly
	// before it are returned. Zero means "from the newest".
	Cursor time.Time
}

// List returns templates matching the filter, newest first.
func (s *TemplateStore) List(ctx context.Context, f ListFilter) ([]*models.Template, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	query := `SELECT ` + templateColumns + ` FROM templates WHERE 1=1`
	args := []any{}
	n := 0
	if f.Status != "" {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, f.Status)
	}
	if f.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, f.Category)
	}
	if f.Visibility != "" {
		n++
		query += fmt.Sprintf(" AND visibility = $%d", n)
		args = append(args, f.Visibility)
	}
	if !f.Cursor.IsZero() {
		n++
		query += fmt.Sprintf(" AND created_at < $%d", n)
		args = append(args, f.Cursor)
	}
	n++
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d", n)
	args = append(args, f.Limit)

	return s.queryTemplates(ctx, "list templates", query, args...)
}

// ListPublicByDownloads returns approved, listed templates ordered by
// download count descending.
func (s *TemplateStore) ListPublicByDownloads(ctx context.Context, limit int) ([]*models.Template, error) {
	return s.queryTemplates(ctx, "list public by downloads", `
		SELECT `+templateColumns+` FROM templates
		WHERE status = 'approved' AND visibility = 'listed'
		ORDER BY download_count DESC, id
		LIMIT $1
	`, limit)
}

// ListPublicByRating returns approved, listed templates with at least
// minRatings ratings, ordered by average rating descending.
func (s *TemplateStore) ListPublicByRating(ctx context.Context, minRatings, limit int) ([]*models.Template, error) {
	return s.queryTemplates(ctx, "list public by rating", `
		SELECT `+templateColumns+` FROM templates
		WHERE status = 'approved' AND visibility = 'listed' AND total_ratings >= $1
		ORDER BY average_rating DESC, id
		LIMIT $2
	`, minRatings, limit)
}

// ListPublicByGrowth returns approved, listed templates ordered by the
// externally supplied growth rate descending.
func (s *TemplateStore) ListPublicByGrowth(ctx context.Context, limit int) ([]*models.Template, error) {
	return s.queryTemplates(ctx, "list public by growth", `
		SELECT `+templateColumns+` FROM templates
		WHERE status = 'approved' AND visibility = 'listed'
		ORDER BY growth_rate DESC, id
		LIMIT $1
	`, limit)
}

// ListPublicCreatedSince returns approved, listed templates created at or
// after the given time, ordered by download count descending.
func (s *TemplateStore) ListPublicCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.Template, error) {
	return s.queryTemplates(ctx, "list public created since", `
		SELECT `+templateColumns+` FROM templates
		WHERE status = 'approved' AND visibility = 'listed' AND created_at >= $1
		ORDER BY download_count DESC, id
		LIMIT $2
	`, since, limit)
}

// ListPublicTagged returns approved, listed templates carrying at least one
// of the given tags, best Wilson score first. Tag comparison is
// case-insensitive; the whole public population is considered, not a
// bounded pool.
func (s *TemplateStore) ListPublicTagged(ctx context.Context, tags []string, limit int) ([]*models.Template, error) {
	lowered := make([]string, len(tags))
	for i, tag := range tags {
		lowered[i] = strings.ToLower(tag)
	}
	return s.queryTemplates(ctx, "list public tagged", `
		SELECT `+templateColumns+` FROM templates
		WHERE status = 'approved' AND visibility = 'listed'
		AND EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
			WHERE lower(tag) = ANY($1)
		)
		ORDER BY wilson_score DESC, id
		LIMIT $2
	`, lowered, limit)
}

func (s *TemplateStore) queryTemplates(ctx context.Context, op, query string, args ...any) ([]*models.Template, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	var templates []*models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		templates = append(templates, t)
	}
	return templates, classify(op, rows.Err())
}

// UpdateStatus moves a template through its moderation lifecycle.
func (s *TemplateStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TemplateStatus, visibility models.TemplateVisibility, note *string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE templates
		SET status = $1, visibility = $2, moderation_note = $3, updated_at = NOW()
		WHERE id = $4
	`, status, visibility, note, id)
	if err != nil {
		return classify("update template status", err)
	}
	return requireRow(result, "template", id)
}

// SetGrowthRate records the externally computed growth rate for a template.
func (s *TemplateStore) SetGrowthRate(ctx context.Context, id uuid.UUID, rate float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE templates SET growth_rate = $1, updated_at = NOW() WHERE id = $2
	`, rate, id)
	if err != nil {
		return classify("set growth rate", err)
	}
	return requireRow(result, "template", id)
}

// IncrementCounter atomically bumps one of the template activity counters.
// Column names are restricted to the known counter set.
func (s *TemplateStore) IncrementCounter(ctx context.Context, id uuid.UUID, counter string) error {
	switch counter {
	case "view_count", "download_count", "usage_count":
	default:
		return fmt.Errorf("unknown template counter %q", counter)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE templates SET `+counter+` = `+counter+` + 1 WHERE id = $1
	`, id)
	if err != nil {
		return classify("increment "+counter, err)
	}
	return requireRow(result, "template", id)
}

// Delete removes a template. Ratings and versions cascade at the schema
// level; collection references are reconciled by the caller through
// CollectionStore.RemoveTemplateRef.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return classify("delete template", err)
	}
	return requireRow(result, "template", id)
}

// Count returns the total number of templates.
func (s *TemplateStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count)
	if err != nil {
		return 0, classify("count templates", err)
	}
	return count, nil
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(result sql.Result, kind string, id uuid.UUID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return classify("rows affected", err)
	}
	if rows == 0 {
		return errs.NotFound(kind, id)
	}
	return nil
}
