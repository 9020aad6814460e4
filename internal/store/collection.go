// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// collectionColumns lists all columns for collections SELECTs.
const collectionColumns = `id, type, name, description, template_ids,
	is_visible, is_featured, created_by, metadata,
	views, downloads, saves, clicks, impressions, conversions, revenue,
	created_at, updated_at`

// CollectionStore provides access to discovery collections. The metadata
// JSONB column holds the type-specific variant (trending, seasonal or
// bundle); template_ids holds weak references only.
type CollectionStore struct {
	db *sql.DB
}

// NewCollectionStore creates a new CollectionStore backed by the given database.
func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

// metadataColumn marshals the collection's tagged metadata variant.
func metadataColumn(c *models.Collection) ([]byte, error) {
	switch {
	case c.Trending != nil:
		return jsonColumn(c.Trending)
	case c.Seasonal != nil:
		return jsonColumn(c.Seasonal)
	case c.Bundle != nil:
		return jsonColumn(c.Bundle)
	default:
		return []byte("{}"), nil
	}
}

// scanCollection scans a single collections row into a Collection, decoding
// the metadata variant indicated by the type column.
func scanCollection(scanner interface{ Scan(...any) error }) (*models.Collection, error) {
	var c models.Collection
	var templateIDs, metadata []byte
	err := scanner.Scan(
		&c.ID, &c.Type, &c.Name, &c.Description, &templateIDs,
		&c.IsVisible, &c.IsFeatured, &c.CreatedBy, &metadata,
		&c.Analytics.Views, &c.Analytics.Downloads, &c.Analytics.Saves,
		&c.Analytics.Clicks, &c.Analytics.Impressions, &c.Analytics.Conversions,
		&c.Analytics.Revenue, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.TemplateIDs, err = uuidsFromJSON(templateIDs)
	if err != nil {
		return nil, err
	}

	switch c.Type {
	case models.CollectionTypeTrending:
		c.Trending = &models.TrendingMeta{}
		err = json.Unmarshal(metadata, c.Trending)
	case models.CollectionTypeSeasonal:
		c.Seasonal = &models.SeasonalMeta{}
		err = json.Unmarshal(metadata, c.Seasonal)
	case models.CollectionTypeBundle:
		c.Bundle = &models.BundleMeta{}
		err = json.Unmarshal(metadata, c.Bundle)
	}
	if err != nil {
		return nil, fmt.Errorf("decode collection metadata: %w", err)
	}
	return &c, nil
}

// Create inserts a new collection.
func (s *CollectionStore) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	templateIDs, err := jsonColumn(uuidStrings(c.TemplateIDs))
	if err != nil {
		return nil, err
	}
	metadata, err := metadataColumn(c)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO collections (type, name, description, template_ids,
			is_visible, is_featured, created_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+collectionColumns,
		c.Type, c.Name, c.Description, templateIDs,
		c.IsVisible, c.IsFeatured, c.CreatedBy, metadata,
	)
	created, err := scanCollection(row)
	if err != nil {
		return nil, classify("create collection", err)
	}
	return created, nil
}

// Replace supersedes the previous generated collection for the same type
// and metadata key ("algorithm" for trending, "season" for seasonal) with a
// fresh record, in one transaction. Each generation run fully replaces its
// own prior output; authored collections never go through here.
func (s *CollectionStore) Replace(ctx context.Context, c *models.Collection, metaKey, metaValue string) (*models.Collection, error) {
	templateIDs, err := jsonColumn(uuidStrings(c.TemplateIDs))
	if err != nil {
		return nil, err
	}
	metadata, err := metadataColumn(c)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin replace tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM collections WHERE type = $1 AND metadata->>$2 = $3
	`, c.Type, metaKey, metaValue)
	if err != nil {
		return nil, classify("supersede collection", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO collections (type, name, description, template_ids,
			is_visible, is_featured, created_by, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+collectionColumns,
		c.Type, c.Name, c.Description, templateIDs,
		c.IsVisible, c.IsFeatured, c.CreatedBy, metadata,
	)
	created, err := scanCollection(row)
	if err != nil {
		return nil, classify("insert replacement collection", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit replace tx", err)
	}
	return created, nil
}

// FindByID returns a single collection by its ID. Returns nil if not found.
func (s *CollectionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+collectionColumns+` FROM collections WHERE id = $1
	`, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find collection by id", err)
	}
	return c, nil
}

// ListVisible returns visible collections, optionally restricted to one
// type, featured first, newest first within a group.
func (s *CollectionStore) ListVisible(ctx context.Context, ctype models.CollectionType) ([]*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE is_visible = TRUE`
	args := []any{}
	if ctype != "" {
		query += ` AND type = $1`
		args = append(args, ctype)
	}
	query += ` ORDER BY is_featured DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify("list collections", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, classify("scan collection", err)
		}
		collections = append(collections, c)
	}
	return collections, classify("list collections", rows.Err())
}

// IncrementAnalytics atomically applies one engagement event to a
// collection's counters. A view counts as an impression as well; a download
// counts as a conversion.
func (s *CollectionStore) IncrementAnalytics(ctx context.Context, id uuid.UUID, event models.AnalyticsEvent, amount float64) error {
	var set string
	args := []any{id}
	switch event {
	case models.AnalyticsEventView:
		set = `views = views + 1, impressions = impressions + 1`
	case models.AnalyticsEventDownload:
		set = `downloads = downloads + 1, conversions = conversions + 1`
	case models.AnalyticsEventSave:
		set = `saves = saves + 1`
	case models.AnalyticsEventClick:
		set = `clicks = clicks + 1`
	case models.AnalyticsEventRevenue:
		set = `revenue = revenue + $2`
		args = append(args, amount)
	default:
		return errs.Validation("event", fmt.Sprintf("unknown analytics event %q", event))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE collections SET `+set+`, updated_at = NOW() WHERE id = $1
	`, args...)
	if err != nil {
		return classify("record analytics", err)
	}
	return requireRow(result, "collection", id)
}

// IDsReferencing returns the IDs of every collection whose list contains
// the given template (the template's weak back-references).
func (s *CollectionStore) IDsReferencing(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM collections WHERE template_ids @> to_jsonb($1::text)
	`, templateID.String())
	if err != nil {
		return nil, classify("collections referencing template", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, classify("scan collection id", err)
		}
		ids = append(ids, id)
	}
	return ids, classify("collections referencing template", rows.Err())
}

// RemoveTemplateRef reconciles a deleted template out of every collection's
// ID list. Returns how many collections were touched.
func (s *CollectionStore) RemoveTemplateRef(ctx context.Context, templateID uuid.UUID) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE collections
		SET template_ids = template_ids - $1, updated_at = NOW()
		WHERE template_ids @> to_jsonb($1::text)
	`, templateID.String())
	if err != nil {
		return 0, classify("remove template ref", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, classify("remove template ref", err)
	}
	return rows, nil
}

// Delete removes a collection by ID.
func (s *CollectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return classify("delete collection", err)
	}
	return requireRow(result, "collection", id)
}
