// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// versionColumns lists all columns for template_versions SELECTs.
const versionColumns = `id, template_id, version, version_type, content,
	content_digest, changelog, created_by, created_at, download_count, archive_key`

// VersionStore provides access to the append-only version history of
// templates. Rows are immutable after insert except for the download
// counter and the archive key.
type VersionStore struct {
	db *sql.DB
}

// NewVersionStore creates a new VersionStore backed by the given database.
func NewVersionStore(db *sql.DB) *VersionStore {
	return &VersionStore{db: db}
}

// scanVersion scans a single template_versions row into a Version.
func scanVersion(scanner interface{ Scan(...any) error }) (*models.Version, error) {
	var v models.Version
	err := scanner.Scan(
		&v.ID, &v.TemplateID, &v.Version, &v.VersionType, &v.Content,
		&v.ContentDigest, &v.Changelog, &v.CreatedBy, &v.CreatedAt,
		&v.DownloadCount, &v.ArchiveKey,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Append creates the next version of a template. The template row is locked
// for the duration of the transaction, so concurrent appends for the same
// template serialize: each caller reads the then-current version string,
// bump computes the successor, and the insert plus the current_version
// repoint commit atomically. The (template_id, version) unique index is the
// backstop; a violation surfaces as ErrConflict.
//
// v carries everything but the version string, which Append fills in.
func (s *VersionStore) Append(ctx context.Context, templateID uuid.UUID, bump func(current string) (string, error), v *models.Version) (*models.Version, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("begin version tx", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `
		SELECT current_version FROM templates WHERE id = $1 FOR UPDATE
	`, templateID).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("template", templateID)
	}
	if err != nil {
		return nil, classify("lock template for version", err)
	}

	next, err := bump(current)
	if err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO template_versions (template_id, version, version_type,
			content, content_digest, changelog, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+versionColumns,
		templateID, next, v.VersionType, v.Content, v.ContentDigest,
		v.Changelog, v.CreatedBy,
	)
	created, err := scanVersion(row)
	if err != nil {
		return nil, classify("insert version", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE templates SET current_version = $1, updated_at = NOW() WHERE id = $2
	`, next, templateID)
	if err != nil {
		return nil, classify("repoint current version", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, classify("commit version tx", err)
	}
	return created, nil
}

// FindByID returns a single version by its ID. Returns nil if not found.
func (s *VersionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Version, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+versionColumns+` FROM template_versions WHERE id = $1
	`, id)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find version by id", err)
	}
	return v, nil
}

// ListByTemplate returns all versions for a template, newest first.
func (s *VersionStore) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*models.Version, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+versionColumns+` FROM template_versions
		WHERE template_id = $1
		ORDER BY created_at DESC, version DESC
	`, templateID)
	if err != nil {
		return nil, classify("list versions", err)
	}
	defer rows.Close()

	var versions []*models.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, classify("scan version", err)
		}
		versions = append(versions, v)
	}
	return versions, classify("list versions", rows.Err())
}

// HistorySummary is the raw aggregate the versioning engine turns into
// VersionStats.
type HistorySummary struct {
	Total           int
	MajorCount      int
	MinorCount      int
	PatchCount      int
	TotalDownloads  int64
	EarliestVersion string
	EarliestAt      time.Time
	LatestAt        time.Time
}

// Summarize aggregates a template's version history in one query snapshot.
// Returns a zero summary when the template has no versions.
func (s *VersionStore) Summarize(ctx context.Context, templateID uuid.UUID) (*HistorySummary, error) {
	var sum HistorySummary
	var earliestVersion sql.NullString
	var earliestAt, latestAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE version_type = 'major'),
			COUNT(*) FILTER (WHERE version_type = 'minor'),
			COUNT(*) FILTER (WHERE version_type = 'patch'),
			COALESCE(SUM(download_count), 0),
			MIN(created_at),
			MAX(created_at),
			(SELECT version FROM template_versions
				WHERE template_id = $1 ORDER BY created_at ASC, version ASC LIMIT 1)
		FROM template_versions WHERE template_id = $1
	`, templateID).Scan(
		&sum.Total, &sum.MajorCount, &sum.MinorCount, &sum.PatchCount,
		&sum.TotalDownloads, &earliestAt, &latestAt, &earliestVersion,
	)
	if err != nil {
		return nil, classify("summarize versions", err)
	}
	sum.EarliestVersion = earliestVersion.String
	if earliestAt.Valid {
		sum.EarliestAt = earliestAt.Time
	}
	if latestAt.Valid {
		sum.LatestAt = latestAt.Time
	}
	return &sum, nil
}

// IncrementDownload atomically bumps a version's download counter and the
// owning template's aggregate counter together.
func (s *VersionStore) IncrementDownload(ctx context.Context, versionID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin download tx", err)
	}
	defer tx.Rollback()

	var templateID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		UPDATE template_versions SET download_count = download_count + 1
		WHERE id = $1
		RETURNING template_id
	`, versionID).Scan(&templateID)
	if err == sql.ErrNoRows {
		return errs.NotFound("version", versionID)
	}
	if err != nil {
		return classify("increment version downloads", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE templates SET download_count = download_count + 1 WHERE id = $1
	`, templateID)
	if err != nil {
		return classify("increment template downloads", err)
	}

	return classify("commit download tx", tx.Commit())
}

// SetArchiveKey records where a version snapshot was mirrored in object
// storage. The snapshot itself is never rewritten.
func (s *VersionStore) SetArchiveKey(ctx context.Context, versionID uuid.UUID, key string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE template_versions SET archive_key = $1 WHERE id = $2
	`, key, versionID)
	if err != nil {
		return classify("set archive key", err)
	}
	return requireRow(result, "version", versionID)
}

// Count returns the number of versions for a template.
func (s *VersionStore) Count(ctx context.Context, templateID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM template_versions WHERE template_id = $1
	`, templateID).Scan(&count)
	if err != nil {
		return 0, classify("count versions", err)
	}
	return count, nil
}
