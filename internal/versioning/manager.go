// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package versioning maintains the ordered, immutable version history of
// marketplace templates: semantic-version bumps, rollback-by-append,
// structural diffs and history statistics. Version creation is serialized
// per template by the store, so the sequence stays strictly monotonic with
// no gaps or duplicates under concurrent callers.
package versioning

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
	"glowwwmarket/internal/snapshot"
	"glowwwmarket/internal/store"
)

// MaxChangelogLen bounds changelog length in runes.
const MaxChangelogLen = 2000

// MaxSnapshotBytes bounds the serialized content accepted for one version.
const MaxSnapshotBytes = 2 << 20 // 2 MiB

// Archiver mirrors version snapshots to object storage. Optional.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Manager owns the version history of templates.
type Manager struct {
	templates *store.TemplateStore
	versions  *store.VersionStore
	archive   Archiver // nil when archiving is not configured
}

// NewManager creates a version manager. archive may be nil.
func NewManager(templates *store.TemplateStore, versions *store.VersionStore, archive Archiver) *Manager {
	return &Manager{templates: templates, versions: versions, archive: archive}
}

// CreateVersion appends a new immutable version to a template's history and
// repoints the template's current version, in one atomic step. The next
// version string follows semantic-version bump rules from the template's
// then-current version.
func (m *Manager) CreateVersion(ctx context.Context, templateID uuid.UUID, content []byte, vtype models.VersionType, changelog string, authorID uuid.UUID) (*models.Version, error) {
	switch vtype {
	case models.VersionTypeMajor, models.VersionTypeMinor, models.VersionTypePatch:
	default:
		return nil, errs.Validation("version_type", "must be major, minor or patch")
	}
	if authorID == uuid.Nil {
		return nil, errs.Validation("author_id", "required")
	}
	if len(content) == 0 {
		return nil, errs.Validation("content", "required")
	}
	if len(content) > MaxSnapshotBytes {
		return nil, errs.Validation("content", "snapshot too large")
	}
	if utf8.RuneCountInString(changelog) > MaxChangelogLen {
		return nil, errs.Validation("changelog", "exceeds 2000 characters")
	}
	if _, err := snapshot.Parse(content); err != nil {
		return nil, errs.Validation("content", err.Error())
	}

	v := &models.Version{
		VersionType:   vtype,
		Content:       content,
		ContentDigest: snapshot.Digest(content),
		Changelog:     changelog,
		CreatedBy:     authorID,
	}

	var created *models.Version
	err := errs.Retry(ctx, func(ctx context.Context) error {
		appended, err := m.versions.Append(ctx, templateID, bumpFunc(vtype), v)
		if err != nil {
			return err
		}
		created = appended
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("version created",
		"template", templateID,
		"version", created.Version,
		"type", vtype,
	)

	m.mirrorToArchive(ctx, created)
	return created, nil
}

// Rollback restores an earlier version's content by appending a new patch
// version carrying the target's snapshot. History is never deleted or
// reordered; rolling back always moves the sequence forward.
func (m *Manager) Rollback(ctx context.Context, templateID, targetVersionID uuid.UUID, authorID uuid.UUID) (*models.Version, error) {
	target, err := m.ownedVersion(ctx, templateID, targetVersionID)
	if err != nil {
		return nil, err
	}

	changelog := fmt.Sprintf("Rollback to version %s", target.Version)
	return m.CreateVersion(ctx, templateID, target.Content, models.VersionTypePatch, changelog, authorID)
}

// List returns a template's versions, newest first.
func (m *Manager) List(ctx context.Context, templateID uuid.UUID) ([]*models.Version, error) {
	if err := m.requireTemplate(ctx, templateID); err != nil {
		return nil, err
	}
	return m.versions.ListByTemplate(ctx, templateID)
}

// Get returns one version of a template, verifying its content digest.
func (m *Manager) Get(ctx context.Context, templateID, versionID uuid.UUID) (*models.Version, error) {
	return m.ownedVersion(ctx, templateID, versionID)
}

// RecordDownload atomically bumps the download counters of a version and
// its template.
func (m *Manager) RecordDownload(ctx context.Context, versionID uuid.UUID) error {
	return errs.Retry(ctx, func(ctx context.Context) error {
		return m.versions.IncrementDownload(ctx, versionID)
	})
}

// ArchiveURL returns a presigned download URL for a version's archived
// snapshot. Fails when archiving is not configured or the version was
// created before archiving was enabled.
func (m *Manager) ArchiveURL(ctx context.Context, templateID, versionID uuid.UUID) (string, error) {
	if m.archive == nil {
		return "", fmt.Errorf("snapshot archive not configured: %w", errs.ErrUnavailable)
	}
	v, err := m.ownedVersion(ctx, templateID, versionID)
	if err != nil {
		return "", err
	}
	if v.ArchiveKey == nil {
		return "", errs.NotFound("archive for version", versionID)
	}
	url, err := m.archive.PresignGet(ctx, *v.ArchiveKey, 15*time.Minute)
	if err != nil {
		return "", fmt.Errorf("presign archive url: %w", err)
	}
	return url, nil
}

// bumpFunc returns the semantic-version successor function for a bump type.
func bumpFunc(vtype models.VersionType) func(current string) (string, error) {
	return func(current string) (string, error) {
		parsed, err := semver.StrictNewVersion(current)
		if err != nil {
			return "", fmt.Errorf("current version %q is not valid semver: %w", current, err)
		}
		var next semver.Version
		switch vtype {
		case models.VersionTypeMajor:
			next = parsed.IncMajor()
		case models.VersionTypeMinor:
			next = parsed.IncMinor()
		default:
			next = parsed.IncPatch()
		}
		return next.String(), nil
	}
}

// ownedVersion loads a version and checks it belongs to the template and
// that its snapshot still matches the stored digest.
func (m *Manager) ownedVersion(ctx context.Context, templateID, versionID uuid.UUID) (*models.Version, error) {
	v, err := m.versions.FindByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil || v.TemplateID != templateID {
		return nil, errs.NotFound("version", versionID)
	}
	if v.ContentDigest != "" && snapshot.Digest(v.Content) != v.ContentDigest {
		return nil, fmt.Errorf("version %s snapshot digest mismatch: %w", versionID, errs.ErrConflict)
	}
	return v, nil
}

// requireTemplate turns a missing template into ErrNotFound.
func (m *Manager) requireTemplate(ctx context.Context, templateID uuid.UUID) error {
	t, err := m.templates.FindByID(ctx, templateID)
	if err != nil {
		return err
	}
	if t == nil {
		return errs.NotFound("template", templateID)
	}
	return nil
}

// mirrorToArchive uploads a created version's snapshot to object storage.
// Best effort: archive failures are logged, never surfaced, since the
// canonical snapshot already committed to the database.
func (m *Manager) mirrorToArchive(ctx context.Context, v *models.Version) {
	if m.archive == nil {
		return
	}
	key := fmt.Sprintf("snapshots/%s/%s.json", v.TemplateID, v.Version)
	if err := m.archive.Upload(ctx, key, v.Content); err != nil {
		slog.Warn("snapshot archive upload failed", "version", v.ID, "error", err)
		return
	}
	if err := m.versions.SetArchiveKey(ctx, v.ID, key); err != nil {
		slog.Warn("snapshot archive key update failed", "version", v.ID, "error", err)
	}
}
