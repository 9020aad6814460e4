// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// VersionType classifies a version bump under semantic versioning rules.
type VersionType string

const (
	VersionTypeMajor VersionType = "major"
	VersionTypeMinor VersionType = "minor"
	VersionTypePatch VersionType = "patch"
)

// Version is an immutable snapshot of a template's content at a point in
// time. Versions for one template form a strictly increasing, append-only
// sequence; a row, once written, is never mutated (only its download
// counter moves). ContentDigest is the blake2b-256 hex digest of Content
// and guards against silent snapshot corruption.
type Version struct {
	ID            uuid.UUID   `json:"id"`
	TemplateID    uuid.UUID   `json:"template_id"`
	Version       string      `json:"version"`
	VersionType   VersionType `json:"version_type"`
	Content       []byte      `json:"content"`
	ContentDigest string      `json:"content_digest"`
	Changelog     string      `json:"changelog"`
	CreatedBy     uuid.UUID   `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	DownloadCount int64       `json:"download_count"`

	// ArchiveKey is set when the snapshot has been mirrored to object
	// storage for export. Empty when archiving is not configured.
	ArchiveKey *string `json:"archive_key,omitempty"`
}

// VersionDiff describes the difference between two version snapshots of the
// same template.
type VersionDiff struct {
	TemplateID  uuid.UUID `json:"template_id"`
	FromVersion string    `json:"from_version"`
	ToVersion   string    `json:"to_version"`

	// Changes is a human-readable change list ("added 3 components", ...).
	Changes []string `json:"changes"`

	// RootChanged is true when the root node's structure differs.
	RootChanged bool `json:"root_changed"`

	// SizeDelta is the byte-size difference between the serialized snapshots.
	SizeDelta int `json:"size_delta"`

	// Component-type set diff, deduplicated and order-independent.
	AddedTypes     []string `json:"added_types"`
	RemovedTypes   []string `json:"removed_types"`
	UnchangedTypes []string `json:"unchanged_types"`
}

// UpdateFrequency classifies how often a template receives new versions.
type UpdateFrequency string

const (
	UpdateFrequencyNew          UpdateFrequency = "new"
	UpdateFrequencyVeryFrequent UpdateFrequency = "very frequent"
	UpdateFrequencyFrequent     UpdateFrequency = "frequent"
	UpdateFrequencyRegular      UpdateFrequency = "regular"
	UpdateFrequencyOccasional   UpdateFrequency = "occasional"
)

// VersionStats summarizes a template's version history.
type VersionStats struct {
	TemplateID      uuid.UUID           `json:"template_id"`
	TotalVersions   int                 `json:"total_versions"`
	CurrentVersion  string              `json:"current_version"`
	EarliestVersion string              `json:"earliest_version"`
	CountsByType    map[VersionType]int `json:"counts_by_type"`
	TotalDownloads  int64               `json:"total_downloads"`
	UpdateFrequency UpdateFrequency     `json:"update_frequency"`
}
