// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"glowwwmarket/internal/models"
	"glowwwmarket/internal/versioning"
)

// Versions groups the version history endpoints.
type Versions struct {
	versions *versioning.Manager
}

// NewVersions creates the version handler group.
func NewVersions(m *versioning.Manager) *Versions {
	return &Versions{versions: m}
}

type createVersionRequest struct {
	Content     json.RawMessage `json:"content" validate:"required"`
	VersionType string          `json:"version_type" validate:"required,oneof=major minor patch"`
	Changelog   string          `json:"changelog" validate:"required,max=2000"`
	AuthorID    string          `json:"author_id" validate:"required,uuid"`
}

// Create handles POST /api/templates/{id}/versions, appending a new
// version with a semver bump derived from version_type.
func (h *Versions) Create(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req createVersionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	authorID, _ := uuid.Parse(req.AuthorID)

	v, err := h.versions.CreateVersion(r.Context(), templateID, req.Content,
		models.VersionType(req.VersionType), req.Changelog, authorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// List handles GET /api/templates/{id}/versions, newest first.
func (h *Versions) List(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	versions, err := h.versions.List(r.Context(), templateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

// Get handles GET /api/templates/{id}/versions/{versionID}.
func (h *Versions) Get(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}
	v, err := h.versions.Get(r.Context(), templateID, versionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Diff handles GET /api/templates/{id}/versions/{versionID}/diff/{otherID},
// comparing two snapshots of the same template.
func (h *Versions) Diff(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	fromID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}
	toID, ok := pathUUID(w, r, "otherID")
	if !ok {
		return
	}
	diff, err := h.versions.Compare(r.Context(), templateID, fromID, toID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

type rollbackRequest struct {
	VersionID string `json:"version_id" validate:"required,uuid"`
	AuthorID  string `json:"author_id" validate:"required,uuid"`
}

// Rollback handles POST /api/templates/{id}/rollback. Rollback is
// additive: it appends a new patch version carrying the old content.
func (h *Versions) Rollback(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req rollbackRequest
	if !decodeBody(w, r, &req) {
		return
	}
	versionID, _ := uuid.Parse(req.VersionID)
	authorID, _ := uuid.Parse(req.AuthorID)

	v, err := h.versions.Rollback(r.Context(), templateID, versionID, authorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Stats handles GET /api/templates/{id}/versions/stats, the history
// summary with the update-frequency classification.
func (h *Versions) Stats(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.versions.Stats(r.Context(), templateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// RecordDownload handles POST /api/templates/{id}/versions/{versionID}/download,
// bumping both the version and template download counters.
func (h *Versions) RecordDownload(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	versionID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}
	if err := h.versions.RecordDownload(r.Context(), versionID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveURL handles GET /api/templates/{id}/versions/{versionID}/archive,
// answering a short-lived presigned link to the archived snapshot.
func (h *Versions) ArchiveURL(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}
	url, err := h.versions.ArchiveURL(r.Context(), templateID, versionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
