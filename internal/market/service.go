// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package market implements the template listing lifecycle: submission,
// moderation, counters, sharing, and removal. New submissions start
// pending and unlisted; approval makes them publicly visible.
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
	"glowwwmarket/internal/moderation"
	"glowwwmarket/internal/slug"
	"glowwwmarket/internal/snapshot"
	"glowwwmarket/internal/store"
	"glowwwmarket/internal/versioning"
)

const (
	// MaxNameLen bounds template display names.
	MaxNameLen = 200
	// MaxDescriptionLen bounds listing descriptions.
	MaxDescriptionLen = 5000
	// MaxTags bounds the number of tags per listing.
	MaxTags = 20
)

// initialVersion is the version every new submission starts at.
const initialVersion = "1.0.0"

// ArchiveCleaner removes archived snapshot objects for deleted templates.
type ArchiveCleaner interface {
	Delete(ctx context.Context, key string) error
}

// Service coordinates the template lifecycle across the store, the
// curation layer, and optional content screening.
type Service struct {
	templates *store.TemplateStore
	versions  *store.VersionStore
	curator   Reconciler
	screen    *moderation.Screener // nil when screening is not configured
	archive   ArchiveCleaner       // nil when archiving is not configured
	baseURL   string
}

// Reconciler is the slice of the curator the lifecycle needs: the
// collection membership index for single-template reads, and scrubbing
// weak references out of collections when a template disappears.
type Reconciler interface {
	ReconcileDeleted(ctx context.Context, templateID uuid.UUID) (int64, error)
	CollectionsReferencing(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error)
}

// NewService creates the lifecycle service. screen and archive may be nil.
func NewService(templates *store.TemplateStore, versions *store.VersionStore, curator Reconciler, screen *moderation.Screener, archive ArchiveCleaner, baseURL string) *Service {
	return &Service{
		templates: templates,
		versions:  versions,
		curator:   curator,
		screen:    screen,
		archive:   archive,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// SubmitRequest carries a new template submission.
type SubmitRequest struct {
	Name        string
	Description string
	Category    string
	Tags        []string
	Commercial  models.TemplateCommercial
	Price       float64
	PreviewURL  *string
	Content     []byte
	CreatorID   uuid.UUID
}

// Submit validates, screens, and stores a new template. The template is
// created pending and unlisted at version 1.0.0 together with its first
// version record; moderation moves it forward from there.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Template, error) {
	if err := s.validateSubmission(req); err != nil {
		return nil, err
	}
	if err := s.screenListing(ctx, req.Name, req.Description); err != nil {
		return nil, err
	}

	graph, err := snapshot.Parse(req.Content)
	if err != nil {
		return nil, errs.Validation("content", err.Error())
	}

	t := &models.Template{
		Slug:           slugFor(req.Name),
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Category:       req.Category,
		Tags:           normalizeTags(req.Tags),
		Status:         models.TemplateStatusPending,
		Visibility:     models.TemplateVisibilityUnlisted,
		Commercial:     req.Commercial,
		Price:          req.Price,
		CreatorID:      req.CreatorID,
		PreviewURL:     req.PreviewURL,
		CurrentVersion: initialVersion,
	}
	v := &models.Version{
		VersionType:   models.VersionTypeMajor,
		Content:       req.Content,
		ContentDigest: snapshot.Digest(req.Content),
		Changelog:     "Initial version",
		CreatedBy:     req.CreatorID,
	}

	created, _, err := s.templates.CreateWithInitialVersion(ctx, t, v)
	if errors.Is(err, errs.ErrConflict) {
		// Slug taken; retry once with a short discriminator.
		t.Slug = slug.WithSuffix(t.Slug, uuid.NewString()[:8])
		created, _, err = s.templates.CreateWithInitialVersion(ctx, t, v)
	}
	if err != nil {
		return nil, fmt.Errorf("submit template: %w", err)
	}

	slog.Info("template submitted",
		"template_id", created.ID,
		"slug", created.Slug,
		"creator_id", created.CreatorID,
		"components", graph.NodeCount())
	return created, nil
}

// Approve marks a template approved and listed, clearing any prior
// moderation note. Approving an already approved template is a no-op.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	if _, err := s.require(ctx, id); err != nil {
		return nil, err
	}
	if err := s.templates.UpdateStatus(ctx, id, models.TemplateStatusApproved, models.TemplateVisibilityListed, nil); err != nil {
		return nil, err
	}
	slog.Info("template approved", "template_id", id)
	return s.Get(ctx, id)
}

// Reject marks a template rejected and unlisted with a moderation note
// explaining the decision.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Template, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation("reason", "a rejection reason is required")
	}
	if _, err := s.require(ctx, id); err != nil {
		return nil, err
	}
	if err := s.templates.UpdateStatus(ctx, id, models.TemplateStatusRejected, models.TemplateVisibilityUnlisted, &reason); err != nil {
		return nil, err
	}
	slog.Info("template rejected", "template_id", id, "reason", reason)
	return s.Get(ctx, id)
}

// Get retrieves a template by ID, including its collection memberships.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	t, err := s.templates.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.NotFound("template", id)
	}
	return s.withCollections(ctx, t)
}

// GetBySlug retrieves a template by its share slug, including its
// collection memberships.
func (s *Service) GetBySlug(ctx context.Context, sl string) (*models.Template, error) {
	t, err := s.templates.FindBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errs.NotFound("template", sl)
	}
	return s.withCollections(ctx, t)
}

// withCollections fills the template's collection back-references from the
// membership index. Bulk listings skip this; only single-template reads
// carry memberships.
func (s *Service) withCollections(ctx context.Context, t *models.Template) (*models.Template, error) {
	if s.curator == nil {
		return t, nil
	}
	ids, err := s.curator.CollectionsReferencing(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("collection memberships for %s: %w", t.ID, err)
	}
	t.CollectionIDs = ids
	return t, nil
}

// List returns templates matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]*models.Template, error) {
	return s.templates.List(ctx, filter)
}

// RecordView bumps the template view counter.
func (s *Service) RecordView(ctx context.Context, id uuid.UUID) error {
	return s.templates.IncrementCounter(ctx, id, "view_count")
}

// RecordDownload bumps the template-level download counter. Per-version
// downloads are recorded through the versioning manager instead.
func (s *Service) RecordDownload(ctx context.Context, id uuid.UUID) error {
	return s.templates.IncrementCounter(ctx, id, "download_count")
}

// RecordUsage bumps the counter tracking sites built from the template.
func (s *Service) RecordUsage(ctx context.Context, id uuid.UUID) error {
	return s.templates.IncrementCounter(ctx, id, "usage_count")
}

// ShareURL returns the public share link for a template.
func (s *Service) ShareURL(t *models.Template) string {
	return s.baseURL + "/t/" + t.Slug
}

// Delete removes a template, its ratings and version history (cascaded by
// the schema), scrubs weak references out of collections, and cleans up
// any archived snapshots. Archive cleanup is best-effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.require(ctx, id); err != nil {
		return err
	}

	// Collect archive keys before the rows cascade away.
	var archiveKeys []string
	if s.archive != nil {
		versions, err := s.versions.ListByTemplate(ctx, id)
		if err != nil {
			return err
		}
		for _, v := range versions {
			if v.ArchiveKey != nil {
				archiveKeys = append(archiveKeys, *v.ArchiveKey)
			}
		}
	}

	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}

	touched, err := s.curator.ReconcileDeleted(ctx, id)
	if err != nil {
		// The template row is already gone; collections self-heal on the
		// next generation run, so log and carry on.
		slog.Warn("collection reconciliation failed after delete",
			"template_id", id, "error", err)
	}

	for _, key := range archiveKeys {
		if err := s.archive.Delete(ctx, key); err != nil {
			slog.Warn("archive cleanup failed", "key", key, "error", err)
		}
	}

	slog.Info("template deleted", "template_id", id, "collections_touched", touched)
	return nil
}

func (s *Service) validateSubmission(req SubmitRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errs.Validation("name", "name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return errs.Validation("name", fmt.Sprintf("name exceeds %d characters", MaxNameLen))
	}
	if utf8.RuneCountInString(req.Description) > MaxDescriptionLen {
		return errs.Validation("description", fmt.Sprintf("description exceeds %d characters", MaxDescriptionLen))
	}
	if strings.TrimSpace(req.Category) == "" {
		return errs.Validation("category", "category is required")
	}
	if len(req.Tags) > MaxTags {
		return errs.Validation("tags", fmt.Sprintf("at most %d tags allowed", MaxTags))
	}
	switch req.Commercial {
	case models.TemplateCommercialFree, models.TemplateCommercialPaid, models.TemplateCommercialPremium:
	default:
		return errs.Validation("commercial", "commercial must be free, paid, or premium")
	}
	if req.Price < 0 {
		return errs.Validation("price", "price cannot be negative")
	}
	if req.Commercial == models.TemplateCommercialFree && req.Price != 0 {
		return errs.Validation("price", "free templates cannot carry a price")
	}
	if req.Commercial != models.TemplateCommercialFree && req.Price == 0 {
		return errs.Validation("price", "paid templates need a price")
	}
	if req.CreatorID == uuid.Nil {
		return errs.Validation("creator_id", "creator is required")
	}
	if len(req.Content) == 0 {
		return errs.Validation("content", "content snapshot is required")
	}
	if len(req.Content) > versioning.MaxSnapshotBytes {
		return errs.Validation("content", "content snapshot too large")
	}
	return nil
}

// screenListing runs the optional moderation check over the listing copy.
// A screening outage does not block submission; humans review everything
// pending anyway.
func (s *Service) screenListing(ctx context.Context, name, description string) error {
	if s.screen == nil {
		return nil
	}
	result, err := s.screen.Check(ctx, name+"\n\n"+description)
	if err != nil {
		slog.Warn("content screening unavailable", "error", err)
		return nil
	}
	if !result.Safe {
		return errs.Validation("content", "listing flagged by content screening: "+strings.Join(result.Categories, ", "))
	}
	return nil
}

func (s *Service) require(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	return s.Get(ctx, id)
}

func slugFor(name string) string {
	sl := slug.Generate(name)
	if sl == "" {
		sl = "template"
	}
	return sl
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
