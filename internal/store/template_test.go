// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

func TestTemplateStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	slug := "create-find-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTemplates(t, db, slug) })

	created, err := s.Create(ctx, &models.Template{
		Slug:           slug,
		Name:           "SaaS Landing",
		Description:    "A landing page",
		Category:       "landing",
		Tags:           []string{"saas", "dark"},
		Status:         models.TemplateStatusPending,
		Visibility:     models.TemplateVisibilityUnlisted,
		Commercial:     models.TemplateCommercialPaid,
		Price:          19.99,
		CreatorID:      uuid.New(),
		CurrentVersion: "1.0.0",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Status != models.TemplateStatusPending {
		t.Errorf("status: got %q, want pending", created.Status)
	}
	if created.TotalRatings != 0 || created.AverageRating != 0 {
		t.Error("new templates should start with an empty quality projection")
	}

	// FindByID round-trips tags through the JSONB column.
	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected template, got nil")
	}
	if len(found.Tags) != 2 || found.Tags[0] != "saas" {
		t.Errorf("tags: got %v, want [saas dark]", found.Tags)
	}

	// FindBySlug.
	found, err = s.FindBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Error("FindBySlug should return the created template")
	}

	// Not found is nil, not an error.
	found, err = s.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("FindByID random: %v", err)
	}
	if found != nil {
		t.Error("expected nil for random UUID")
	}
}

func TestTemplateStoreCreateWithInitialVersion(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	slug := "initial-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTemplates(t, db, slug) })

	creator := uuid.New()
	tmpl := &models.Template{
		Slug:           slug,
		Name:           "With Version",
		Category:       "portfolio",
		Status:         models.TemplateStatusPending,
		Visibility:     models.TemplateVisibilityUnlisted,
		Commercial:     models.TemplateCommercialFree,
		CreatorID:      creator,
		CurrentVersion: "1.0.0",
	}
	v := &models.Version{
		VersionType:   models.VersionTypeMajor,
		Content:       []byte(`{"ROOT":{"type":"Root","nodes":[]}}`),
		ContentDigest: "abc",
		Changelog:     "Initial version",
		CreatedBy:     creator,
	}

	created, initial, err := s.CreateWithInitialVersion(ctx, tmpl, v)
	if err != nil {
		t.Fatalf("CreateWithInitialVersion: %v", err)
	}
	if initial.TemplateID != created.ID {
		t.Error("initial version should belong to the created template")
	}
	if initial.Version != "1.0.0" {
		t.Errorf("version: got %q, want 1.0.0", initial.Version)
	}

	versions := NewVersionStore(db)
	list, err := versions.ListByTemplate(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListByTemplate: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("versions: got %d, want 1", len(list))
	}

	// A duplicate slug conflicts and must not leave a partial row behind.
	_, _, err = s.CreateWithInitialVersion(ctx, tmpl, v)
	if !errors.Is(err, errs.ErrConflict) {
		t.Errorf("duplicate slug: got %v, want ErrConflict", err)
	}
	var count int
	db.QueryRow("SELECT COUNT(*) FROM templates WHERE slug = $1", slug).Scan(&count)
	if count != 1 {
		t.Errorf("templates with slug: got %d, want 1", count)
	}
}

func TestTemplateStoreUpdateStatus(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	created := seedTemplate(t, db, s)

	note := "low quality preview"
	if err := s.UpdateStatus(ctx, created.ID, models.TemplateStatusRejected, models.TemplateVisibilityUnlisted, &note); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	found, _ := s.FindByID(ctx, created.ID)
	if found.Status != models.TemplateStatusRejected {
		t.Errorf("status: got %q, want rejected", found.Status)
	}
	if found.ModerationNote == nil || *found.ModerationNote != note {
		t.Error("moderation note should be stored")
	}
	if found.IsPublic() {
		t.Error("rejected templates must not be public")
	}

	// Unknown ID reports not found.
	err := s.UpdateStatus(ctx, uuid.New(), models.TemplateStatusApproved, models.TemplateVisibilityListed, nil)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown ID: got %v, want ErrNotFound", err)
	}
}

func TestTemplateStoreCounters(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	created := seedTemplate(t, db, s)

	for i := 0; i < 3; i++ {
		if err := s.IncrementCounter(ctx, created.ID, "view_count"); err != nil {
			t.Fatalf("IncrementCounter view: %v", err)
		}
	}
	if err := s.IncrementCounter(ctx, created.ID, "download_count"); err != nil {
		t.Fatalf("IncrementCounter download: %v", err)
	}

	found, _ := s.FindByID(ctx, created.ID)
	if found.ViewCount != 3 {
		t.Errorf("view_count: got %d, want 3", found.ViewCount)
	}
	if found.DownloadCount != 1 {
		t.Errorf("download_count: got %d, want 1", found.DownloadCount)
	}

	// Counter names are whitelisted.
	if err := s.IncrementCounter(ctx, created.ID, "price"); err == nil {
		t.Error("expected error for non-counter column")
	}
}

func TestTemplateStoreListFilter(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	created := seedTemplate(t, db, s)

	list, err := s.List(ctx, ListFilter{
		Status:   models.TemplateStatusApproved,
		Category: "landing",
		Limit:    100,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var seen bool
	for _, tmpl := range list {
		if tmpl.Status != models.TemplateStatusApproved {
			t.Errorf("filter leaked status %q", tmpl.Status)
		}
		if tmpl.ID == created.ID {
			seen = true
		}
	}
	if !seen {
		t.Error("seeded template missing from filtered list")
	}
}

func TestTemplateStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	created := seedTemplate(t, db, s)

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	found, _ := s.FindByID(ctx, created.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestTemplateStoreListPublicTagged(t *testing.T) {
	db := testDB(t)
	s := NewTemplateStore(db)
	ctx := context.Background()

	marker := "tagged-" + uuid.NewString()[:8]

	seed := func(tags []string) *models.Template {
		slug := "test-" + uuid.NewString()[:8]
		t.Cleanup(func() { cleanTemplates(t, db, slug) })
		created, err := s.Create(ctx, &models.Template{
			Slug:           slug,
			Name:           "Tag Test " + slug,
			Category:       "landing",
			Tags:           append(tags, marker),
			Status:         models.TemplateStatusApproved,
			Visibility:     models.TemplateVisibilityListed,
			Commercial:     models.TemplateCommercialFree,
			CreatorID:      uuid.New(),
			CurrentVersion: "1.0.0",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return created
	}

	halloween := seed([]string{"halloween"})
	shouting := seed([]string{"PUMPKIN"})
	beach := seed([]string{"beach"})

	got, err := s.ListPublicTagged(ctx, []string{"halloween", "pumpkin"}, 50)
	if err != nil {
		t.Fatalf("ListPublicTagged: %v", err)
	}

	found := make(map[uuid.UUID]bool, len(got))
	for _, tmpl := range got {
		found[tmpl.ID] = true
	}
	if !found[halloween.ID] {
		t.Error("template tagged halloween missing")
	}
	if !found[shouting.ID] {
		t.Error("tag matching should be case-insensitive")
	}
	if found[beach.ID] {
		t.Error("template without a matching tag returned")
	}

	// The marker tag reaches every seeded row regardless of rank.
	all, err := s.ListPublicTagged(ctx, []string{marker}, 50)
	if err != nil {
		t.Fatalf("ListPublicTagged marker: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("marker tag matched %d templates, want 3", len(all))
	}
}
