// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/models"
)

func TestCollectionStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	templates := NewTemplateStore(db)
	collections := NewCollectionStore(db)
	ctx := context.Background()

	tmpl := seedTemplate(t, db, templates)

	name := "Bundle " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCollections(t, db, name) })

	author := uuid.New()
	created, err := collections.Create(ctx, &models.Collection{
		Type:        models.CollectionTypeBundle,
		Name:        name,
		Description: "two for one",
		TemplateIDs: []uuid.UUID{tmpl.ID},
		IsVisible:   true,
		CreatedBy:   &author,
		Bundle: &models.BundleMeta{
			OriginalPrice:   59.98,
			BundlePrice:     39.99,
			DiscountPercent: 33,
			Savings:         19.99,
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := collections.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected collection, got nil")
	}
	// The metadata variant round-trips through the JSONB column.
	if found.Bundle == nil {
		t.Fatal("bundle metadata missing")
	}
	if found.Bundle.DiscountPercent != 33 {
		t.Errorf("discount: got %d, want 33", found.Bundle.DiscountPercent)
	}
	if found.Trending != nil || found.Seasonal != nil {
		t.Error("only the bundle variant should be set")
	}
	if len(found.TemplateIDs) != 1 || found.TemplateIDs[0] != tmpl.ID {
		t.Errorf("template_ids: got %v", found.TemplateIDs)
	}
}

func TestCollectionStoreReplaceSupersedes(t *testing.T) {
	db := testDB(t)
	templates := NewTemplateStore(db)
	collections := NewCollectionStore(db)
	ctx := context.Background()

	tmpl := seedTemplate(t, db, templates)

	name := "Trending Test " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCollections(t, db, name) })

	build := func() *models.Collection {
		return &models.Collection{
			Type:        models.CollectionTypeTrending,
			Name:        name,
			TemplateIDs: []uuid.UUID{tmpl.ID},
			IsVisible:   true,
			Trending: &models.TrendingMeta{
				Algorithm:   "test_algo_" + name,
				RefreshedAt: time.Now().UTC(),
				Cadence:     "daily",
			},
		}
	}

	first, err := collections.Replace(ctx, build(), "algorithm", "test_algo_"+name)
	if err != nil {
		t.Fatalf("first Replace: %v", err)
	}

	second, err := collections.Replace(ctx, build(), "algorithm", "test_algo_"+name)
	if err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	if first.ID == second.ID {
		t.Error("replace should create a fresh row")
	}

	// The superseded generation is gone.
	old, _ := collections.FindByID(ctx, first.ID)
	if old != nil {
		t.Error("previous generation should be deleted")
	}
	var count int
	db.QueryRow("SELECT COUNT(*) FROM collections WHERE name = $1", name).Scan(&count)
	if count != 1 {
		t.Errorf("rows for algorithm: got %d, want 1", count)
	}
}

func TestCollectionStoreIncrementAnalytics(t *testing.T) {
	db := testDB(t)
	templates := NewTemplateStore(db)
	collections := NewCollectionStore(db)
	ctx := context.Background()

	tmpl := seedTemplate(t, db, templates)

	name := "Analytics " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCollections(t, db, name) })

	created, err := collections.Create(ctx, &models.Collection{
		Type:        models.CollectionTypeCurated,
		Name:        name,
		TemplateIDs: []uuid.UUID{tmpl.ID},
		IsVisible:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Views also count impressions; downloads also count conversions.
	if err := collections.IncrementAnalytics(ctx, created.ID, models.AnalyticsEventView, 0); err != nil {
		t.Fatalf("view: %v", err)
	}
	if err := collections.IncrementAnalytics(ctx, created.ID, models.AnalyticsEventDownload, 0); err != nil {
		t.Fatalf("download: %v", err)
	}
	if err := collections.IncrementAnalytics(ctx, created.ID, models.AnalyticsEventRevenue, 39.99); err != nil {
		t.Fatalf("revenue: %v", err)
	}

	found, _ := collections.FindByID(ctx, created.ID)
	a := found.Analytics
	if a.Views != 1 || a.Impressions != 1 {
		t.Errorf("views/impressions: got %d/%d, want 1/1", a.Views, a.Impressions)
	}
	if a.Downloads != 1 || a.Conversions != 1 {
		t.Errorf("downloads/conversions: got %d/%d, want 1/1", a.Downloads, a.Conversions)
	}
	if diff := a.Revenue - 39.99; diff > 0.001 || diff < -0.001 {
		t.Errorf("revenue: got %v, want 39.99", a.Revenue)
	}
}

func TestCollectionStoreRemoveTemplateRef(t *testing.T) {
	db := testDB(t)
	templates := NewTemplateStore(db)
	collections := NewCollectionStore(db)
	ctx := context.Background()

	keep := seedTemplate(t, db, templates)
	gone := seedTemplate(t, db, templates)

	name := "Reconcile " + uuid.NewString()[:8]
	t.Cleanup(func() { cleanCollections(t, db, name) })

	created, err := collections.Create(ctx, &models.Collection{
		Type:        models.CollectionTypeCurated,
		Name:        name,
		TemplateIDs: []uuid.UUID{keep.ID, gone.ID},
		IsVisible:   true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ids, err := collections.IDsReferencing(ctx, gone.ID)
	if err != nil {
		t.Fatalf("IDsReferencing: %v", err)
	}
	if len(ids) != 1 || ids[0] != created.ID {
		t.Errorf("IDsReferencing: got %v", ids)
	}

	touched, err := collections.RemoveTemplateRef(ctx, gone.ID)
	if err != nil {
		t.Fatalf("RemoveTemplateRef: %v", err)
	}
	if touched != 1 {
		t.Errorf("touched: got %d, want 1", touched)
	}

	// Order of the surviving references is preserved.
	found, _ := collections.FindByID(ctx, created.ID)
	if len(found.TemplateIDs) != 1 || found.TemplateIDs[0] != keep.ID {
		t.Errorf("template_ids after reconcile: got %v, want [%s]", found.TemplateIDs, keep.ID)
	}

	// Removing a reference nothing holds touches zero rows.
	touched, err = collections.RemoveTemplateRef(ctx, uuid.New())
	if err != nil {
		t.Fatalf("RemoveTemplateRef unknown: %v", err)
	}
	if touched != 0 {
		t.Errorf("unknown ref touched %d rows, want 0", touched)
	}
}
