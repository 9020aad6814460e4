// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package curation assembles and republishes the marketplace discovery
// collections: system-generated trending and seasonal sets derived from
// template aggregate state, and authored bundles. Generated collections are
// superseded wholesale on each run; they are never edited in place.
package curation

import (
	"context"

	"github.com/google/uuid"

	"glowwwmarket/internal/cache"
	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
	"glowwwmarket/internal/store"
)

// Curator reads template aggregate state and maintains the discovery
// collections. It never mutates templates.
type Curator struct {
	templates   *store.TemplateStore
	collections *store.CollectionStore
	discovery   *cache.DiscoveryCache // nil when caching is not configured
}

// NewCurator creates a curator. discovery may be nil.
func NewCurator(templates *store.TemplateStore, collections *store.CollectionStore, discovery *cache.DiscoveryCache) *Curator {
	return &Curator{templates: templates, collections: collections, discovery: discovery}
}

// Get returns one collection by ID.
func (c *Curator) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	coll, err := c.collections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, errs.NotFound("collection", id)
	}
	return coll, nil
}

// ListVisible returns visible collections of one type (or all types when
// ctype is empty), serving from the discovery cache when possible.
func (c *Curator) ListVisible(ctx context.Context, ctype models.CollectionType) ([]*models.Collection, error) {
	key := "all"
	if ctype != "" {
		key = string(ctype)
	}
	if c.discovery != nil {
		if cached, ok := c.discovery.Get(ctx, key); ok {
			return cached, nil
		}
	}

	collections, err := c.collections.ListVisible(ctx, ctype)
	if err != nil {
		return nil, err
	}
	if c.discovery != nil {
		c.discovery.Set(ctx, key, collections)
	}
	return collections, nil
}

// RecordAnalytics applies one engagement event to a collection's counters.
// The increments are atomic in the store but not idempotent, so transient
// failures are NOT retried here; the caller's delivery semantics decide.
func (c *Curator) RecordAnalytics(ctx context.Context, collectionID uuid.UUID, event models.AnalyticsEvent, amount float64) error {
	if event == models.AnalyticsEventRevenue && amount <= 0 {
		return errs.Validation("amount", "revenue amount must be positive")
	}
	return c.collections.IncrementAnalytics(ctx, collectionID, event, amount)
}

// CollectionsReferencing returns the IDs of every collection the template
// currently appears in. This is the template's back-reference set; it is
// derived on read, never stored on the template row.
func (c *Curator) CollectionsReferencing(ctx context.Context, templateID uuid.UUID) ([]uuid.UUID, error) {
	return c.collections.IDsReferencing(ctx, templateID)
}

// ReconcileDeleted removes a deleted template from every collection that
// still references it. Collections hold weak references only, so this is
// the whole cleanup.
func (c *Curator) ReconcileDeleted(ctx context.Context, templateID uuid.UUID) (int64, error) {
	touched, err := c.collections.RemoveTemplateRef(ctx, templateID)
	if err != nil {
		return 0, err
	}
	c.invalidateDiscovery(ctx)
	return touched, nil
}

// invalidateDiscovery drops every cached listing after collections changed.
func (c *Curator) invalidateDiscovery(ctx context.Context) {
	if c.discovery == nil {
		return
	}
	keys := []string{"all"}
	for _, t := range []models.CollectionType{
		models.CollectionTypeBundle, models.CollectionTypeCurated,
		models.CollectionTypeSeasonal, models.CollectionTypeTrending,
		models.CollectionTypeCategory, models.CollectionTypeCreator,
	} {
		keys = append(keys, string(t))
	}
	c.discovery.Invalidate(ctx, keys...)
}

// templateIDs projects a ranked template list onto its IDs, preserving order.
func templateIDs(templates []*models.Template) []uuid.UUID {
	ids := make([]uuid.UUID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	return ids
}
