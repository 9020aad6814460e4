// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package curation

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
	"glowwwmarket/internal/models"
)

// ReferencePrice is the flat per-template reference price used to compute
// a bundle's original price.
const ReferencePrice = 29.99

// MaxBundleNameLen bounds bundle names in runes.
const MaxBundleNameLen = 200

// BundleRequest describes an authored bundle to create.
type BundleRequest struct {
	Name        string
	Description string
	TemplateIDs []uuid.UUID
	BundlePrice float64
	// Discount overrides the computed discount percentage when non-nil.
	Discount *int
	AuthorID  uuid.UUID
}

// CreateBundle materializes an authored bundle collection. The original
// price is the flat reference price summed over the given templates; the
// discount is either the explicit override or derived from the price gap.
// Bundles persist until explicitly changed; they are never superseded by
// generation runs.
func (c *Curator) CreateBundle(ctx context.Context, req BundleRequest) (*models.Collection, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errs.Validation("name", "required")
	}
	if utf8.RuneCountInString(name) > MaxBundleNameLen {
		return nil, errs.Validation("name", "exceeds 200 characters")
	}
	if len(req.TemplateIDs) < 2 {
		return nil, errs.Validation("template_ids", "a bundle needs at least 2 templates")
	}
	if req.BundlePrice < 0 {
		return nil, errs.Validation("bundle_price", "must not be negative")
	}
	if req.AuthorID == uuid.Nil {
		return nil, errs.Validation("author_id", "required")
	}
	if req.Discount != nil && (*req.Discount < 0 || *req.Discount > 100) {
		return nil, errs.Validation("discount", "must be between 0 and 100")
	}

	// Every referenced template must exist; bundles are authored, so the
	// check is strict rather than reconciled later.
	for _, id := range req.TemplateIDs {
		t, err := c.templates.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, errs.NotFound("template", id)
		}
	}

	originalPrice := round2(ReferencePrice * float64(len(req.TemplateIDs)))
	if req.BundlePrice > originalPrice {
		return nil, errs.Validation("bundle_price", "exceeds the combined reference price")
	}

	discount := 0
	if req.Discount != nil {
		discount = *req.Discount
	} else if originalPrice > 0 {
		discount = int(math.Round((originalPrice - req.BundlePrice) / originalPrice * 100))
	}

	coll := &models.Collection{
		Type:        models.CollectionTypeBundle,
		Name:        name,
		Description: req.Description,
		TemplateIDs: req.TemplateIDs,
		IsVisible:   true,
		CreatedBy:   &req.AuthorID,
		Bundle: &models.BundleMeta{
			OriginalPrice:   originalPrice,
			BundlePrice:     req.BundlePrice,
			DiscountPercent: discount,
			Savings:         round2(originalPrice - req.BundlePrice),
		},
	}

	created, err := c.collections.Create(ctx, coll)
	if err != nil {
		return nil, err
	}
	c.invalidateDiscovery(ctx)
	return created, nil
}

// round2 rounds to 2 decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
