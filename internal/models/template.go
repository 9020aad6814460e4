// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// TemplateStatus represents the moderation lifecycle state of a template.
type TemplateStatus string

const (
	TemplateStatusPending  TemplateStatus = "pending"
	TemplateStatusApproved TemplateStatus = "approved"
	TemplateStatusRejected TemplateStatus = "rejected"
)

// TemplateVisibility controls whether a template appears in public discovery.
type TemplateVisibility string

const (
	TemplateVisibilityListed   TemplateVisibility = "listed"
	TemplateVisibilityUnlisted TemplateVisibility = "unlisted"
)

// TemplateCommercial categorizes how a template is sold.
type TemplateCommercial string

const (
	TemplateCommercialFree    TemplateCommercial = "free"
	TemplateCommercialPaid    TemplateCommercial = "paid"
	TemplateCommercialPremium TemplateCommercial = "premium"
)

// Template represents a website template submitted to the marketplace.
// The quality fields (AverageRating, TotalRatings, WilsonScore, IsQualityForAI,
// IsFeatured) are a denormalized projection of the template's Rating set and
// must always be re-derivable from it. CurrentVersion mirrors the most
// recently appended Version record.
type Template struct {
	ID          uuid.UUID          `json:"id"`
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Tags        []string           `json:"tags"`
	Status      TemplateStatus     `json:"status"`
	Visibility  TemplateVisibility `json:"visibility"`
	Commercial  TemplateCommercial `json:"commercial"`
	Price       float64            `json:"price"`
	CreatorID   uuid.UUID          `json:"creator_id"`
	PreviewURL  *string            `json:"preview_url,omitempty"`

	// Current published version pointer (semantic version string).
	CurrentVersion string `json:"current_version"`

	// Quality projection — cache of the Rating set, see internal/quality.
	AverageRating  float64 `json:"average_rating"`
	TotalRatings   int     `json:"total_ratings"`
	WilsonScore    float64 `json:"wilson_score"`
	IsQualityForAI bool    `json:"is_quality_for_ai"`
	IsFeatured     bool    `json:"is_featured"`

	// Activity counters, incremented atomically in the store.
	ViewCount     int64 `json:"view_count"`
	DownloadCount int64 `json:"download_count"`
	UsageCount    int64 `json:"usage_count"`

	// GrowthRate is supplied by an external analytics pipeline; the
	// curation engine only reads it (rising_stars ranking).
	GrowthRate float64 `json:"growth_rate"`

	// Collections this template currently appears in (weak back-references).
	CollectionIDs []uuid.UUID `json:"collection_ids,omitempty"`

	ModerationNote *string   `json:"moderation_note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsPublic returns true when the template qualifies for public discovery
// surfaces (trending, seasonal, search).
func (t *Template) IsPublic() bool {
	return t.Status == TemplateStatusApproved && t.Visibility == TemplateVisibilityListed
}
