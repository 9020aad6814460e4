// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a single user's 1-5 score for a template. The pair
// (TemplateID, UserID) is the primary key: a user re-rating a template
// replaces their previous score, it never adds a second row.
type Rating struct {
	TemplateID uuid.UUID `json:"template_id"`
	UserID     uuid.UUID `json:"user_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QualityScore is the derived quality projection for a template. It is a
// pure function of the template's Rating set and is recomputed from it,
// never patched incrementally.
type QualityScore struct {
	Average          float64 `json:"average"`
	WilsonLowerBound float64 `json:"wilson_lower_bound"`
	TotalRatings     int     `json:"total_ratings"`
	IsQualityForAI   bool    `json:"is_quality_for_ai"`
	IsFeatured       bool    `json:"is_featured"`
}
