// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionType distinguishes the kinds of discovery collections.
type CollectionType string

const (
	CollectionTypeBundle   CollectionType = "bundle"
	CollectionTypeCurated  CollectionType = "curated"
	CollectionTypeSeasonal CollectionType = "seasonal"
	CollectionTypeTrending CollectionType = "trending"
	CollectionTypeCategory CollectionType = "category"
	CollectionTypeCreator  CollectionType = "creator"
)

// TrendingMeta carries metadata for system-generated trending collections.
type TrendingMeta struct {
	Algorithm   string    `json:"algorithm"`
	RefreshedAt time.Time `json:"refreshed_at"`
	Cadence     string    `json:"cadence"`
}

// SeasonalMeta carries metadata for seasonal collections: the season name,
// its theme color, and the computed date window for the generation year.
type SeasonalMeta struct {
	Season     string    `json:"season"`
	ThemeColor string    `json:"theme_color"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// BundleMeta carries pricing metadata for authored bundles.
type BundleMeta struct {
	OriginalPrice   float64 `json:"original_price"`
	BundlePrice     float64 `json:"bundle_price"`
	DiscountPercent int     `json:"discount_percent"`
	Savings         float64 `json:"savings"`
}

// CollectionAnalytics holds the per-collection engagement counters. All
// increments happen atomically in the store.
type CollectionAnalytics struct {
	Views       int64   `json:"views"`
	Downloads   int64   `json:"downloads"`
	Saves       int64   `json:"saves"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Conversions int64   `json:"conversions"`
	Revenue     float64 `json:"revenue"`
}

// Collection is an ordered set of template references for a discovery
// surface. TemplateIDs order is the curation ranking. Collections hold weak
// references only: they never own a template's lifecycle, and a deleted
// template must be reconciled out of every collection's list.
//
// Exactly one of Trending, Seasonal, Bundle is non-nil, matching Type;
// curated, category and creator collections carry none (tagged variant).
type Collection struct {
	ID          uuid.UUID      `json:"id"`
	Type        CollectionType `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	TemplateIDs []uuid.UUID    `json:"template_ids"`
	IsVisible   bool           `json:"is_visible"`
	IsFeatured  bool           `json:"is_featured"`
	CreatedBy   *uuid.UUID     `json:"created_by,omitempty"`

	Trending *TrendingMeta `json:"trending,omitempty"`
	Seasonal *SeasonalMeta `json:"seasonal,omitempty"`
	Bundle   *BundleMeta   `json:"bundle,omitempty"`

	Analytics CollectionAnalytics `json:"analytics"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnalyticsEvent identifies a collection engagement event to record.
type AnalyticsEvent string

const (
	AnalyticsEventView     AnalyticsEvent = "view"
	AnalyticsEventDownload AnalyticsEvent = "download"
	AnalyticsEventSave     AnalyticsEvent = "save"
	AnalyticsEventClick    AnalyticsEvent = "click"
	AnalyticsEventRevenue  AnalyticsEvent = "revenue"
)
