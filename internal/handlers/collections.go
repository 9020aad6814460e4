// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/curation"
	"glowwwmarket/internal/models"
)

// Collections groups the curated collection endpoints.
type Collections struct {
	curator *curation.Curator
}

// NewCollections creates the collections handler group.
func NewCollections(c *curation.Curator) *Collections {
	return &Collections{curator: c}
}

// List handles GET /api/collections with an optional type filter,
// featured collections first.
func (h *Collections) List(w http.ResponseWriter, r *http.Request) {
	ctype := models.CollectionType(r.URL.Query().Get("type"))
	collections, err := h.curator.ListVisible(r.Context(), ctype)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

// Get handles GET /api/collections/{id}.
func (h *Collections) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.curator.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type analyticsEventRequest struct {
	Event  string  `json:"event" validate:"required,oneof=view download save click revenue"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// RecordEvent handles POST /api/collections/{id}/events. Revenue events
// carry the sale amount; all other events ignore it.
func (h *Collections) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req analyticsEventRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := h.curator.RecordAnalytics(r.Context(), id, models.AnalyticsEvent(req.Event), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createBundleRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	TemplateIDs []string `json:"template_ids" validate:"required,min=2,dive,uuid"`
	BundlePrice float64  `json:"bundle_price" validate:"gte=0"`
	Discount    *int     `json:"discount" validate:"omitempty,min=0,max=100"`
	AuthorID    string   `json:"author_id" validate:"required,uuid"`
}

// CreateBundle handles POST /api/bundles, creating an authored bundle
// collection with pricing derived from its member templates.
func (h *Collections) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var req createBundleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	templateIDs := make([]uuid.UUID, len(req.TemplateIDs))
	for i, raw := range req.TemplateIDs {
		templateIDs[i], _ = uuid.Parse(raw) // format checked by validate tag
	}
	authorID, _ := uuid.Parse(req.AuthorID)

	c, err := h.curator.CreateBundle(r.Context(), curation.BundleRequest{
		Name:        req.Name,
		Description: req.Description,
		TemplateIDs: templateIDs,
		BundlePrice: req.BundlePrice,
		Discount:    req.Discount,
		AuthorID:    authorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GenerateTrending handles POST /api/admin/collections/trending, running
// all trending algorithms and superseding the previous generation.
func (h *Collections) GenerateTrending(w http.ResponseWriter, r *http.Request) {
	collections, err := h.curator.GenerateTrending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

type generateSeasonalRequest struct {
	Month int `json:"month" validate:"omitempty,min=1,max=12"`
	Year  int `json:"year" validate:"omitempty,min=2000,max=2200"`
}

// GenerateSeasonal handles POST /api/admin/collections/seasonal. Month
// and year default to the current UTC date when omitted.
func (h *Collections) GenerateSeasonal(w http.ResponseWriter, r *http.Request) {
	req := generateSeasonalRequest{}
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	now := time.Now().UTC()
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	collections, err := h.curator.GenerateSeasonal(r.Context(), time.Month(req.Month), req.Year)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}
