// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"glowwwmarket/internal/market"
	"glowwwmarket/internal/models"
	"glowwwmarket/internal/store"
)

// Templates groups the template lifecycle endpoints.
type Templates struct {
	market *market.Service
}

// NewTemplates creates the template handler group.
func NewTemplates(m *market.Service) *Templates {
	return &Templates{market: m}
}

type submitTemplateRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category" validate:"required,max=100"`
	Tags        []string        `json:"tags" validate:"max=20,dive,min=1,max=50"`
	Commercial  string          `json:"commercial" validate:"required,oneof=free paid premium"`
	Price       float64         `json:"price" validate:"gte=0"`
	PreviewURL  *string         `json:"preview_url" validate:"omitempty,url"`
	Content     json.RawMessage `json:"content" validate:"required"`
	CreatorID   string          `json:"creator_id" validate:"required,uuid"`
}

// Submit handles POST /api/templates. New submissions land pending and
// unlisted at version 1.0.0.
func (h *Templates) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	creatorID, _ := uuid.Parse(req.CreatorID) // format checked by validate tag

	created, err := h.market.Submit(r.Context(), market.SubmitRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Commercial:  models.TemplateCommercial(req.Commercial),
		Price:       req.Price,
		PreviewURL:  req.PreviewURL,
		Content:     req.Content,
		CreatorID:   creatorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/templates/{id}.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.market.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// GetBySlug handles GET /t/{slug}, the public share link target.
func (h *Templates) GetBySlug(w http.ResponseWriter, r *http.Request) {
	t, err := h.market.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// List handles GET /api/templates with optional status, category,
// visibility, limit, and before (RFC 3339 cursor) query parameters.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ListFilter{
		Status:     models.TemplateStatus(q.Get("status")),
		Category:   q.Get("category"),
		Visibility: models.TemplateVisibility(q.Get("visibility")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if raw := q.Get("before"); raw != "" {
		cursor, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid before cursor, want RFC 3339"})
			return
		}
		filter.Cursor = cursor
	}

	templates, err := h.market.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates})
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// Approve handles POST /api/templates/{id}/approve.
func (h *Templates) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.market.Approve(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Reject handles POST /api/templates/{id}/reject.
func (h *Templates) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req rejectRequest
	if !decodeBody(w, r, &req) {
		return
	}
	t, err := h.market.Reject(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/templates/{id}.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.market.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordEvent handles POST /api/templates/{id}/events/{event} for the
// view, download, and usage counters.
func (h *Templates) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var err error
	switch chi.URLParam(r, "event") {
	case "view":
		err = h.market.RecordView(r.Context(), id)
	case "download":
		err = h.market.RecordDownload(r.Context(), id)
	case "usage":
		err = h.market.RecordUsage(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown event, want view, download, or usage"})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Share handles GET /api/templates/{id}/share, returning the public link.
func (h *Templates) Share(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.market.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"url":  h.market.ShareURL(t),
		"slug": t.Slug,
	})
}

// ShareQR handles GET /api/templates/{id}/share/qr, returning a PNG QR
// code that encodes the public share link.
func (h *Templates) ShareQR(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	t, err := h.market.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	png, err := qrcode.Encode(h.market.ShareURL(t), qrcode.Medium, 256)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}
