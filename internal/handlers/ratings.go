// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"glowwwmarket/internal/quality"
)

// Ratings groups the rating and quality score endpoints.
type Ratings struct {
	quality *quality.Aggregator
}

// NewRatings creates the ratings handler group.
func NewRatings(q *quality.Aggregator) *Ratings {
	return &Ratings{quality: q}
}

type submitRatingRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// Submit handles POST /api/templates/{id}/ratings. One rating per user
// per template; resubmitting replaces the previous score. Responds with
// the recomputed quality score projection.
func (h *Ratings) Submit(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req submitRatingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	userID, _ := uuid.Parse(req.UserID)

	score, err := h.quality.SubmitRating(r.Context(), templateID, userID, req.Score, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// List handles GET /api/templates/{id}/ratings with optional limit and
// before (RFC 3339) pagination parameters, newest first.
func (h *Ratings) List(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := 50
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}
	var cursor time.Time
	if raw := q.Get("before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid before cursor, want RFC 3339"})
			return
		}
		cursor = parsed
	}

	ratings, err := h.quality.ListRatings(r.Context(), templateID, limit, cursor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ratings": ratings})
}

// Recompute handles POST /api/templates/{id}/ratings/recompute, an admin
// repair endpoint that rebuilds the quality projection from stored rows.
func (h *Ratings) Recompute(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	score, err := h.quality.Recompute(r.Context(), templateID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}
