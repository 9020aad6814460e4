// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API for the marketplace: template
// listings, ratings, version history, and curated collections. Request
// bodies are validated with validator/v10 struct tags; engine errors map
// onto HTTP statuses in writeError.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"glowwwmarket/internal/errs"
)

// validate is the shared validator instance; validator instances cache
// struct metadata and are safe for concurrent use.
var validate = validator.New()

// maxBodyBytes bounds JSON request bodies. Version snapshots are the
// largest payload and are capped separately by the versioning manager.
const maxBodyBytes = 4 << 20 // 4 MiB

// errorResponse is the JSON shape of every non-2xx answer.
type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// writeJSON serializes v with the given status. Encoding failures are
// logged; headers are already sent at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps an engine error onto an HTTP status and JSON body.
func writeError(w http.ResponseWriter, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Error()})
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, errs.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "conflict, retry the request"})
	case errors.Is(err, errs.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "temporarily unavailable"})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeBody reads, decodes, and validates a JSON request body into dst.
// dst must be a pointer to a struct carrying validate tags.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body: " + err.Error()})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msg := fmt.Sprintf("field %q failed on the %q rule", fe.Field(), fe.Tag())
				if fe.Param() != "" {
					msg += " (" + fe.Param() + ")"
				}
				fields = append(fields, msg)
			}
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: fields})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

// pathUUID extracts and parses a UUID URL parameter.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
