// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// Package store is the persistence adapter for the marketplace engine. One
// store per record kind (templates, ratings, versions, collections), raw SQL
// over database/sql with the pgx driver. Stores classify driver failures
// into the typed kinds in internal/errs so the engines can decide what to
// retry.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"glowwwmarket/internal/errs"
)

// classify maps a driver error onto the engine's typed error kinds.
// Unique-key and serialization failures become ErrConflict (retryable by
// the engines); dead connections become ErrUnavailable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, errs.ErrConflict)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%s: %w", op, errs.ErrConflict)
		}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %v: %w", op, err, errs.ErrUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// jsonColumn marshals v for storage in a JSONB column.
func jsonColumn(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json column: %w", err)
	}
	return b, nil
}

// stringsFromJSON decodes a JSONB array column into a string slice.
func stringsFromJSON(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode json column: %w", err)
	}
	return out, nil
}

// uuidsFromJSON decodes a JSONB array column into a UUID slice.
func uuidsFromJSON(raw []byte) ([]uuid.UUID, error) {
	strs, err := stringsFromJSON(raw)
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(strs))
	for _, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("decode uuid column: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}

// uuidStrings converts a UUID slice to strings for JSONB storage.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
