// Copyright (c) 2026 Glowww Labs <hi@glowww.app>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"glowwwmarket/internal/curation"
	"glowwwmarket/internal/database"
	"glowwwmarket/internal/market"
	"glowwwmarket/internal/quality"
	"glowwwmarket/internal/store"
	"glowwwmarket/internal/versioning"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "glowwwmarket")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "glowwwmarket")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testAPI wires the full handler stack over a test database. Content
// screening, snapshot archiving, and the discovery cache stay off, same
// as a minimal deployment.
func testAPI(t *testing.T) (chi.Router, *sql.DB) {
	t.Helper()
	db := testDB(t)

	templates := store.NewTemplateStore(db)
	ratings := store.NewRatingStore(db)
	versions := store.NewVersionStore(db)
	collections := store.NewCollectionStore(db)

	curator := curation.NewCurator(templates, collections, nil)
	agg := quality.NewAggregator(ratings)
	manager := versioning.NewManager(templates, versions, nil)
	svc := market.NewService(templates, versions, curator, nil, nil, "http://localhost:8080")

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		th := NewTemplates(svc)
		rh := NewRatings(agg)
		vh := NewVersions(manager)
		ch := NewCollections(curator)

		r.Post("/templates", th.Submit)
		r.Get("/templates/{id}", th.Get)
		r.Get("/templates", th.List)
		r.Delete("/templates/{id}", th.Delete)
		r.Post("/templates/{id}/approve", th.Approve)
		r.Post("/templates/{id}/reject", th.Reject)
		r.Post("/templates/{id}/events/{event}", th.RecordEvent)
		r.Get("/templates/{id}/share", th.Share)
		r.Get("/templates/{id}/share/qr", th.ShareQR)
		r.Post("/templates/{id}/ratings", rh.Submit)
		r.Get("/templates/{id}/ratings", rh.List)
		r.Post("/templates/{id}/versions", vh.Create)
		r.Get("/templates/{id}/versions", vh.List)
		r.Get("/templates/{id}/versions/stats", vh.Stats)
		r.Get("/templates/{id}/versions/{versionID}", vh.Get)
		r.Get("/templates/{id}/versions/{versionID}/diff/{otherID}", vh.Diff)
		r.Get("/templates/{id}/versions/{versionID}/archive", vh.ArchiveURL)
		r.Post("/templates/{id}/rollback", vh.Rollback)
		r.Post("/bundles", ch.CreateBundle)
		r.Get("/collections", ch.List)
		r.Post("/collections/{id}/events", ch.RecordEvent)
	})
	return r, db
}

// doJSON performs a request with an optional JSON body and decodes the
// JSON response into out (when out is non-nil).
func doJSON(t *testing.T, r http.Handler, method, path string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if out != nil && rr.Code < 300 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rr.Body.String(), err)
		}
	}
	return rr
}
