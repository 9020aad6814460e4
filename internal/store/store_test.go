// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"glowwwmarket/internal/database"
	"glowwwmarket/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "glowwwmarket")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "glowwwmarket")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanTemplates removes test templates by slug. Ratings and versions
// cascade with the template rows. Call in t.Cleanup().
func cleanTemplates(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM templates WHERE slug = $1", slug)
	}
}

// cleanCollections removes test collections by name. Call in t.Cleanup().
func cleanCollections(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM collections WHERE name = $1", name)
	}
}

// seedTemplate inserts an approved, listed template for tests that need
// one, registering cleanup automatically.
func seedTemplate(t *testing.T, db *sql.DB, s *TemplateStore) *models.Template {
	t.Helper()

	slug := "test-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTemplates(t, db, slug) })

	created, err := s.Create(context.Background(), &models.Template{
		Slug:           slug,
		Name:           "Test Template " + slug,
		Category:       "landing",
		Tags:           []string{"test"},
		Status:         models.TemplateStatusApproved,
		Visibility:     models.TemplateVisibilityListed,
		Commercial:     models.TemplateCommercialFree,
		CreatorID:      uuid.New(),
		CurrentVersion: "1.0.0",
	})
	if err != nil {
		t.Fatalf("seed template: %v", err)
	}
	return created
}
