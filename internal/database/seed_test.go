package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when the templates table is empty; calling it
	// twice must not duplicate anything.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var tmplCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&tmplCount); err != nil {
		t.Fatalf("count templates: %v", err)
	}
	if tmplCount < 1 {
		t.Errorf("expected at least 1 template, got %d", tmplCount)
	}

	// Every seeded template must carry its initial version record.
	var orphans int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM templates t
		WHERE NOT EXISTS (
			SELECT 1 FROM template_versions v WHERE v.template_id = t.id
		)
	`).Scan(&orphans)
	if err != nil {
		t.Fatalf("count orphans: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected 0 templates without versions, got %d", orphans)
	}
}
