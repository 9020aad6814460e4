package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a few approved
// templates with a first version each, so discovery endpoints return
// something useful on a fresh install. No-op when templates already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	seeds := []struct {
		slug, name, category string
		tags                 string // JSON array literal
		commercial           string
		price                float64
	}{
		{"starter-landing", "Starter Landing", "landing", `["landing","hero","minimal"]`, "free", 0},
		{"portfolio-dark", "Portfolio Dark", "portfolio", `["portfolio","dark","creative"]`, "paid", 29.99},
		{"shop-essentials", "Shop Essentials", "ecommerce", `["shop","store","products"]`, "premium", 49.99},
		{"winter-promo", "Winter Promo", "landing", `["winter","holiday","festive","sale"]`, "paid", 29.99},
	}

	// A fixed creator ID keeps re-seeds deterministic across dev machines.
	const creator = "00000000-0000-0000-0000-000000000001"

	// Minimal serialized canvas: a root container with no children.
	const content = `{"ROOT":{"type":{"resolvedName":"Root"},"nodes":[],"props":{}}}`

	for _, s := range seeds {
		var id string
		err := db.QueryRow(`
			INSERT INTO templates (slug, name, category, tags, status, visibility, commercial, price, creator_id)
			VALUES ($1, $2, $3, $4, 'approved', 'listed', $5, $6, $7)
			RETURNING id
		`, s.slug, s.name, s.category, s.tags, s.commercial, s.price, creator).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert template %s: %w", s.slug, err)
		}

		_, err = db.Exec(`
			INSERT INTO template_versions (template_id, version, version_type, content, content_digest, changelog, created_by)
			VALUES ($1, '1.0.0', 'major', $2, '', 'Initial release', $3)
		`, id, []byte(content), creator)
		if err != nil {
			return fmt.Errorf("seed insert version for %s: %w", s.slug, err)
		}
	}

	slog.Info("database seeded with development templates", "count", len(seeds))
	return nil
}
