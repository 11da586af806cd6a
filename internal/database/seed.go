package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a small article hierarchy to exercise the tree views.
// It is a no-op when users already exist. The admin will be prompted to
// set up 2FA on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@treepress.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A two-level article hierarchy so the tree views have something to show.
	var welcomeID string
	err = db.QueryRow(`
		INSERT INTO articles (title, slug, content, category, status, author_id, published_at)
		VALUES ($1, $2, $3, $4, 'published', $5, NOW())
		RETURNING id
	`, "Welcome", "welcome", "# Welcome\n\nYour site is running.", "Guides", adminID).Scan(&welcomeID)
	if err != nil {
		return fmt.Errorf("seed insert welcome article: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO articles (title, slug, content, category, status, parent_id, author_id)
		VALUES ($1, $2, $3, $4, 'draft', $5, $6)
	`, "Getting Started", "getting-started",
		"## Getting Started\n\nCreate your first article from the admin panel.",
		"Guides", welcomeID, adminID)
	if err != nil {
		return fmt.Errorf("seed insert child article: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@treepress.local",
		"password", "admin",
	)

	return nil
}
