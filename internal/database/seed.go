package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"myblog/internal/slug"
)

// Seed username and password for development databases.
const (
	seedUsername = "admin"
	seedPassword = "admin"
	seedCategory = "Life"
)

// Seed populates the database with initial development data: a default
// author and one category. It does nothing if any user exists already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO users (username, password_hash) VALUES ($1, $2)
	`, seedUsername, string(hash)); err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO categories (name, slug) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, seedCategory, slug.Generate(seedCategory)); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default author",
		"username", seedUsername,
		"password", seedPassword,
	)

	return nil
}
