// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all blog entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Multi-statement writes run inside a single transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"myblog/internal/models"
	"myblog/internal/slug"
)

// maxSlugAttempts bounds the "-2", "-3", ... suffix search.
const maxSlugAttempts = 100

// querier is satisfied by both *sql.DB and *sql.Tx so helpers can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// withTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// uniqueSlug derives a slug from name and returns the first form of it
// ("x", "x-2", "x-3", ...) that is neither reserved nor used by another
// row of table. excludeID skips the row being re-slugged (0 for new rows).
// table must be a trusted constant.
func uniqueSlug(ctx context.Context, q querier, table, name string, excludeID int64) (string, error) {
	base := slug.Generate(name)
	if base == "" {
		return "", &models.ValidationError{
			Field:   "name",
			Message: "Name must contain at least one letter or digit.",
		}
	}

	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		if slug.IsReserved(candidate) {
			continue
		}

		var taken bool
		err := q.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE slug = $1 AND id <> $2)`,
			candidate, excludeID,
		).Scan(&taken)
		if err != nil {
			return "", fmt.Errorf("check %s slug: %w", table, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("assign %s slug %q: %w", table, base, ErrDuplicate)
}
