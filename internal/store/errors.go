// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store error constants. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a primary key, slug, or name does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("already exists")
	// ErrForbidden is returned when the acting identity may not change a row.
	ErrForbidden = errors.New("forbidden")
	// ErrMissingReference is returned when a write points at a row that
	// does not exist, such as an unknown category. It matches ErrNotFound.
	ErrMissingReference = fmt.Errorf("referenced row: %w", ErrNotFound)
)

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgCode returns the SQLSTATE of a PostgreSQL error, or "" for other errors.
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// wrapWriteError maps constraint violations to store sentinels and wraps
// everything else with the operation name.
func wrapWriteError(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", op, ErrMissingReference)
	}
	return fmt.Errorf("%s: %w", op, err)
}
