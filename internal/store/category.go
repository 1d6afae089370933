// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"myblog/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, slug, created_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category with a slug derived from its name.
// Returns ErrDuplicate if the name is taken.
func (s *CategoryStore) Create(ctx context.Context, name, description string) (*models.Category, error) {
	in := models.CategoryInput{Name: name, Description: description}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var c *models.Category
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		c, err = createCategory(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func createCategory(ctx context.Context, q querier, in models.CategoryInput) (*models.Category, error) {
	slugValue, err := uniqueSlug(ctx, q, "categories", in.Name, 0)
	if err != nil {
		return nil, err
	}

	c, err := scanCategory(q.QueryRowContext(ctx, `
		INSERT INTO categories (name, description, slug)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		in.Name, in.Description, slugValue,
	))
	if err != nil {
		return nil, wrapWriteError("create category", err)
	}
	return c, nil
}

// GetOrCreate returns the category with the given name, creating it when
// missing. The boolean reports whether a row was inserted. An existing
// category keeps its description.
func (s *CategoryStore) GetOrCreate(ctx context.Context, name, description string) (*models.Category, bool, error) {
	name = strings.TrimSpace(name)
	c, err := s.findByName(ctx, name)
	if err == nil {
		return c, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	c, err = s.Create(ctx, name, description)
	if errors.Is(err, ErrDuplicate) {
		// Lost a race with a concurrent insert of the same name.
		c, err = s.findByName(ctx, name)
		return c, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// AssignSlug re-derives the category slug from its current name and
// persists it. c.Slug is updated in place.
func (s *CategoryStore) AssignSlug(ctx context.Context, c *models.Category) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		slugValue, err := uniqueSlug(ctx, tx, "categories", c.Name, c.ID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE categories SET slug = $1 WHERE id = $2`, slugValue, c.ID)
		if err != nil {
			return wrapWriteError("assign category slug", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("assign category slug: %w", ErrNotFound)
		}
		c.Slug = slugValue
		return nil
	})
}

// List returns all categories in insertion order, with post counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.description, c.slug, c.created_at,
		       COUNT(p.id) AS post_count
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt, &c.PostCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindBySlug retrieves a category by slug. The uncategorized sentinel is
// never stored, so it always yields ErrNotFound here.
func (s *CategoryStore) FindBySlug(ctx context.Context, slugValue string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slugValue))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %q: %w", slugValue, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByID retrieves a category by ID.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) findByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// Delete removes a category. Its posts become uncategorized.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete category %d: %w", id, ErrNotFound)
	}
	return nil
}
