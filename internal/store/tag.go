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

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, created_at`

func scanTag(scanner rowScanner) (*models.Tag, error) {
	var t models.Tag
	if err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOrCreate returns the tag with the given name, creating it with a
// derived slug when missing. The boolean reports whether a row was inserted.
func (s *TagStore) GetOrCreate(ctx context.Context, name string) (*models.Tag, bool, error) {
	var (
		t       *models.Tag
		created bool
	)
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		t, created, err = getOrCreateTag(ctx, tx, name)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return t, created, nil
}

// getOrCreateTag resolves one tag name inside q. Concurrent inserts of the
// same name are absorbed by ON CONFLICT and the row is re-read.
func getOrCreateTag(ctx context.Context, q querier, name string) (*models.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if err := models.ValidateTagName(name); err != nil {
		return nil, false, err
	}

	t, err := scanTag(q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = $1`, name))
	if err == nil {
		return t, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("find tag by name: %w", err)
	}

	slugValue, err := uniqueSlug(ctx, q, "tags", name, 0)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			verr.Field = "tags"
			verr.Message = fmt.Sprintf("Tag %q must contain at least one letter or digit.", name)
		}
		return nil, false, err
	}

	t, err = scanTag(q.QueryRowContext(ctx, `
		INSERT INTO tags (name, slug) VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING `+tagColumns,
		name, slugValue,
	))
	if err == nil {
		return t, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, wrapWriteError("create tag", err)
	}

	t, err = scanTag(q.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = $1`, name))
	if err != nil {
		return nil, false, fmt.Errorf("reload tag %q: %w", name, err)
	}
	return t, false, nil
}

// AssignSlug re-derives the tag slug from its current name and persists it.
func (s *TagStore) AssignSlug(ctx context.Context, t *models.Tag) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		slugValue, err := uniqueSlug(ctx, tx, "tags", t.Name, t.ID)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE tags SET slug = $1 WHERE id = $2`, slugValue, t.ID)
		if err != nil {
			return wrapWriteError("assign tag slug", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("assign tag slug: %w", ErrNotFound)
		}
		t.Slug = slugValue
		return nil
	})
}

// FindBySlug retrieves a tag by slug.
func (s *TagStore) FindBySlug(ctx context.Context, slugValue string) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE slug = $1`, slugValue))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tag %q: %w", slugValue, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// List returns all tags in insertion order.
func (s *TagStore) List(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var items []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Posts returns the posts linked to a tag, oldest first. The first and
// last post are the ends of the slice.
func (s *TagStore) Posts(ctx context.Context, tagID int64) ([]models.Post, error) {
	return listPosts(ctx, s.db,
		postSelect+` WHERE p.id IN (SELECT post_id FROM post_tags WHERE tag_id = $1) ORDER BY p.id`,
		tagID)
}
