// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"myblog/internal/models"
)

// PostStore manages posts and their tag associations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect hydrates a post with its author name and category. The
// category columns are NULL for uncategorized posts.
const postSelect = `
	SELECT p.id, p.title, p.content, p.head_image, p.created, p.updated_at,
	       p.author_id, p.category_id, u.username,
	       c.id, c.name, c.description, c.slug, c.created_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanPost(scanner rowScanner) (*models.Post, error) {
	var (
		p     models.Post
		catID sql.NullInt64
		name  sql.NullString
		desc  sql.NullString
		slug  sql.NullString
		at    sql.NullTime
	)
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.HeadImage, &p.Created, &p.UpdatedAt,
		&p.AuthorID, &p.CategoryID, &p.AuthorName,
		&catID, &name, &desc, &slug, &at,
	)
	if err != nil {
		return nil, err
	}
	if catID.Valid {
		p.Category = &models.Category{
			ID:          catID.Int64,
			Name:        name.String,
			Description: desc.String,
			Slug:        slug.String,
			CreatedAt:   at.Time,
		}
	}
	return &p, nil
}

// listPosts runs a postSelect query and attaches the tags of every row.
func listPosts(ctx context.Context, q querier, query string, args ...any) ([]models.Post, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	rows.Close()

	if err := loadTags(ctx, q, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadTags fills Post.Tags for all posts with a single query.
func loadTags(ctx context.Context, q querier, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
		posts[i].Tags = []models.Tag{}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug, t.created_at
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.id
	`, ids)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			t      models.Tag
		)
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		i := index[postID]
		posts[i].Tags = append(posts[i].Tags, t)
	}
	return rows.Err()
}

// Create inserts a post authored by authorID. Tag names are resolved with
// get-or-create and linked in the same transaction.
func (s *PostStore) Create(ctx context.Context, authorID int64, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		headImage := ""
		if in.HeadImage != nil {
			headImage = *in.HeadImage
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO posts (title, content, head_image, author_id, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, in.Title, in.Content, headImage, authorID, in.CategoryID).Scan(&id)
		if err != nil {
			return wrapWriteError("create post", err)
		}
		return syncTags(ctx, tx, id, in.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// syncTags makes the post's associations match names exactly: missing
// links are inserted and extra ones deleted.
func syncTags(ctx context.Context, q querier, postID int64, names []string) error {
	want := models.NewTagSet()
	for _, name := range names {
		t, _, err := getOrCreateTag(ctx, q, name)
		if err != nil {
			return err
		}
		want.Add(t.ID)
	}

	have, err := tagSet(ctx, q, postID)
	if err != nil {
		return err
	}

	for _, id := range want.Minus(have) {
		if err := addTag(ctx, q, postID, id); err != nil {
			return err
		}
	}
	for _, id := range have.Minus(want) {
		if _, err := q.ExecContext(ctx,
			`DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, id); err != nil {
			return fmt.Errorf("unlink tag: %w", err)
		}
	}
	return nil
}

func tagSet(ctx context.Context, q querier, postID int64) (models.TagSet, error) {
	rows, err := q.QueryContext(ctx, `SELECT tag_id FROM post_tags WHERE post_id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tag ids: %w", err)
	}
	defer rows.Close()

	set := models.NewTagSet()
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		set.Add(id)
	}
	return set, rows.Err()
}

func addTag(ctx context.Context, q querier, postID, tagID int64) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, postID, tagID)
	if err != nil {
		return wrapWriteError("link tag", err)
	}
	return nil
}

// AddTag links a tag to a post. Linking twice leaves one association.
// Returns ErrNotFound if either row does not exist.
func (s *PostStore) AddTag(ctx context.Context, postID, tagID int64) error {
	return addTag(ctx, s.db, postID, tagID)
}

// RemoveTag unlinks a tag from a post. Removing a missing link is a no-op.
func (s *PostStore) RemoveTag(ctx context.Context, postID, tagID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, tagID)
	if err != nil {
		return fmt.Errorf("remove tag: %w", err)
	}
	return nil
}

// HasTag reports whether the post is linked to the tag.
func (s *PostStore) HasTag(ctx context.Context, postID, tagID int64) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM post_tags WHERE post_id = $1 AND tag_id = $2)`,
		postID, tagID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check post tag: %w", err)
	}
	return ok, nil
}

// Tags returns the set of tag IDs linked to the post.
func (s *PostStore) Tags(ctx context.Context, postID int64) (models.TagSet, error) {
	return tagSet(ctx, s.db, postID)
}

// List returns all posts in insertion order. An empty blog yields an
// empty, non-nil slice.
func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	return listPosts(ctx, s.db, postSelect+` ORDER BY p.id`)
}

// ListByCategory returns the posts of one category in insertion order.
// A nil categoryID selects posts without a category.
func (s *PostStore) ListByCategory(ctx context.Context, categoryID *int64) ([]models.Post, error) {
	if categoryID == nil {
		return listPosts(ctx, s.db, postSelect+` WHERE p.category_id IS NULL ORDER BY p.id`)
	}
	return listPosts(ctx, s.db, postSelect+` WHERE p.category_id = $1 ORDER BY p.id`, *categoryID)
}

// ListByTag returns the posts linked to a tag in insertion order.
func (s *PostStore) ListByTag(ctx context.Context, tagID int64) ([]models.Post, error) {
	return listPosts(ctx, s.db,
		postSelect+` JOIN post_tags pt ON pt.post_id = p.id WHERE pt.tag_id = $1 ORDER BY p.id`,
		tagID)
}

// FindByID retrieves a post with author, category and tags.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	posts := []models.Post{*p}
	if err := loadTags(ctx, s.db, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// lockAuthor locks the post row and checks that actor wrote it.
func lockAuthor(ctx context.Context, tx *sql.Tx, actor models.Identity, id int64) error {
	var authorID int64
	err := tx.QueryRowContext(ctx,
		`SELECT author_id FROM posts WHERE id = $1 FOR UPDATE`, id).Scan(&authorID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock post: %w", err)
	}
	if !actor.Is(authorID) {
		return fmt.Errorf("post %d: %w", id, ErrForbidden)
	}
	return nil
}

// Update replaces the editable fields and tag set of a post. Only the
// author may update; others get ErrForbidden. The creation time is kept.
func (s *PostStore) Update(ctx context.Context, actor models.Identity, id int64, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockAuthor(ctx, tx, actor, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET title = $1, content = $2, category_id = $3,
			    head_image = COALESCE($4, head_image), updated_at = NOW()
			WHERE id = $5
		`, in.Title, in.Content, in.CategoryID, in.HeadImage, id)
		if err != nil {
			return wrapWriteError("update post", err)
		}
		return syncTags(ctx, tx, id, in.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// Delete removes a post and its tag links. Only the author may delete.
func (s *PostStore) Delete(ctx context.Context, actor models.Identity, id int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := lockAuthor(ctx, tx, actor, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// CountUncategorized returns the number of posts without a category.
func (s *PostStore) CountUncategorized(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE category_id IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count uncategorized posts: %w", err)
	}
	return n, nil
}
