// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the blog.
// Handlers are grouped by concern (blog, auth) and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"myblog/internal/middleware"
	"myblog/internal/models"
	"myblog/internal/render"
	"myblog/internal/store"
)

// PostRepository is the post storage used by the blog views.
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByCategory(ctx context.Context, categoryID *int64) ([]models.Post, error)
	ListByTag(ctx context.Context, tagID int64) ([]models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, authorID int64, in models.PostInput) (*models.Post, error)
	Update(ctx context.Context, actor models.Identity, id int64, in models.PostInput) (*models.Post, error)
	Delete(ctx context.Context, actor models.Identity, id int64) error
	CountUncategorized(ctx context.Context) (int, error)
}

// CategoryRepository is the category storage used by the blog views.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// TagRepository is the tag storage used by the blog views.
type TagRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
}

// ImageStore keeps post head images.
type ImageStore interface {
	SaveHeadImage(ctx context.Context, up models.ImageUpload, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// Blog groups the public blog views and the author's post forms.
type Blog struct {
	renderer   *render.Renderer
	posts      PostRepository
	categories CategoryRepository
	tags       TagRepository
	images     ImageStore
}

// NewBlog creates a new Blog handler group. images may be nil, which
// disables head image uploads.
func NewBlog(renderer *render.Renderer, posts PostRepository, categories CategoryRepository, tags TagRepository, images ImageStore) *Blog {
	return &Blog{
		renderer:   renderer,
		posts:      posts,
		categories: categories,
		tags:       tags,
		images:     images,
	}
}

// --- Lists ---

// List renders every post in insertion order.
func (b *Blog) List(w http.ResponseWriter, r *http.Request) {
	posts, err := b.posts.List(r.Context())
	if err != nil {
		b.fail(w, r, err)
		return
	}
	b.renderList(w, r, "", "", posts)
}

// ByCategory renders the posts of one category. The reserved slug _none
// lists posts without a category.
func (b *Blog) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := urlParam(r, "slug")

	var (
		heading string
		posts   []models.Post
		err     error
	)
	if slugParam == models.UncategorizedSlug {
		heading = models.UncategorizedName
		posts, err = b.posts.ListByCategory(ctx, nil)
	} else {
		var cat *models.Category
		cat, err = b.categories.FindBySlug(ctx, slugParam)
		if err == nil {
			heading = cat.Name
			posts, err = b.posts.ListByCategory(ctx, &cat.ID)
		}
	}
	if err != nil {
		b.fail(w, r, err)
		return
	}

	b.renderList(w, r, heading, fmt.Sprintf("(%d)", len(posts)), posts)
}

// ByTag renders the posts carrying one tag.
func (b *Blog) ByTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tag, err := b.tags.FindBySlug(ctx, urlParam(r, "slug"))
	if err != nil {
		b.fail(w, r, err)
		return
	}
	posts, err := b.posts.ListByTag(ctx, tag.ID)
	if err != nil {
		b.fail(w, r, err)
		return
	}

	b.renderList(w, r, "#"+tag.Name, fmt.Sprintf("(%d)", len(posts)), posts)
}

func (b *Blog) renderList(w http.ResponseWriter, r *http.Request, heading, subheading string, posts []models.Post) {
	sidebar, err := b.sidebar(r.Context())
	if err != nil {
		b.fail(w, r, err)
		return
	}

	b.renderer.Page(w, r, http.StatusOK, "post_list", &render.PageData{
		Title:   heading,
		Sidebar: sidebar,
		Data: map[string]any{
			"Posts":      posts,
			"Heading":    heading,
			"Subheading": subheading,
		},
	})
}

// sidebar loads the category card shown next to lists and details.
func (b *Blog) sidebar(ctx context.Context) (*render.Sidebar, error) {
	cats, err := b.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	n, err := b.posts.CountUncategorized(ctx)
	if err != nil {
		return nil, err
	}
	return &render.Sidebar{Categories: cats, UncategorizedCount: n}, nil
}

// --- Detail ---

// Detail renders a single post. The EDIT link is shown to its author only.
func (b *Blog) Detail(w http.ResponseWriter, r *http.Request) {
	post, ok := b.loadPost(w, r)
	if !ok {
		return
	}
	sidebar, err := b.sidebar(r.Context())
	if err != nil {
		b.fail(w, r, err)
		return
	}

	b.renderer.Page(w, r, http.StatusOK, "post_detail", &render.PageData{
		Title:   post.Title,
		Sidebar: sidebar,
		Data:    map[string]any{"Post": post},
	})
}

// loadPost resolves the {pk} URL parameter. Unknown or malformed ids
// render 404 and return false.
func (b *Blog) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil || id <= 0 {
		b.renderer.Error(w, r, http.StatusNotFound)
		return nil, false
	}
	post, err := b.posts.FindByID(r.Context(), id)
	if err != nil {
		b.fail(w, r, err)
		return nil, false
	}
	return post, true
}

// --- Create ---

// CreateForm renders an empty post form. Routed behind RequireAuth.
func (b *Blog) CreateForm(w http.ResponseWriter, r *http.Request) {
	b.renderForm(w, r, http.StatusOK, nil, models.PostInput{}, "")
}

// Create saves a new post written by the current user and redirects to it.
func (b *Blog) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	who := middleware.IdentityFromCtx(ctx)
	if !who.IsAuthenticated() {
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}

	in, err := b.parsePostForm(w, r, nil)
	if err != nil {
		b.formFailed(w, r, nil, in, err)
		return
	}

	post, err := b.posts.Create(ctx, who.UserID, in)
	if err != nil {
		b.discardUpload(ctx, in.HeadImage)
		b.formFailed(w, r, nil, in, err)
		return
	}

	slog.Info("post created", "post_id", post.ID, "user_id", who.UserID)
	http.Redirect(w, r, post.AbsoluteURL(), http.StatusSeeOther)
}

// --- Update ---

// UpdateForm renders the edit form of a post. Anonymous visitors are sent
// to the login page; users other than the author get 403.
func (b *Blog) UpdateForm(w http.ResponseWriter, r *http.Request) {
	post, ok := b.editablePost(w, r)
	if !ok {
		return
	}
	b.renderForm(w, r, http.StatusOK, post, post.Input(), "")
}

// Update saves the edited post and redirects to its detail page.
func (b *Blog) Update(w http.ResponseWriter, r *http.Request) {
	post, ok := b.editablePost(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	who := middleware.IdentityFromCtx(ctx)

	in, err := b.parsePostForm(w, r, post)
	if err != nil {
		b.formFailed(w, r, post, in, err)
		return
	}

	updated, err := b.posts.Update(ctx, who, post.ID, in)
	if err != nil {
		b.discardUpload(ctx, in.HeadImage)
		if errors.Is(err, store.ErrForbidden) {
			b.renderer.Error(w, r, http.StatusForbidden)
			return
		}
		b.formFailed(w, r, post, in, err)
		return
	}

	// The previous image is unreferenced once replaced or cleared.
	if in.HeadImage != nil && post.HeadImage != "" && post.HeadImage != updated.HeadImage {
		b.discardUpload(ctx, &post.HeadImage)
	}

	slog.Info("post updated", "post_id", post.ID, "user_id", who.UserID)
	http.Redirect(w, r, updated.AbsoluteURL(), http.StatusSeeOther)
}

// editablePost loads the post and checks that the caller may edit it.
func (b *Blog) editablePost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	who := middleware.IdentityFromCtx(r.Context())
	if !who.IsAuthenticated() {
		http.Redirect(w, r, middleware.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
		return nil, false
	}

	post, ok := b.loadPost(w, r)
	if !ok {
		return nil, false
	}
	if !post.CanEdit(who) {
		b.renderer.Error(w, r, http.StatusForbidden)
		return nil, false
	}
	return post, true
}

// --- Delete ---

// Delete removes a post. Only its author may delete it.
func (b *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	post, ok := b.editablePost(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	who := middleware.IdentityFromCtx(ctx)

	if err := b.posts.Delete(ctx, who, post.ID); err != nil {
		b.fail(w, r, err)
		return
	}
	if post.HeadImage != "" {
		b.discardUpload(ctx, &post.HeadImage)
	}

	slog.Info("post deleted", "post_id", post.ID, "user_id", who.UserID)
	http.Redirect(w, r, "/blog/", http.StatusSeeOther)
}

// --- Misc pages ---

// Media redirects a head image key to its public storage URL.
func (b *Blog) Media(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if b.images == nil || !strings.HasPrefix(key, models.HeadImagePrefix+"/") || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, b.images.FileURL(key), http.StatusFound)
}

// About renders the static about page.
func (b *Blog) About(w http.ResponseWriter, r *http.Request) {
	b.renderer.Page(w, r, http.StatusOK, "about", &render.PageData{Title: "About me"})
}

// --- Shared helpers ---

// fail maps store errors to error pages.
func (b *Blog) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		b.renderer.Error(w, r, http.StatusNotFound)
	case errors.Is(err, store.ErrForbidden):
		b.renderer.Error(w, r, http.StatusForbidden)
	default:
		slog.Error("blog request failed", "error", err, "path", r.URL.Path)
		b.renderer.Error(w, r, http.StatusInternalServerError)
	}
}

// discardUpload removes a stored head image. Failures only leave an
// orphaned object behind, so they are logged and ignored.
func (b *Blog) discardUpload(ctx context.Context, key *string) {
	if b.images == nil || key == nil || *key == "" {
		return
	}
	if err := b.images.Delete(ctx, *key); err != nil {
		slog.Warn("head image cleanup failed", "error", err, "key", *key)
	}
}

// urlParam returns an unescaped chi URL parameter. Slugs may contain
// non-ASCII letters that arrive percent-encoded.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
