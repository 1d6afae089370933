// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory repositories that follow the store's semantics and request
// helpers for chi URL params and identities.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"myblog/internal/middleware"
	"myblog/internal/models"
	"myblog/internal/render"
	"myblog/internal/slug"
	"myblog/internal/storage"
	"myblog/internal/store"
)

var (
	smith   = models.Identity{UserID: 1, Username: "smith"}
	nosaram = models.Identity{UserID: 2, Username: "nosaram"}
)

// --- fake repositories ---

type fakeCategories struct {
	items []models.Category
}

func (f *fakeCategories) add(name string) *models.Category {
	c := models.Category{ID: int64(len(f.items) + 1), Name: name, Slug: slug.Generate(name)}
	f.items = append(f.items, c)
	return &f.items[len(f.items)-1]
}

func (f *fakeCategories) byID(id int64) *models.Category {
	for i := range f.items {
		if f.items[i].ID == id {
			c := f.items[i]
			return &c
		}
	}
	return nil
}

func (f *fakeCategories) List(_ context.Context) ([]models.Category, error) {
	return append([]models.Category{}, f.items...), nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, s string) (*models.Category, error) {
	for _, c := range f.items {
		if c.Slug == s {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", s, store.ErrNotFound)
}

type fakeTags struct {
	items []models.Tag
}

func (f *fakeTags) getOrCreate(name string) models.Tag {
	for _, t := range f.items {
		if t.Name == name {
			return t
		}
	}
	t := models.Tag{ID: int64(len(f.items) + 1), Name: name, Slug: slug.Generate(name)}
	f.items = append(f.items, t)
	return t
}

func (f *fakeTags) FindBySlug(_ context.Context, s string) (*models.Tag, error) {
	for _, t := range f.items {
		if t.Slug == s {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("tag %q: %w", s, store.ErrNotFound)
}

// fakePosts keeps posts in memory and applies the same authorization and
// reference rules as store.PostStore.
type fakePosts struct {
	cats   *fakeCategories
	tags   *fakeTags
	items  map[int64]*models.Post
	nextID int64

	// beforeUpdate runs at the start of Update, after the handler loaded the post.
	beforeUpdate func(id int64)
}

func (f *fakePosts) hydrate(p *models.Post, in models.PostInput) {
	p.Title, p.Content, p.CategoryID = in.Title, in.Content, in.CategoryID
	p.Category = nil
	if in.CategoryID != nil {
		p.Category = f.cats.byID(*in.CategoryID)
	}
	p.Tags = []models.Tag{}
	for _, name := range in.Tags {
		p.Tags = append(p.Tags, f.tags.getOrCreate(name))
	}
	if in.HeadImage != nil {
		p.HeadImage = *in.HeadImage
	}
}

func (f *fakePosts) checkCategory(in models.PostInput) error {
	if in.CategoryID != nil && f.cats.byID(*in.CategoryID) == nil {
		return fmt.Errorf("create post: %w", store.ErrMissingReference)
	}
	return nil
}

func (f *fakePosts) list(keep func(*models.Post) bool) []models.Post {
	out := []models.Post{}
	for _, p := range f.items {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePosts) List(_ context.Context) ([]models.Post, error) {
	return f.list(func(*models.Post) bool { return true }), nil
}

func (f *fakePosts) ListByCategory(_ context.Context, categoryID *int64) ([]models.Post, error) {
	return f.list(func(p *models.Post) bool {
		if categoryID == nil {
			return p.CategoryID == nil
		}
		return p.CategoryID != nil && *p.CategoryID == *categoryID
	}), nil
}

func (f *fakePosts) ListByTag(_ context.Context, tagID int64) ([]models.Post, error) {
	return f.list(func(p *models.Post) bool { return p.HasTag(tagID) }), nil
}

func (f *fakePosts) FindByID(_ context.Context, id int64) (*models.Post, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Create(ctx context.Context, authorID int64, in models.PostInput) (*models.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := f.checkCategory(in); err != nil {
		return nil, err
	}
	f.nextID++
	p := &models.Post{
		ID:         f.nextID,
		AuthorID:   authorID,
		AuthorName: map[int64]string{smith.UserID: smith.Username, nosaram.UserID: nosaram.Username}[authorID],
		Created:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(f.nextID) * time.Minute),
	}
	f.hydrate(p, in)
	p.UpdatedAt = p.Created
	f.items[p.ID] = p
	return f.FindByID(ctx, p.ID)
}

func (f *fakePosts) Update(ctx context.Context, actor models.Identity, id int64, in models.PostInput) (*models.Post, error) {
	if f.beforeUpdate != nil {
		f.beforeUpdate(id)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	if !actor.Is(p.AuthorID) {
		return nil, fmt.Errorf("post %d: %w", id, store.ErrForbidden)
	}
	if err := f.checkCategory(in); err != nil {
		return nil, err
	}
	f.hydrate(p, in)
	p.UpdatedAt = p.UpdatedAt.Add(time.Hour)
	return f.FindByID(ctx, id)
}

func (f *fakePosts) Delete(_ context.Context, actor models.Identity, id int64) error {
	p, ok := f.items[id]
	if !ok {
		return fmt.Errorf("post %d: %w", id, store.ErrNotFound)
	}
	if !actor.Is(p.AuthorID) {
		return fmt.Errorf("post %d: %w", id, store.ErrForbidden)
	}
	delete(f.items, id)
	return nil
}

func (f *fakePosts) CountUncategorized(ctx context.Context) (int, error) {
	posts, _ := f.ListByCategory(ctx, nil)
	return len(posts), nil
}

// mustCreate adds a post through the fake store.
func (f *fakePosts) mustCreate(t *testing.T, author models.Identity, in models.PostInput) *models.Post {
	t.Helper()
	p, err := f.Create(context.Background(), author.UserID, in)
	if err != nil {
		t.Fatalf("create post %q: %v", in.Title, err)
	}
	return p
}

type fakeImages struct {
	saved   []string
	deleted []string
}

func (f *fakeImages) SaveHeadImage(_ context.Context, up models.ImageUpload, body io.Reader) (string, error) {
	if !up.IsImage() {
		return "", storage.ErrNotImage
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	key := fmt.Sprintf("blog/2026/05/01/upload-%d%s", len(f.saved)+1, up.Ext())
	f.saved = append(f.saved, key)
	return key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeImages) FileURL(key string) string {
	return "https://cdn.example.com/" + key
}

// --- test environment ---

type testEnv struct {
	Blog       *Blog
	Posts      *fakePosts
	Categories *fakeCategories
	Tags       *fakeTags
	Images     *fakeImages
	Renderer   *render.Renderer
}

// newTestEnv wires a Blog handler group over in-memory repositories.
// withImages enables head image uploads.
func newTestEnv(t *testing.T, withImages bool) *testEnv {
	t.Helper()

	renderer, err := render.New(nil)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	cats := &fakeCategories{}
	tags := &fakeTags{}
	posts := &fakePosts{cats: cats, tags: tags, items: make(map[int64]*models.Post)}

	env := &testEnv{Posts: posts, Categories: cats, Tags: tags, Renderer: renderer}
	var images ImageStore
	if withImages {
		env.Images = &fakeImages{}
		images = env.Images
	}
	env.Blog = NewBlog(renderer, posts, cats, tags, images)
	return env
}

// --- request helpers ---

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// as attaches an identity to the request, as LoadSession would.
func as(r *http.Request, who models.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), who))
}

// postForm builds a urlencoded POST request.
func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// mainDiv returns the markup of the main column, excluding the sidebar.
func mainDiv(body string) string {
	start := strings.Index(body, `id="main-div"`)
	if start < 0 {
		return ""
	}
	rest := body[start:]
	if end := strings.Index(rest, `id="category-card"`); end >= 0 {
		return rest[:end]
	}
	return rest
}
