// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the blog pages.
// Every page is paired with the base layout, which carries the navbar
// and the category sidebar.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"myblog/internal/markdown"
	"myblog/internal/middleware"
	"myblog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// SiteName is appended to every page title.
const SiteName = "Blog"

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string          // Page title; rendered as "<Title> - Blog"
	Identity  models.Identity // Current caller (anonymous when not logged in)
	CSRFToken string          // CSRF token for forms
	Sidebar   *Sidebar        // Category card; nil hides it
	Data      map[string]any  // Page-specific data
}

// Sidebar is the category card shown next to post lists and details.
type Sidebar struct {
	Categories         []models.Category
	UncategorizedCount int
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates lists templates that render as full HTML pages
// without the base layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New creates a Renderer by parsing all templates from the embedded
// filesystem. imageURL turns a head image storage key into a public URL;
// nil serves keys through /media/.
func New(imageURL func(key string) string) (*Renderer, error) {
	if imageURL == nil {
		imageURL = func(key string) string { return "/media/" + key }
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"markdown":     markdown.Render,
			"imageURL":     imageURL,
			"categoryURL":  models.CategoryURL,
			"categoryName": models.CategoryName,
			"joinTags":     models.JoinTagNames,
			"uncategorizedURL": func() string {
				return models.CategoryURL(nil)
			},
			"date": func(t time.Time) string {
				return t.Format("2006-01-02 15:04")
			},
			"excerpt": excerpt,
			// selectedCategory reports whether a <select> option matches the form value.
			"selectedCategory": func(ptr *int64, id int64) bool {
				return ptr != nil && *ptr == id
			},
		},
	}

	entries, err := fs.ReadDir(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var (
			tmpl     *template.Template
			parseErr error
		)
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(templateFS, "templates/"+name)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, "templates/base.html", "templates/"+name,
			)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full page with the given status code. Identity and CSRF
// token are taken from the request context. The page is buffered so a
// template error still yields a clean 500.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFToken(r.Context())
	data.Identity = middleware.IdentityFromCtx(r.Context())

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the error page with a short message.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, status int) {
	rn.Page(w, r, status, "error", &PageData{
		Title: http.StatusText(status),
		Data: map[string]any{
			"Status":  status,
			"Message": http.StatusText(status),
		},
	})
}

// excerpt shortens text to at most n runes on a word boundary.
func excerpt(n int, s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)[:n]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
