package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"myblog/internal/middleware"
	"myblog/internal/models"
	"myblog/internal/render"
	"myblog/internal/session"
)

// defaultNext is where a login lands without a usable next parameter.
const defaultNext = "/blog/"

// UserAuthenticator looks up users and verifies their passwords.
type UserAuthenticator interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	CheckPassword(user *models.User, password string) bool
}

// SessionManager starts and ends browser sessions.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions SessionManager
	users    UserAuthenticator
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions SessionManager, users UserAuthenticator) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))

	// Already logged in, nothing to do.
	if middleware.IdentityFromCtx(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	a.renderLogin(w, r, http.StatusOK, next, "", "")
}

// LoginSubmit processes the login form.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	user, err := a.users.FindByUsername(r.Context(), username)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.renderLogin(w, r, http.StatusInternalServerError, next, username, "An unexpected error occurred.")
		return
	}

	if user == nil || !a.users.CheckPassword(user, password) {
		a.renderLogin(w, r, http.StatusUnauthorized, next, username, "Invalid username or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout destroys the session and redirects to the blog.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, defaultNext, http.StatusSeeOther)
}

func (a *Auth) renderLogin(w http.ResponseWriter, r *http.Request, status int, next, username, errMsg string) {
	data := map[string]any{
		"Next":     next,
		"Username": username,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, status, "login", &render.PageData{
		Title: "Log in",
		Data:  data,
	})
}

// safeNext returns next if it is a local absolute path, and the blog
// index otherwise, so the login form cannot redirect off-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return defaultNext
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return defaultNext
	}
	return next
}
