// Package router sets up all HTTP routes and middleware chains for the
// blog. Every request is recovered, logged, measured and gets security
// headers; pages additionally resolve the session identity and carry
// CSRF protection.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"myblog/internal/handlers"
	"myblog/internal/middleware"
	"myblog/web"
)

// Deps holds the collaborators the router wires together.
type Deps struct {
	Sessions      middleware.SessionReader
	Blog          *handlers.Blog
	Auth          *handlers.Auth
	LoginLimiter  *middleware.RateLimiter // optional
	SecureCookies bool
	ImageOrigins  []string // extra img-src origins for the CSP
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders(d.ImageOrigins...))

	// Operational endpoints: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", staticHandler())
	r.Get("/media/*", d.Blog.Media)

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))
		r.Use(middleware.LimitBody(handlers.MaxPostBody))
		r.Use(middleware.CSRF(d.SecureCookies))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/blog/", http.StatusSeeOther)
		})
		r.Get("/about/", d.Blog.About)

		// Auth pages, accessible without a session.
		r.Get("/login", d.Auth.LoginPage)
		if d.LoginLimiter != nil {
			r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.LoginSubmit)
		} else {
			r.Post("/login", d.Auth.LoginSubmit)
		}
		r.Post("/logout", d.Auth.Logout)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", d.Blog.List)
			r.Get("/{pk}/", d.Blog.Detail)
			r.Get("/tag/{slug}/", d.Blog.ByTag)
			r.Get("/category/{slug}/", d.Blog.ByCategory)

			// Update checks the author itself: anonymous visitors are sent
			// to login, other users get 403.
			for _, p := range []string{"/{pk}/update", "/{pk}/update/"} {
				r.Get(p, d.Blog.UpdateForm)
				r.Post(p, d.Blog.Update)
			}
			r.Post("/{pk}/delete/", d.Blog.Delete)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				for _, p := range []string{"/create", "/create/"} {
					r.Get(p, d.Blog.CreateForm)
					r.Post(p, d.Blog.Create)
				}
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// staticHandler serves the embedded web/static tree.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("router: embedded static dir missing: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
