// Package router sets up all HTTP routes and middleware chains for
// TreePress. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"treepress/internal/handlers"
	"treepress/internal/middleware"
	"treepress/internal/session"
	"treepress/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public, secureCookies bool) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Embedded static assets for the admin UI.
	if staticRoot, err := fs.Sub(web.StaticFS, "static"); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))))
	}

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF(secureCookies))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.With(loginLimiter.Middleware).Post("/login", auth.LoginSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.With(loginLimiter.Middleware).Post("/2fa/setup", auth.TwoFASubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(loginLimiter.Middleware).Post("/2fa/verify", auth.TwoFASubmit)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", admin.Dashboard)

			// Articles: table, tree, CRUD.
			r.Route("/articles", func(r chi.Router) {
				r.Get("/", admin.ArticlesList)
				r.Get("/new", admin.ArticleNew)
				r.Post("/new", admin.ArticleCreate)

				r.Route("/tree", func(r chi.Router) {
					r.Get("/", admin.TreeView)
					r.Post("/toggle", admin.TreeToggle)
					r.Post("/expand-all", admin.TreeExpandAll)
					r.Post("/collapse-all", admin.TreeCollapseAll)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/edit", admin.ArticleEdit)
					r.Post("/edit", admin.ArticleUpdate)
					r.Post("/delete", admin.ArticleDelete)
					r.Post("/status", admin.ArticleStatus)
				})
			})

			// Media library.
			r.Route("/media", func(r chi.Router) {
				r.Get("/", admin.MediaList)
				r.Post("/upload", admin.MediaUpload)
				r.Post("/{id}/alt", admin.MediaUpdateAlt)
				r.Post("/{id}/delete", admin.MediaDelete)
			})

			// User management — admin only.
			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.UsersList)
				r.Get("/new", admin.UserNew)
				r.Post("/new", admin.UserCreate)
				r.Post("/{id}/delete", admin.UserDelete)
				r.Post("/{id}/reset-2fa", admin.UserReset2FA)
			})
		})
	})

	// Public routes.
	r.Get("/", public.Homepage)
	r.Get("/category/{name}", public.Category)
	r.Get("/{slug}", public.Article)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
