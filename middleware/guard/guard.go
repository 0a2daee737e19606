// Package guard provides the route protection middleware for the web layer:
// Protected keeps anonymous visitors out of member pages, AdminOnly
// additionally requires the admin user type. While the session is still
// resolving persisted credentials neither middleware lets protected content
// through; a loading page renders instead so a stale-token visitor never
// sees a member page flash before the redirect.
package guard

import (
	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-router"
)

// SessionSource resolves the session snapshot for a request.
type SessionSource func(router.Context) campus.State

// Config holds the guard configuration shared by both middlewares.
type Config struct {
	// Session resolves the current session state. Required.
	Session SessionSource
	// Filter skips the guard for matching requests when it returns true.
	Filter func(router.Context) bool
	// LoginPath is the redirect target for anonymous visitors.
	LoginPath string
	// DashboardPath is the redirect target for authenticated non-admins
	// hitting admin routes.
	DashboardPath string
	// LoadingView renders while the session is still bootstrapping.
	LoadingView string
	// NextParam carries the original URL through the login redirect.
	NextParam string
}

func (c Config) withDefaults() Config {
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.DashboardPath == "" {
		c.DashboardPath = "/dashboard"
	}
	if c.LoadingView == "" {
		c.LoadingView = "loading"
	}
	if c.NextParam == "" {
		c.NextParam = "next"
	}
	return c
}

// FromController adapts a session controller into a SessionSource.
func FromController(session *campus.Controller) SessionSource {
	return func(router.Context) campus.State {
		return session.State()
	}
}

// Protected gates a route behind authentication. Anonymous visitors are
// redirected to the login path with the original URL in the next query
// parameter; requests arriving before bootstrap settles get the loading view.
func Protected(cfg Config) router.MiddlewareFunc {
	cfg = cfg.withDefaults()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			state := cfg.Session(ctx)

			if !state.Bootstrapped {
				return ctx.Render(cfg.LoadingView, router.ViewContext{
					"next": ctx.OriginalURL(),
				})
			}

			if !state.IsAuthenticated() {
				return ctx.Redirect(loginTarget(cfg, ctx), 302)
			}

			return next(ctx)
		}
	}
}

// AdminOnly gates a route behind the admin user type. It implies Protected:
// anonymous visitors go to login, authenticated non-admins go to the
// dashboard.
func AdminOnly(cfg Config) router.MiddlewareFunc {
	cfg = cfg.withDefaults()

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return next(ctx)
			}

			state := cfg.Session(ctx)

			if !state.Bootstrapped {
				return ctx.Render(cfg.LoadingView, router.ViewContext{
					"next": ctx.OriginalURL(),
				})
			}

			if !state.IsAuthenticated() {
				return ctx.Redirect(loginTarget(cfg, ctx), 302)
			}

			if state.User == nil || !state.User.IsAdmin() {
				return ctx.Redirect(cfg.DashboardPath, 302)
			}

			return next(ctx)
		}
	}
}

func loginTarget(cfg Config, ctx router.Context) string {
	original := ctx.OriginalURL()
	if original == "" || original == cfg.LoginPath {
		return cfg.LoginPath
	}
	return cfg.LoginPath + "?" + cfg.NextParam + "=" + original
}
