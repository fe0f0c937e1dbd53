package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/fanfund/internal/api/http/handlers"
	"github.com/spec-kit/fanfund/internal/auth"
	"github.com/spec-kit/fanfund/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	UserAuth      *handlers.AuthHandler
	AdminAuth     *handlers.AuthHandler
	Catalog       *handlers.CatalogHandler
	Funding       *handlers.FundingHandler
	Subscriptions *handlers.SubscriptionHandler
	Admin         *handlers.AdminHandler

	UserMiddleware  *auth.AuthMiddleware
	AdminMiddleware *auth.AuthMiddleware
	LoginLimiter    *RateLimiter
	Gatherer        prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	throttle := func(c *fiber.Ctx) error { return c.Next() }
	if cfg.LoginLimiter != nil {
		throttle = cfg.LoginLimiter.Handler()
	}

	// user space
	app.Post("/register", throttle, cfg.UserAuth.Register)
	app.Post("/login", throttle, cfg.UserAuth.Login)
	app.Get("/artists", cfg.Catalog.ListArtists)
	app.Get("/artists/:id", cfg.Catalog.GetArtist)
	app.Get("/artists/:id/tiers", cfg.Catalog.ListTiers)

	user := cfg.UserMiddleware.Handle
	app.Get("/me", user, cfg.UserAuth.Me)
	app.Post("/logout", user, cfg.UserAuth.Logout)
	app.Get("/portfolio", user, cfg.Funding.Portfolio)
	app.Post("/subscriptions/checkout", user, cfg.Subscriptions.Checkout)
	app.Post("/subscriptions/confirm", user, cfg.Subscriptions.Confirm)

	artistOnly := auth.RequireRole(domain.AccountRoleArtist)
	app.Post("/projects", user, artistOnly, cfg.Funding.CreateProject)
	app.Post("/projects/:id/unlock-requests", user, artistOnly, cfg.Funding.RequestUnlock)
	app.Post("/tiers", user, artistOnly, cfg.Catalog.CreateTier)
	app.Post("/projects/:id/investments", user,
		auth.RequireRole(domain.AccountRoleInvestor, domain.AccountRoleLabel), cfg.Funding.Invest)

	// admin space
	admin := app.Group("/admin")
	admin.Post("/login", throttle, cfg.AdminAuth.Login)

	protected := admin.Group("", cfg.AdminMiddleware.Handle, auth.RequireAdmin())
	protected.Get("/me", cfg.AdminAuth.Me)
	protected.Post("/logout", cfg.AdminAuth.Logout)
	protected.Get("/projects", cfg.Admin.ListProjects)
	protected.Post("/projects/:id/review", cfg.Admin.ReviewProject)
	protected.Get("/unlock-requests", cfg.Admin.ListUnlockRequests)
	protected.Post("/unlock-requests/:id/review", cfg.Admin.ReviewUnlock)
}
