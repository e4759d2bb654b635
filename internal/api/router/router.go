package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pratik-mahalle/trainhub/internal/api/handlers"
	"github.com/pratik-mahalle/trainhub/internal/api/middleware"
	"github.com/pratik-mahalle/trainhub/internal/auth"
	"github.com/pratik-mahalle/trainhub/internal/config"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/metrics"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pratik-mahalle/trainhub/docs"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Access       *handlers.AccessHandler
	Plan         *handlers.PlanHandler
	Organization *handlers.OrganizationHandler
	Account      *handlers.AccountHandler
	Subscription *handlers.SubscriptionHandler
	Sweep        *handlers.SweepHandler
}

// New builds the HTTP API. entitlements backs the training content paywall.
func New(cfg *config.Config, log *logger.Logger, h *Handlers, entitlements entitlement.Service, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.DefaultCORS(cfg.Server.FrontendURL))
	r.Use(limiter.Middleware(middleware.ByIP))
	r.Use(metrics.Middleware)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
	})

	// Protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer))

		r.Get("/access/{trainingID}", h.Access.Check)
		r.With(middleware.RequireTrainingAccess(entitlements, log)).
			Get("/trainings/{id}/content", h.Access.Content)

		r.Route("/me", func(r chi.Router) {
			r.Get("/trainings", h.Access.MyTrainings)
			r.Get("/account", h.Account.Me)
			r.Get("/memberships", h.Account.MyMemberships)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", h.Plan.List)
			r.Get("/{id}", h.Plan.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(auth.RoleAdmin))
				r.Post("/", h.Plan.Create)
				r.Put("/{id}/trainings", h.Plan.SetTrainings)
				r.Delete("/{id}", h.Plan.Deactivate)
			})
		})

		r.Route("/organizations", func(r chi.Router) {
			r.Get("/{id}", h.Organization.Get)
			r.Get("/{id}/members", h.Organization.ListMembers)
			r.Post("/{id}/members", h.Organization.AddMember)
			r.Put("/{id}/members/{userID}", h.Organization.ChangeMemberRole)
			r.Delete("/{id}/members/{userID}", h.Organization.RemoveMember)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(auth.RoleAdmin))
				r.Get("/", h.Organization.Lookup)
				r.Post("/", h.Organization.Create)
				r.Post("/{id}/suspend", h.Organization.Suspend)
				r.Post("/{id}/activate", h.Organization.Activate)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{id}", h.Account.Get)
			r.Get("/{id}/subscriptions", h.Subscription.ListByAccount)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/{id}", h.Subscription.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(auth.RoleAdmin))
				r.Post("/", h.Subscription.Create)
				r.Post("/{id}/cancel", h.Subscription.Cancel)
				r.Post("/{id}/renew", h.Subscription.Renew)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Get("/sweeps", h.Sweep.History)
			r.Post("/sweeps", h.Sweep.Trigger)
		})
	})

	return r
}
