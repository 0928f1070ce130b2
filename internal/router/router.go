package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/skyfare/flight-inventory/internal/config"
	"github.com/skyfare/flight-inventory/internal/handler"
	"github.com/skyfare/flight-inventory/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the token endpoint and every protected inventory
// and reservation route.  The token exchange lives under /v1/auth and is
// open; everything else requires a valid service token and, when Redis is
// available, passes through the token-bucket rate limiter.
func RegisterAPI(e *echo.Echo, cfg *config.Config, rdb *redis.Client,
	auth *handler.TokenHandler, inv *handler.InventoryHandler, res *handler.ReservationHandler) {

	// Unauthenticated credential exchange.  Booking frontends call this
	// once per token lifetime and cache the result.
	g := e.Group("/v1/auth")
	g.POST("/token", auth.Token)

	// Everything below requires a valid access token.  The JWTAuth
	// middleware verifies the signature and stores the token subject on
	// the context so handlers can attribute audit rows.
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(cfg.JWTSecret))
	if rdb != nil {
		rl := config.LoadRateLimitConfig()
		if rl.Enabled {
			api.Use(middleware.NewTokenBucket(rl, rdb))
		}
	}

	// Inventory reads and capacity management per flight-date.
	api.GET("/flights/:id/inventory/:date", inv.GetInventory)
	api.PUT("/flights/:id/inventory/:date", inv.UpsertInventory)
	api.PUT("/flights/:id/inventory/:date/status", inv.UpdateStatus)
	api.GET("/flights/:id/inventory/:date/audit", inv.ListAuditByInventory)
	api.POST("/inventory/batch", inv.BatchUpsert)

	// Reservation workflow.
	api.POST("/flights/:id/inventory/:date/reserve", res.Reserve)
	api.GET("/holds/:holdId", res.GetHold)
	api.POST("/holds/:holdId/confirm", res.Confirm)
	api.POST("/holds/:holdId/release", res.Release)

	// Expiry maintenance.  The background sweeper covers the steady
	// state; these endpoints let operators inspect and force a pass.
	api.GET("/holds/expired", res.ListExpired)
	api.POST("/holds/sweep", res.Sweep)

	// Cross-inventory audit queries.
	api.GET("/audit", inv.ListAudit)
}
