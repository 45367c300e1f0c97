package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/trip-ticket-log/internal/handler"
	"github.com/iliyamo/trip-ticket-log/internal/middleware"
)

// TicketOptions carries the per-route middleware of the ticket API.
type TicketOptions struct {
	RateLimit  echo.MiddlewareFunc
	Cache      *middleware.ResponseCache
	AuthSecret string // empty leaves delete and export open
}

// RegisterTickets mounts the ticket endpoints under /api/tickets.  Every
// path below /api, matched or not, passes the rate limiter.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, opt TicketOptions) {
	api := e.Group(APIPrefix, opt.RateLimit)
	g := api.Group("/tickets")

	var gate []echo.MiddlewareFunc
	if opt.AuthSecret != "" {
		gate = []echo.MiddlewareFunc{
			middleware.JWTAuth(opt.AuthSecret),
			middleware.RequireRole(middleware.RoleSupervisor),
		}
	}

	g.POST("", h.Create, opt.Cache.Invalidate())
	g.GET("", h.List, opt.Cache.Read())
	g.GET("/export", h.Export, append(gate, opt.Cache.Read())...)
	g.DELETE("/:id", h.Delete, append(gate, opt.Cache.Invalidate())...)
}
