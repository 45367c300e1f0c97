package router // package router assembles the HTTP pipeline and registers routes

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/trip-ticket-log/internal/config"
	"github.com/iliyamo/trip-ticket-log/internal/handler"
	"github.com/iliyamo/trip-ticket-log/internal/middleware"
	"github.com/iliyamo/trip-ticket-log/internal/static"
	"github.com/iliyamo/trip-ticket-log/internal/validation"
)

// APIPrefix is the mount point of the ticket API.  The static fallback
// never answers below it.
const APIPrefix = "/api"

// Deps are the collaborators New wires together.  Redis and Events may be
// nil.
type Deps struct {
	Config config.Config
	Log    *logrus.Logger
	Store  handler.TicketStore
	Redis  *redis.Client
	Events handler.EventPublisher
	// RateStore overrides the store chosen from Redis.
	RateStore middleware.WindowStore
}

// Server is the API echo instance plus the background work its handlers
// start.
type Server struct {
	*echo.Echo
	tickets *handler.TicketHandler
}

// Drain waits for in-flight ticket events until ctx is done.  Call it after
// Shutdown so no new events can start.
func (s *Server) Drain(ctx context.Context) error {
	return s.tickets.Wait(ctx)
}

// New builds the API server.  Global middleware runs in this order:
// request id, metrics, security headers, CORS, access log, panic recovery,
// body limit and the static bundle.  The ticket routes add rate limiting,
// the optional supervisor gate and the response cache.
func New(d Deps) *Server {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(cfg, d.Log)
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsProduction(), d.Log)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Metrics())
	e.Use(echomw.Secure())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
	}))
	e.Use(middleware.AccessLog(d.Log))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	if static.Available(cfg.StaticDir) {
		e.Use(static.SPA(cfg.StaticDir, APIPrefix))
	} else {
		d.Log.WithField("dir", cfg.StaticDir).Warn("frontend bundle not found; static fallback disabled")
	}

	RegisterRoutes(e)

	rateStore := d.RateStore
	if rateStore == nil {
		rateStore = middleware.NewWindowStore(d.Redis)
	}
	h := handler.NewTicketHandler(d.Store, validation.New(cfg.PhoneRegion), d.Events, d.Log)
	RegisterTickets(e, h, TicketOptions{
		RateLimit:  middleware.RateLimit(cfg.RateLimit, rateStore, d.Log),
		Cache:      middleware.NewResponseCache(cfg.Cache, d.Redis, d.Log),
		AuthSecret: cfg.AuthSecret,
	})
	return &Server{Echo: e, tickets: h}
}

// ipExtractor picks the client address used for rate limiting and logs.
// Forwarding headers are honoured only when the peer is a configured proxy.
func ipExtractor(cfg config.Config, log *logrus.Logger) echo.IPExtractor {
	nets, err := cfg.TrustedProxyNets()
	if err != nil {
		log.WithError(err).Warn("ignoring trusted proxies")
		nets = nil
	}
	if len(nets) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range nets {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// RegisterRoutes registers the unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
