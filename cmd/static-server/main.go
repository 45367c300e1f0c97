// Command static-server serves the frontend bundle on its own port for
// deployments that split the API and the frontend.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/trip-ticket-log/internal/config"
	"github.com/iliyamo/trip-ticket-log/internal/handler"
	"github.com/iliyamo/trip-ticket-log/internal/middleware"
	"github.com/iliyamo/trip-ticket-log/internal/static"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg.LogLevel)
	if !static.Available(cfg.StaticDir) {
		logger.WithField("dir", cfg.StaticDir).Fatal("frontend bundle not found")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(cfg.IsProduction(), logger)
	e.Use(echomw.Secure())
	e.Use(middleware.AccessLog(logger))
	e.Use(echomw.Recover())
	e.GET("/health", handler.Health)
	e.Use(static.SPA(cfg.StaticDir))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		addr := ":" + cfg.StaticPort
		logger.WithField("addr", addr).Info("serving frontend")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("static server failed")
		}
	}()

	<-ctx.Done()
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		logger.WithError(err).Warn("shutdown")
	}
}
