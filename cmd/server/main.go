package main // Entry point of the ticket API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/trip-ticket-log/internal/config"
	"github.com/iliyamo/trip-ticket-log/internal/database"
	"github.com/iliyamo/trip-ticket-log/internal/handler"
	"github.com/iliyamo/trip-ticket-log/internal/queue"
	"github.com/iliyamo/trip-ticket-log/internal/repository"
	"github.com/iliyamo/trip-ticket-log/internal/router"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	db, err := database.Open(cfg.DB, logger)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.WithError(err).Fatal("database migration failed")
		}
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil && cfg.Redis.Addr != "" {
		logger.WithField("addr", cfg.Redis.Addr).Warn("redis unreachable; using in-process rate limiting without cache")
	}

	var events handler.EventPublisher
	if cfg.AMQPURL != "" {
		events = queue.NewPublisher(cfg.AMQPURL)
	}

	srv := router.New(router.Deps{
		Config: cfg,
		Log:    logger,
		Store:  repository.NewTicketRepo(db),
		Redis:  rdb,
		Events: events,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := srv.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(sctx)
		if derr := srv.Drain(sctx); derr != nil {
			logger.WithError(derr).Warn("ticket events still pending at shutdown")
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
	}

	if err := database.Close(db); err != nil {
		logger.WithError(err).Warn("closing database pool")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("stopped")
}
