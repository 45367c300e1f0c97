// Command audit-consumer appends every ticket lifecycle event published by
// the API as one line to an audit file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/iliyamo/trip-ticket-log/internal/config"
	"github.com/iliyamo/trip-ticket-log/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	flagSet := pflag.NewFlagSet("audit-consumer", pflag.ContinueOnError)
	url := flagSet.String("amqp-url", cfg.AMQPURL, "RabbitMQ URL (default from AMQP_URL)")
	out := flagSet.StringP("out", "o", "logs/tickets.log", "audit log file")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	logger := config.NewLogger(cfg.LogLevel)
	if *url == "" {
		logger.Fatal("no broker configured: set AMQP_URL or --amqp-url")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &queue.Consumer{URL: *url, LogPath: *out, Log: logger}
	logger.WithField("file", *out).Info("audit-consumer started")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("audit-consumer stopped")
	}
}
