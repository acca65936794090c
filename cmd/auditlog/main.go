// Command auditlog consumes entity.changed events and appends them to
// logs/entity-audit.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/movie-news/internal/logger"
	"github.com/iliyamo/movie-news/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("movie-news-auditlog", os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	dir := os.Getenv("AUDIT_LOG_DIR")
	if dir == "" {
		dir = "logs"
	}
	c := &queue.AuditConsumer{URL: url, Dir: dir, Log: log.With().Str("component", "audit-consumer").Logger()}
	log.Info().Str("dir", dir).Msg("audit consumer starting")
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("audit consumer stopped")
	}
	log.Info().Msg("audit consumer stopped")
}
