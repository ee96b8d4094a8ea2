/**
 * @description
 * This is the main entry point for the email-service: the worker that turns
 * auction messages into outbound emails. It builds the SES delivery adapter and
 * the template set, registers one handler per message kind, validates the
 * dispatch table, and binds the consumer queues. A broker connection failure,
 * at startup or mid-run, is fatal; the process supervisor restarts the service.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Validates the handler registry before any queue is bound, so a missing or
 *   unknown message kind never becomes a runtime error.
 * - Serves a health endpoint while the consumer runs in the background.
 * - Graceful shutdown: stops message pickup, lets in-flight handlers finish
 *   within the consumer's grace period, then closes the connection.
 *
 * @dependencies
 * - The service's internal packages for config, app logic, and email delivery.
 * - The shared contracts, logger, and rabbitmq packages.
 */
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/PetterZiden/Auctioneer-sub001/email-service/internal/app"
	"github.com/PetterZiden/Auctioneer-sub001/email-service/internal/config"
	"github.com/PetterZiden/Auctioneer-sub001/email-service/internal/email"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/contracts"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/logger"
	"github.com/PetterZiden/Auctioneer-sub001/pkg/rabbitmq"
)

func main() {
	// Load .env file for local development.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	zlog := logger.New(cfg.LogLevel)
	defer zlog.Sync()

	sender, err := email.NewSESSender(context.Background(),
		cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey,
		cfg.SenderEmail, cfg.SenderName)
	if err != nil {
		zlog.Fatalw("failed to build SES sender", "error", err)
	}

	templates, err := email.NewTemplateSet()
	if err != nil {
		zlog.Fatalw("failed to parse email templates", "error", err)
	}

	handlers := app.NewHandlers(sender, templates, zlog)
	registry, err := handlers.NewRegistry()
	if err != nil {
		// A dispatch hole is a configuration error; never start consuming.
		zlog.Fatalw("invalid handler registry", "error", err)
	}

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, contracts.Exchange, zlog)
	if err != nil {
		zlog.Fatalw("failed to connect to RabbitMQ", "error", err)
	}

	if err := registry.Bind(consumer); err != nil {
		zlog.Fatalw("failed to bind consumer queues", "error", err)
	}
	zlog.Infow("email worker consuming", "kinds", len(contracts.Kinds()))

	// Health endpoint for platform liveness checks.
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Email service is healthy"))
	})
	server := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}

	go func() {
		zlog.Infow("health server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("could not start health server", "error", err)
		}
	}()

	// Graceful shutdown on a signal; a lost broker connection is fatal so the
	// supervisor restarts the worker instead of it idling with zero consumption.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		zlog.Infow("shutting down email worker")
	case err := <-consumer.Closed():
		zlog.Fatalw("broker connection lost", "error", err)
	}

	consumer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatalw("health server shutdown failed", "error", err)
	}
	zlog.Infow("email worker stopped")
}
