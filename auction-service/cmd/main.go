/**
 * @description
 * This is the main entry point for the auction-service: the write path of the
 * marketplace. It wires the relational store (members, auctions, bids), the
 * domain event log (MongoDB), and the message producer (RabbitMQ) behind a REST
 * surface, and implements graceful shutdown.
 *
 * Key features:
 * - Loads application configuration from environment variables.
 * - Establishes the PostgreSQL pool, the Mongo client, and the producer; a
 *   broker connection failure at startup is fatal (the supervisor restarts
 *   the process).
 * - Serves the write-path routes and a health endpoint via chi.
 *
 * @dependencies
 * - The service's internal packages for config, API handling, app logic, and storage.
 * - pgxpool, mongo-driver, rabbitmq, godotenv, zap.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/api"
	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/app"
	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/config"
	"github.com/PetterZiden/Auctioneer-sub001/auction-service/internal/store"
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

	// Relational store for members, auctions, and bids.
	dbpool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zlog.Fatalw("unable to connect to database", "error", err)
	}
	defer dbpool.Close()
	zlog.Infow("database connection established")

	// Document store for the domain event log.
	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zlog.Fatalw("unable to connect to mongo", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancelPing()
		zlog.Fatalw("unable to ping mongo", "error", err)
	}
	cancelPing()
	zlog.Infow("event store connection established")

	// The producer owns its own broker connection; the consumer process holds a
	// separate one.
	producer, err := rabbitmq.NewProducer(cfg.RabbitMQURL, contracts.Exchange, zlog)
	if err != nil {
		zlog.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer producer.Close()
	zlog.Infow("RabbitMQ producer connected")

	memberRepo := store.NewPostgresMemberRepository(dbpool)
	auctionRepo := store.NewPostgresAuctionRepository(dbpool)
	eventStore := store.NewEventStore(mongoClient.Database(cfg.MongoDatabase))

	service := app.NewService(memberRepo, auctionRepo, eventStore, producer, cfg.PublicBaseURL, zlog)
	router := api.NewRouter(api.NewHandlers(service))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		zlog.Infow("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatalw("could not start server", "error", err)
		}
	}()

	// Graceful shutdown logic.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zlog.Fatalw("server shutdown failed", "error", err)
	}
	zlog.Infow("server gracefully stopped")
}
