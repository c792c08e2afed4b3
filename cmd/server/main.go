package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/finlens/finlens-backend/internal/adapter/event"
	"github.com/finlens/finlens-backend/internal/adapter/httpapi"
	"github.com/finlens/finlens-backend/internal/adapter/repository/postgres"
	"github.com/finlens/finlens-backend/internal/config"
	"github.com/finlens/finlens-backend/internal/domain"
	applog "github.com/finlens/finlens-backend/internal/log"
	"github.com/finlens/finlens-backend/internal/usecase/aggregator"
	"github.com/finlens/finlens-backend/internal/usecase/forecast"
	"github.com/finlens/finlens-backend/internal/usecase/mapper"
	"github.com/finlens/finlens-backend/internal/usecase/seeder"
)

func main() {
	// 1. Configuration: optional .env, then environment
	_ = godotenv.Load()
	cfg := config.Load()

	logger := applog.New(applog.ParseLevel(cfg.LogLevel), "server")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Database: migrate, then connect the main pool
	if err := postgres.RunMigrations(cfg.ConnectionString()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewDB(cfg.ConnectionString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3. Repositories
	companyRepo := postgres.NewCompanyRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	aggregateRepo := postgres.NewAggregateRepository(db)
	projectionRepo := postgres.NewProjectionRepository(db)

	// 4. Seed the default catalog, then load the snapshot once
	ctx := context.Background()
	if err := seeder.NewCatalogSeeder(categoryRepo).Seed(ctx); err != nil {
		logger.Error("failed to seed category catalog", "error", err)
		os.Exit(1)
	}

	categories, err := categoryRepo.List(ctx)
	if err != nil {
		logger.Error("failed to load category catalog", "error", err)
		os.Exit(1)
	}
	catalog := domain.NewCategoryCatalog(categories)
	logger.Info("category catalog loaded", "categories", catalog.Len())

	// 5. Optional event publisher
	var publisher *event.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = event.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		logger.Info("event publisher connected", "exchange", cfg.AMQPExchange)
	}

	// A nil *Publisher must stay a nil interface inside the services.
	var statementEvents aggregator.EventPublisher
	var projectionEvents forecast.EventPublisher
	if publisher != nil {
		statementEvents = publisher
		projectionEvents = publisher
	}

	// 6. Services
	mapperService := mapper.NewService(companyRepo, accountRepo, categoryRepo, catalog, logger.WithComponent("mapper"))
	aggregatorService := aggregator.NewService(companyRepo, accountRepo, transactionRepo, aggregateRepo, catalog, statementEvents, logger.WithComponent("aggregator"))
	forecastService := forecast.NewService(companyRepo, aggregateRepo, projectionRepo, projectionEvents, logger.WithComponent("forecast"))

	// 7. HTTP server
	server := httpapi.NewServer(mapperService, aggregatorService, forecastService, logger.WithComponent("http"))
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router([]byte(cfg.JWTSecret)),
	}

	go func() {
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(httpServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server.
func waitForShutdown(httpServer *http.Server, logger *applog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}
