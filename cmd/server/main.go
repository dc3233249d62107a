package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/hassanafridi/med-rep-sub001/internal/adapter/http"
	"github.com/hassanafridi/med-rep-sub001/internal/adapter/http/handler"
	postgresRepo "github.com/hassanafridi/med-rep-sub001/internal/adapter/repository/postgres"
	redisRepo "github.com/hassanafridi/med-rep-sub001/internal/adapter/repository/redis"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/config"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/logger"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/metrics"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/postgres"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/redis"
	"github.com/hassanafridi/med-rep-sub001/internal/scheduler"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "medrep"})

	ctx := context.Background()

	// Apply migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize store and collaborators
	store := postgresRepo.NewStore(pool)
	cache := redisRepo.NewCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(
		store.TxManager(),
		store.Customers(),
		store.Products(),
		store.Entries(),
		store.Transactions(),
		store.Audits(),
		idGen,
		cache,
		cfg.Username,
	)
	customerUC := usecase.NewCustomerUseCase(store.Customers(), store.Entries(), store.Audits(), idGen, cfg.Username)
	productUC := usecase.NewProductUseCase(store.Products(), store.Entries(), store.Audits(), idGen, cfg.Username)
	queryUC := usecase.NewQueryUseCase(store.Entries())
	reconcileUC := usecase.NewReconcileUseCase(store.Entries(), store.Transactions())

	// Periodic consistency check
	sched := scheduler.New(reconcileUC, postgresRepo.NewRetrier(log.Logger), m, log.Logger)
	if err := sched.Start(cfg.VerifySchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start consistency scheduler")
	}
	defer sched.Stop()

	healthHandler := handler.NewHealthHandler().
		AddCheck("postgres", handler.PingerFunc(pool.Ping)).
		AddCheck("redis", handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}))

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CustomerHandler: handler.NewCustomerHandler(customerUC),
		ProductHandler:  handler.NewProductHandler(productUC),
		EntryHandler:    handler.NewEntryHandler(ledgerUC, queryUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC, reconcileUC),
		ReportHandler:   handler.NewReportHandler(queryUC),
		HealthHandler:   healthHandler,
		Logger:          log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
