package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/gofoodhq/settlement/internal/adapter/http"
	"github.com/gofoodhq/settlement/internal/adapter/http/handler"
	"github.com/gofoodhq/settlement/internal/adapter/http/middleware"
	postgresRepo "github.com/gofoodhq/settlement/internal/adapter/repository/postgres"
	redisRepo "github.com/gofoodhq/settlement/internal/adapter/repository/redis"
	"github.com/gofoodhq/settlement/internal/infrastructure/config"
	"github.com/gofoodhq/settlement/internal/infrastructure/logger"
	"github.com/gofoodhq/settlement/internal/infrastructure/metrics"
	"github.com/gofoodhq/settlement/internal/infrastructure/postgres"
	"github.com/gofoodhq/settlement/internal/infrastructure/redis"
	"github.com/gofoodhq/settlement/internal/provider"
	"github.com/gofoodhq/settlement/internal/provider/flutterwave"
	"github.com/gofoodhq/settlement/internal/provider/monnify"
	"github.com/gofoodhq/settlement/internal/provider/paystack"
	"github.com/gofoodhq/settlement/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	defaultFee, err := cfg.PlatformFee()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid platform fee configuration")
	}

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		PingTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	centralRepo := postgresRepo.NewCentralAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	payoutRepo := postgresRepo.NewPayoutRepository(pool)
	fullnameRepo := postgresRepo.NewFullNameRepository(pool)
	vendorRepo := postgresRepo.NewVendorRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	events := redisRepo.NewEventPublisher(redisClient)

	// Payment providers
	providers := provider.NewRegistry(
		paystack.New(cfg.Paystack, appLogger),
		flutterwave.New(cfg.Flutterwave, appLogger),
		monnify.New(cfg.Monnify, appLogger),
	)

	m := metrics.New()

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, walletRepo, centralRepo, txnRepo, idGen,
		usecase.CentralAccountDefaults{
			AccountNumber: cfg.CentralAccountNumber,
			BankName:      cfg.CentralBankName,
		})
	settlementUC := usecase.NewSettlementUseCase(txManager, ledgerUC, txnRepo, fullnameRepo,
		events, retrier, idGen, appLogger)
	fundingUC := usecase.NewFundingUseCase(ledgerUC, settlementUC, fullnameRepo, providers, idGen, appLogger)
	payoutUC := usecase.NewPayoutUseCase(txManager, ledgerUC, payoutRepo, vendorRepo, providers,
		events, cache, idGen, m,
		usecase.PayoutConfig{DefaultFee: defaultFee, RaceTimeout: cfg.PayoutRaceTimeout},
		appLogger)
	reconUC := usecase.NewReconciliationUseCase(ledgerUC, settlementUC, txnRepo, payoutRepo)

	// Router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		FundingHandler:        handler.NewFundingHandler(fundingUC),
		PayoutHandler:         handler.NewPayoutHandler(payoutUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		WebhookHandler: handler.NewWebhookHandler(settlementUC,
			cfg.PaystackWebhookSecret, cfg.MonnifyWebhookSecret, m, appLogger),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
