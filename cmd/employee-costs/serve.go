package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/erp-platform/employee-service/internal/api"
	"github.com/erp-platform/employee-service/internal/api/handler"
	"github.com/erp-platform/employee-service/internal/core/ports"
	"github.com/erp-platform/employee-service/internal/core/service"
	"github.com/erp-platform/employee-service/internal/infrastructure/cache"
	"github.com/erp-platform/employee-service/internal/infrastructure/config"
	mongostore "github.com/erp-platform/employee-service/internal/infrastructure/db/mongo"
	pgstore "github.com/erp-platform/employee-service/internal/infrastructure/db/postgres"
	"github.com/erp-platform/employee-service/internal/infrastructure/identity"
	"github.com/erp-platform/employee-service/internal/infrastructure/tracing"
	"github.com/erp-platform/employee-service/internal/security/token"
	"github.com/erp-platform/employee-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// store is the persistence backend selected by STORE_DRIVER.
type store interface {
	ports.EmployeeRepository
	ports.LedgerRepository
	Ping(ctx context.Context) error
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	codec, err := token.NewCodec(cfg.JWTSecret)
	if err != nil {
		return err
	}

	// --- Persistence ---
	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	health := map[string]handler.Pinger{cfg.StoreDriver: st}

	// --- Identity lookup ---
	var rdb redis.Cmdable
	if cfg.Identity.CacheDriver == cache.DriverRedis {
		client, err := cache.Connect(ctx, cache.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		health["redis"] = cache.NewRedis(client)
	}

	identityCache, err := cache.New(cache.Config{
		Driver:     cfg.Identity.CacheDriver,
		TTL:        cfg.Identity.CacheTTL,
		MaxEntries: cfg.Identity.CacheMaxEntries,
	}, rdb)
	if err != nil {
		return err
	}

	identityLog := logger.Component(log, "identity")
	resolver := identity.NewCachedResolver(
		identity.NewClient(identity.Config{BaseURL: cfg.Identity.BaseURL, Timeout: cfg.Identity.Timeout}, identityLog),
		identityCache,
		cfg.Identity.CacheTTL,
		identityLog,
	)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Logger:     log,
		Tokens:     codec,
		Identities: resolver,
		Employees:  service.NewEmployeeService(st, st, logger.Component(log, "employees")),
		Ledger:     service.NewLedgerService(st, st, logger.Component(log, "ledger")),
		Health:     health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore connects the backend named by cfg.StoreDriver.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("postgres connected")
		return pgstore.NewEmployeeStore(pool), pool.Close, nil

	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		st := mongostore.NewEmployeeStore(db)
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")
		return st, func() { _ = client.Disconnect(context.Background()) }, nil
	}
}
