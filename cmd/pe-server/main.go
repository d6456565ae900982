// cmd/pe-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pe-insights/internal/api"
	"pe-insights/internal/common/config"
	"pe-insights/internal/common/database"
	"pe-insights/internal/common/logger"
	"pe-insights/internal/common/observability"
	integrityaudit "pe-insights/internal/maintenance/integrity-audit"
	storerefresh "pe-insights/internal/maintenance/store-refresh"
	aianalytics "pe-insights/internal/queries/ai/ai-analytics"
	firmdetail "pe-insights/internal/queries/firms/firm-detail"
	companylookup "pe-insights/internal/queries/portfolio/company-lookup"
	collectionsearch "pe-insights/internal/queries/search/collection-search"
	"pe-insights/internal/reloadlog"
	"pe-insights/internal/searchindex"
	"pe-insights/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type closingBackend interface {
	database.Pinger
	Close() error
}

// dialWithRetry opens a backend until it answers a ping. A client whose ping
// fails is closed before the next attempt.
func dialWithRetry[T closingBackend](ctx context.Context, dial func() (T, error), maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) (T, error) {
	var client T
	err := retryWithBackoff(func() error {
		c, err := dial()
		if err != nil {
			return err
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return err
		}
		client = c
		return nil
	}, maxRetries, initialDelay, log, operationName)
	if err != nil {
		var zero T
		return zero, err
	}
	return client, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pe-insights server...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("dataDir", cfg.Stores.DataDir),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()
	var backends []database.Pinger

	// --- Redis view cache (optional) ---
	var redisClient *redis.Client
	if cfg.Database.Redis.Enabled {
		rc, err := dialWithRetry(ctx, func() (*database.RedisClient, error) {
			return database.NewRedis(cfg.Database.Redis)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, firm views are computed per request", zap.Error(err))
		} else {
			defer rc.Close()
			redisClient = rc.Client
			backends = append(backends, rc)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Elasticsearch full-text mirror (optional) ---
	var esClient *elasticsearch.Client
	if cfg.Database.Elasticsearch.Enabled {
		var ec *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			ec, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return ec.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unavailable, full-text search disabled", zap.Error(err))
		} else {
			esClient = ec.Client
			backends = append(backends, ec)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- PostgreSQL reload ledger (optional) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
		pg, err = dialWithRetry(ctx, func() (*database.PostgresClient, error) {
			return database.NewPostgres(cfg.Database.Postgres)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Warn("postgres unavailable, reload ledger disabled", zap.Error(err))
		} else {
			defer pg.Close()
			backends = append(backends, pg)
			zapLog.Info("PostgreSQL connected successfully")
		}
	}

	ledger := reloadlog.New(nil, log)
	if pg != nil {
		ledger = reloadlog.New(pg.DB, log)
		if err := ledger.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("reload ledger schema failed", zap.Error(err))
		}
	}
	index := searchindex.New(searchindex.LoadConfig(cfg), esClient, log)

	// --- Store ---
	state := store.New(cfg.Stores, log,
		store.WithObservability(obs),
		store.WithObserver(index),
		store.WithObserver(ledger),
	)
	event := state.Load(ctx)
	zapLog.Info("Stores loaded",
		zap.Uint64("version", event.Version),
		zap.Int("collections", len(event.Changed())),
	)

	// --- API ---
	server, err := api.NewServer(cfg.Server, api.Deps{
		State:      state,
		FirmDetail: firmdetail.NewHandler(firmdetail.LoadConfig(cfg), state, redisClient, obs, log),
		Search:     collectionsearch.NewHandler(collectionsearch.LoadConfig(), state, obs, log),
		Companies:  companylookup.NewHandler(companylookup.LoadConfig(), state, obs, log),
		AI:         aianalytics.NewHandler(aianalytics.LoadConfig(), state, obs, log),
		Audit:      integrityaudit.NewHandler(integrityaudit.LoadConfig(), log),
		Refresh:    storerefresh.NewHandler(storerefresh.LoadConfig(cfg), state, log),
		Index:      index,
		Ledger:     ledger,
	}, log)
	if err != nil {
		zapLog.Fatal("failed to create api server", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	var opsServer *http.Server
	if cfg.Metrics.Enabled {
		opsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: api.NewOpsHandler(state, 2*time.Second, backends...),
		}
		go func() {
			zapLog.Info("Health/Metrics server listening", zap.String("addr", opsServer.Addr))
			if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("Health/Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down api server", zap.Error(err))
	}
	if opsServer != nil {
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Error shutting down health server", zap.Error(err))
		}
	}

	zapLog.Info("pe-insights server stopped gracefully")
}
