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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"adalbertofjr/products-api/ajun"
	"adalbertofjr/products-api/ajun/middleware/ratelimiter"
	"adalbertofjr/products-api/cmd/configs"
	"adalbertofjr/products-api/internal/events"
	"adalbertofjr/products-api/internal/infra/api"
	"adalbertofjr/products-api/internal/logger"
	"adalbertofjr/products-api/internal/product"
)

func main() {
	config := loadConfigs()

	log, err := logger.New(logger.Config{
		Level:      config.LogLevel,
		File:       config.LogFile,
		MaxSizeMB:  config.LogMaxSizeMB,
		MaxBackups: config.LogMaxBackups,
		MaxAgeDays: config.LogMaxAgeDays,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore, err := newProductRepository(config)
	if err != nil {
		log.Fatal("product_store_init_failed", zap.Error(err))
	}
	defer closeStore()

	if config.ProductsSeedFile != "" {
		n, err := product.LoadSeed(ctx, repo, config.ProductsSeedFile)
		if err != nil {
			log.Fatal("product_seed_failed", zap.String("file", config.ProductsSeedFile), zap.Error(err))
		}
		log.Info("product_seed_loaded", zap.Int("products", n))
	}

	publisher := newPublisher(config, log)
	defer publisher.Close()

	ajunRouter := ajun.NewRouter()
	api.RegisterRoutes(ajunRouter, api.NewProductHandler(repo, publisher, log))

	if config.RateLimiterMaxRequests > 0 {
		backend, closeBackend := newRateLimiterBackend(config)
		defer closeBackend()

		ajunRouter.RateLimiter(ratelimiter.New(ctx, ratelimiter.Config{
			Limit:           config.RateLimiterMaxRequests,
			Window:          config.RateLimiterWindow,
			Delay:           config.RateLimiterTimeDelay,
			TokenLimit:      config.RateLimiterTokenMaxRequests,
			TokenDelay:      config.RateLimiterTokenTimeDelay,
			CleanupInterval: config.RateLimiterCleanupInterval,
			TTL:             config.RateLimiterTTL,
		}, backend, log))
	}

	srv := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           ajunRouter.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http_listen", zap.String("addr", srv.Addr), zap.String("store_backend", config.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http_server_error", zap.Error(err))
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	log.Info("shutdown_signal", zap.String("signal", s.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_error", zap.Error(err))
	}
	log.Info("shutdown_complete")
}

func loadConfigs() *configs.Config {
	config, err := configs.LoadConfig(".")
	if err != nil {
		panic(err)
	}
	return config
}

func newProductRepository(config *configs.Config) (*product.Repository, func(), error) {
	switch config.StoreBackend {
	case "memory", "":
		return product.NewRepository(product.NewMemoryBackend()), func() {}, nil
	case "file":
		return product.NewRepository(product.NewFileBackend(config.StoreFilePath)), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: config.StoreRedisAddr})
		backend := product.NewRedisBackend(client, config.StoreRedisPrefix)
		return product.NewRepository(backend), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", config.StoreBackend)
	}
}

func newRateLimiterBackend(config *configs.Config) (ratelimiter.Backend, func()) {
	if config.RateLimiterRedisAddr == "" {
		return ratelimiter.NewMemoryBackend(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: config.RateLimiterRedisAddr})
	return ratelimiter.NewRedisBackend(client, "ratelimiter:"), func() { client.Close() }
}

func newPublisher(config *configs.Config, log *zap.Logger) events.Publisher {
	if config.EventsAMQPURL == "" {
		return events.NopPublisher{}
	}

	publisher, err := events.NewAMQPPublisher(config.EventsAMQPURL, config.EventsExchange)
	if err != nil {
		log.Warn("events_publisher_disabled", zap.Error(err))
		return events.NopPublisher{}
	}
	return publisher
}
