package ratelimiter

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const apiKeyHeader = "API_KEY"

type Config struct {
	Limit           int
	Window          time.Duration
	Delay           time.Duration
	TokenLimit      int
	TokenDelay      time.Duration
	CleanupInterval time.Duration
	TTL             time.Duration
}

type RateLimiter struct {
	config  Config
	storage *Storage
	logger  *zap.Logger
	now     func() time.Time
}

func New(ctx context.Context, config Config, backend Backend, logger *zap.Logger) *RateLimiter {
	if config.Window <= 0 {
		config.Window = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimiter{
		config:  config,
		storage: NewStorage(ctx, backend, config.CleanupInterval, config.TTL, logger),
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientIPFromRemoteAddr(r.RemoteAddr)
		now := rl.now()

		data, err := rl.storage.Hit(r.Context(), clientIP, rl.config.Window, now)
		if err != nil {
			rl.logger.Warn("rate_limiter_storage_error", zap.String("client_ip", clientIP), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if data.blocked(now) {
			tooManyRequests(w)
			return
		}

		limit, delay := rl.limitsFor(r.Header.Get(apiKeyHeader))
		if data.Count > limit {
			if err := rl.storage.Block(r.Context(), clientIP, now.Add(delay)); err != nil {
				rl.logger.Warn("rate_limiter_block_failed", zap.String("client_ip", clientIP), zap.Error(err))
			}
			rl.logger.Info("client_ip_blocked",
				zap.String("client_ip", clientIP),
				zap.Int("requests", data.Count),
				zap.Duration("delay", delay),
			)
			tooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limitsFor(apiToken string) (int, time.Duration) {
	if apiToken != "" && rl.config.TokenLimit > 0 {
		return rl.config.TokenLimit, rl.config.TokenDelay
	}
	return rl.config.Limit, rl.config.Delay
}

func clientIPFromRemoteAddr(remoteAddr string) string {
	clientIP, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		clientIP = strings.Split(remoteAddr, ":")[0]
	}
	return clientIP
}

func tooManyRequests(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"message":"Too Many Requests"}`))
}
