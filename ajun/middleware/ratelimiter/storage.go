package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Storage serializes read-modify-write cycles on a Backend and runs the
// cleanup worker that drops idle client entries.
type Storage struct {
	mu              sync.Mutex
	backend         Backend
	cleanupInterval time.Duration
	ttl             time.Duration
	logger          *zap.Logger
}

func NewStorage(ctx context.Context, backend Backend, cleanupInterval time.Duration, ttl time.Duration, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Storage{
		backend:         backend,
		cleanupInterval: cleanupInterval,
		ttl:             ttl,
		logger:          logger,
	}

	if cleanupInterval > 0 {
		go s.StartCleanupWorker(ctx)
	}

	return s
}

// Hit counts one request from clientIP, starting a new window when the
// current one is older than window, and returns the updated entry. Requests
// made while the client is blocked are not counted.
func (s *Storage) Hit(ctx context.Context, clientIP string, window time.Duration, now time.Time) (ClientIPData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Get(ctx, clientIP)
	if errors.Is(err, ErrNotFound) {
		data = &ClientIPData{WindowStart: now}
	} else if err != nil {
		return ClientIPData{}, err
	}

	data.LastSeen = now
	if !data.blocked(now) {
		if now.Sub(data.WindowStart) >= window {
			data.Count = 0
			data.WindowStart = now
		}
		data.Count++
	}

	if err := s.backend.Set(ctx, clientIP, data); err != nil {
		return ClientIPData{}, err
	}
	return *data, nil
}

// Block rejects clientIP until the given time. The request window restarts
// when the block ends.
func (s *Storage) Block(ctx context.Context, clientIP string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Get(ctx, clientIP)
	if errors.Is(err, ErrNotFound) {
		data = &ClientIPData{}
	} else if err != nil {
		return err
	}

	data.Count = 0
	data.WindowStart = until
	data.DisableUntil = until

	return s.backend.Set(ctx, clientIP, data)
}

func (s *Storage) ListClientIPs(ctx context.Context) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.List(ctx)
	if err != nil {
		return nil
	}

	clientIPs := make(map[string]int, len(data))
	for ip, d := range data {
		clientIPs[ip] = d.Count
	}
	return clientIPs
}

func (s *Storage) StartCleanupWorker(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupOldData(ctx, time.Now())
		case <-ctx.Done():
			s.logger.Info("rate_limiter_cleanup_stopped")
			return
		}
	}
}

func (s *Storage) cleanupOldData(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.List(ctx)
	if err != nil {
		s.logger.Warn("rate_limiter_cleanup_list_failed", zap.Error(err))
		return
	}

	count := 0
	for ip, d := range data {
		if !d.blocked(now) && now.Sub(d.LastSeen) > s.ttl {
			if err := s.backend.Delete(ctx, ip); err != nil {
				s.logger.Warn("rate_limiter_cleanup_delete_failed", zap.String("client_ip", ip), zap.Error(err))
				continue
			}
			count++
		}
	}

	if count > 0 {
		s.logger.Debug("rate_limiter_cleanup_complete", zap.Int("removed", count))
	}
}
