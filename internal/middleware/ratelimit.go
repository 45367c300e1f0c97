package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/trip-ticket-log/internal/config"
)

// WindowStore counts hits in fixed windows.  Hit increments the counter for
// key and returns the new count together with the time left until the
// window resets.
type WindowStore interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// NewWindowStore returns a Redis-backed store when rdb is non-nil so that
// several API instances share one budget per client, and a process-local
// store otherwise.
func NewWindowStore(rdb *redis.Client) WindowStore {
	if rdb == nil {
		return NewMemoryStore()
	}
	return &RedisStore{rdb: rdb}
}

// RedisStore keeps one counter key per client and window.
type RedisStore struct {
	rdb *redis.Client
}

// The first hit of a window starts its expiry; later hits only increment.
var fixedWindowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return { n, ttl }
`)

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	vals, err := fixedWindowScript.Run(ctx, s.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}
	return vals[0], time.Duration(vals[1]) * time.Millisecond, nil
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is a WindowStore for a single process.  Expired windows are
// swept lazily, at most once per minute.
type MemoryStore struct {
	mu        sync.Mutex
	windows   map[string]*memoryWindow
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*memoryWindow), now: time.Now}
}

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > time.Minute {
		for k, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, k)
			}
		}
		s.lastSweep = now
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &memoryWindow{resetAt: now.Add(window)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// RateLimit admits at most cfg.Max requests per client address in each
// cfg.Window and rejects the rest with 429.  Store failures let the request
// through.
func RateLimit(cfg config.RateLimitConfig, store WindowStore, log *logrus.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || store == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	limit := int64(cfg.Max)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Prefix + ":" + c.RealIP()
			count, resetIn, err := store.Hit(c.Request().Context(), key, cfg.Window)
			if err != nil {
				log.WithError(err).WithField("key", key).Warn("rate limit store unavailable")
				return next(c)
			}

			remaining := limit - count
			if remaining < 0 {
				remaining = 0
			}
			resetSec := int64((resetIn + time.Second - 1) / time.Second)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(resetSec, 10))

			if count > limit {
				h.Set("Retry-After", strconv.FormatInt(resetSec, 10))
				if cfg.Debug {
					log.WithFields(logrus.Fields{"key": key, "count": count}).Debug("rate limited")
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"message": "Too many requests from this IP, please try again later.",
				})
			}
			return next(c)
		}
	}
}
