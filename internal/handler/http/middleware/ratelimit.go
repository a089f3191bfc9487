package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"perangkum/internal/handler/http/respond"
)

var (
	rateLimitRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_rejected_total",
		Help: "Requests rejected by the per-IP rate limiter",
	})
	rateLimitClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rate_limit_active_clients",
		Help: "Client IPs currently tracked by the rate limiter",
	})
)

// RateLimitConfig configures the per-IP token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate.
	RequestsPerSecond float64
	// Burst is the bucket size.
	Burst int
	// IdleTTL drops buckets unused for this long.
	// Default: 10m
	IdleTTL time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg       RateLimitConfig
	extractor IPExtractor
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter returns a limiter keyed by the IP that extractor resolves.
func NewRateLimiter(cfg RateLimitConfig, extractor IPExtractor, logger *slog.Logger) *RateLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if extractor == nil {
		extractor = &RemoteAddrExtractor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		cfg:       cfg,
		extractor: extractor,
		logger:    logger,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.visitors[ip] = v
		rateLimitClients.Set(float64(len(rl.visitors)))
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Middleware answers 429 with a Retry-After header once a client drains its bucket.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			// unparseable peers share one bucket
			ip = "unknown"
		}

		reservation := rl.limiterFor(ip).ReserveN(rl.now(), 1)
		if !reservation.OK() {
			rl.reject(w, r, ip, time.Second)
			return
		}
		if delay := reservation.DelayFrom(rl.now()); delay > 0 {
			reservation.CancelAt(rl.now())
			rl.reject(w, r, ip, delay)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) reject(w http.ResponseWriter, r *http.Request, ip string, retryAfter time.Duration) {
	rateLimitRejected.Inc()
	rl.logger.Warn("rate limit exceeded",
		slog.String("ip", ip),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	respond.JSON(w, http.StatusTooManyRequests, respond.ErrorResponse{Error: "rate limit exceeded"})
}

// Cleanup drops idle buckets and returns the number removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.cfg.IdleTTL)
	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	rateLimitClients.Set(float64(len(rl.visitors)))
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Cleanup(); n > 0 {
				rl.logger.Debug("rate limiter cleanup", slog.Int("removed", n))
			}
		}
	}
}

// Len returns the number of tracked client IPs.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
