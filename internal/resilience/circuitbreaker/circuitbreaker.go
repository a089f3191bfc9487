// Package circuitbreaker guards page fetches, feed fetches and database calls
// with github.com/sony/gobreaker so a failing dependency is not hammered.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"perangkum/internal/observability/metrics"
)

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string

	// HalfOpenRequests is how many probes pass while half-open.
	HalfOpenRequests uint32

	// Window is the period after which closed-state counts are reset.
	Window time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// TripRatio is the failure ratio (0-1] that opens the breaker once
	// MinRequests have been seen in the window.
	TripRatio   float64
	MinRequests uint32
}

// PageFetchConfig is used for web pages. Pages come from arbitrary hosts, so
// the breaker trips late and recovers after a minute.
func PageFetchConfig() Config {
	return Config{
		Name:             "page-fetch",
		HalfOpenRequests: 5,
		Window:           time.Minute,
		OpenTimeout:      time.Minute,
		TripRatio:        0.6,
		MinRequests:      5,
	}
}

// FeedFetchConfig is used for RSS/Atom feeds.
func FeedFetchConfig() Config {
	return Config{
		Name:             "feed-fetch",
		HalfOpenRequests: 5,
		Window:           time.Minute,
		OpenTimeout:      2 * time.Minute,
		TripRatio:        0.7,
		MinRequests:      10,
	}
}

// StoreConfig is used for the PostgreSQL document store. It opens only when
// every call in the window failed.
func StoreConfig() Config {
	return Config{
		Name:             "document-store",
		HalfOpenRequests: 3,
		Window:           time.Minute,
		OpenTimeout:      30 * time.Second,
		TripRatio:        1.0,
		MinRequests:      5,
	}
}

// CircuitBreaker is a named gobreaker.CircuitBreaker that logs state changes
// and exports them as metrics.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a closed breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	metrics.RecordBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.HalfOpenRequests,
			Interval:    cfg.Window,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.TripRatio
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.RecordBreakerState(name, int(to))
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// Execute runs fn unless the breaker rejects the call.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.breaker.Execute(fn)
	if Rejected(err) {
		metrics.RecordBreakerRejection(cb.name)
	}
	return result, err
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// Rejected reports whether err came from an open or saturated half-open
// breaker rather than from the guarded call.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// Run executes fn through cb and returns its typed result.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
