package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one validated configuration value.
// When the environment value is malformed or fails validation, Value holds
// the default, FallbackApplied is set and Warning explains why.
type LoadResult[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// LoadEnv reads key, parses it with parse and checks it with validate (which
// may be nil). An unset key yields the default without a warning.
//
// Example:
//
//	res := LoadEnv("EXPORT_CRON_SCHEDULE", "*/30 * * * *", ParseString, ValidateCronSchedule)
//	if res.FallbackApplied {
//	    logger.Warn("configuration fallback applied", slog.String("warning", res.Warning))
//	}
func LoadEnv[T any](key string, defaultValue T, parse func(string) (T, error), validate func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validate != nil {
		err = validate(value)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default %v", key, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: value}
}

// ParseString is the identity parser for LoadEnv.
func ParseString(s string) (string, error) {
	return s, nil
}

// ParseInt parses a base-10 integer for LoadEnv.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParseDuration parses a Go duration ("30m", "1h") for LoadEnv.
func ParseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
