package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"perangkum/pkg/config"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("DOCUMENTS_DIR", "  /srv/docs ")
	assert.Equal(t, "/srv/docs", config.GetEnvString("DOCUMENTS_DIR", "documents"))

	t.Setenv("DOCUMENTS_DIR", "")
	assert.Equal(t, "documents", config.GetEnvString("DOCUMENTS_DIR", "documents"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"unset", "", 3},
		{"valid", "7", 7},
		{"negative", "-2", -2},
		{"not a number", "three", 3},
		{"trailing garbage", "5x", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUMMARY_TOP_K", tt.value)
			assert.Equal(t, tt.want, config.GetEnvInt("SUMMARY_TOP_K", 3))
		})
	}
}

func TestGetEnvIntInRange(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"minimum", "1", 1},
		{"maximum", "50", 50},
		{"below minimum", "0", 3},
		{"above maximum", "51", 3},
		{"invalid", "lots", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUMMARY_TOP_K", tt.value)
			assert.Equal(t, tt.want, config.GetEnvIntInRange("SUMMARY_TOP_K", 3, 1, 50))
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("FETCH_MAX_BODY_SIZE", "20971520")
	assert.Equal(t, int64(20971520), config.GetEnvInt64("FETCH_MAX_BODY_SIZE", 1))

	t.Setenv("FETCH_MAX_BODY_SIZE", "big")
	assert.Equal(t, int64(1), config.GetEnvInt64("FETCH_MAX_BODY_SIZE", 1))
}

func TestGetEnvFloat(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	assert.InDelta(t, 2.5, config.GetEnvFloat("RATE_LIMIT_RPS", 10), 1e-9)

	t.Setenv("RATE_LIMIT_RPS", "fast")
	assert.InDelta(t, 10.0, config.GetEnvFloat("RATE_LIMIT_RPS", 10), 1e-9)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"False", false},
		{"0", false},
		{"yes", true}, // invalid, falls back to default
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("FETCH_DENY_PRIVATE_IPS", tt.value)
			assert.Equal(t, tt.want, config.GetEnvBool("FETCH_DENY_PRIVATE_IPS", true))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("FETCH_TIMEOUT", "1m30s")
	assert.Equal(t, 90*time.Second, config.GetEnvDuration("FETCH_TIMEOUT", 10*time.Second))

	t.Setenv("FETCH_TIMEOUT", "soon")
	assert.Equal(t, 10*time.Second, config.GetEnvDuration("FETCH_TIMEOUT", 10*time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("SUMMARY_FEEDS", " https://a.example/rss, ,https://b.example/atom ")
	assert.Equal(t,
		[]string{"https://a.example/rss", "https://b.example/atom"},
		config.GetEnvStringList("SUMMARY_FEEDS", nil))

	t.Setenv("SUMMARY_FEEDS", " , ")
	assert.Equal(t, []string{"x"}, config.GetEnvStringList("SUMMARY_FEEDS", []string{"x"}))
}

func TestValidators(t *testing.T) {
	assert.NoError(t, config.ValidatePositiveDuration(time.Second))
	assert.Error(t, config.ValidatePositiveDuration(0))

	assert.NoError(t, config.ValidateIntRange("top_k", 3, 1, 50))
	assert.Error(t, config.ValidateIntRange("top_k", 0, 1, 50))

	assert.NoError(t, config.ValidateCronSchedule("*/30 * * * *"))
	assert.Error(t, config.ValidateCronSchedule(""))
	assert.Error(t, config.ValidateCronSchedule("every hour"))

	assert.NoError(t, config.ValidateTimezone("Asia/Jakarta"))
	assert.Error(t, config.ValidateTimezone(""))
	assert.Error(t, config.ValidateTimezone("Mars/Olympus"))

	assert.NoError(t, config.ValidateDuration(time.Minute, time.Second, time.Hour))
	assert.Error(t, config.ValidateDuration(time.Millisecond, time.Second, time.Hour))
	assert.Error(t, config.ValidateDuration(2*time.Hour, time.Second, time.Hour))
}
