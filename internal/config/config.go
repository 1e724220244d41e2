package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds gateway configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	ServiceName  string

	// Chain access
	RPCEndpoint  string
	RPCTimeout   time.Duration
	ProgramID    string
	PollInterval time.Duration

	// Redis account cache / notification fan-out
	RedisAddr       string
	AccountCacheTTL time.Duration

	// Default fee parameters used when a quote request omits them
	DefaultFeeBps uint32

	// Tracing
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8790")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 15*time.Second)
	cfg.ServiceName = getenv("SERVICE_NAME", "soulboard-gateway")

	cfg.RPCEndpoint = getenv("RPC_ENDPOINT", "http://127.0.0.1:8899")
	cfg.RPCTimeout = envDuration("RPC_TIMEOUT", 30*time.Second)
	cfg.ProgramID = getenv("PROGRAM_ID", "")
	cfg.PollInterval = envDuration("POLL_INTERVAL", 2*time.Second)

	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.AccountCacheTTL = envDuration("ACCOUNT_CACHE_TTL", 5*time.Second)

	cfg.DefaultFeeBps = uint32(envInt("DEFAULT_FEE_BPS", 250))

	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = getenv("OTLP_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. When unset or invalid, def
// is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def
// is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def
// is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
