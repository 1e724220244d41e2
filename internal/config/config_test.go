package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8790" {
		t.Errorf("Port = %q, want 8790", cfg.Port)
	}
	if cfg.ServiceName != "soulboard-gateway" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.RPCEndpoint != "http://127.0.0.1:8899" {
		t.Errorf("RPCEndpoint = %q", cfg.RPCEndpoint)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.AccountCacheTTL != 5*time.Second {
		t.Errorf("AccountCacheTTL = %v", cfg.AccountCacheTTL)
	}
	if cfg.DefaultFeeBps != 250 {
		t.Errorf("DefaultFeeBps = %d", cfg.DefaultFeeBps)
	}
	if cfg.TracingEnabled {
		t.Error("TracingEnabled should default to false")
	}
	if cfg.TracingSampleRate != 1.0 {
		t.Errorf("TracingSampleRate = %v", cfg.TracingSampleRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RPC_ENDPOINT", "https://rpc.example.com")
	t.Setenv("POLL_INTERVAL", "500ms")
	t.Setenv("ACCOUNT_CACHE_TTL", "30")
	t.Setenv("DEFAULT_FEE_BPS", "500")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("TRACING_SAMPLE_RATE", "0.25")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.RPCEndpoint != "https://rpc.example.com" {
		t.Errorf("RPCEndpoint = %q", cfg.RPCEndpoint)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Errorf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.AccountCacheTTL != 30*time.Second {
		t.Errorf("AccountCacheTTL = %v, want bare seconds to parse", cfg.AccountCacheTTL)
	}
	if cfg.DefaultFeeBps != 500 {
		t.Errorf("DefaultFeeBps = %d", cfg.DefaultFeeBps)
	}
	if !cfg.TracingEnabled {
		t.Error("TRACING_ENABLED=true not applied")
	}
	if cfg.TracingSampleRate != 0.25 {
		t.Errorf("TracingSampleRate = %v", cfg.TracingSampleRate)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "soon")
	t.Setenv("DEFAULT_FEE_BPS", "plenty")
	t.Setenv("TRACING_ENABLED", "perhaps")

	cfg := Load()

	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want default", cfg.ReadTimeout)
	}
	if cfg.DefaultFeeBps != 250 {
		t.Errorf("DefaultFeeBps = %d, want default", cfg.DefaultFeeBps)
	}
	if cfg.TracingEnabled {
		t.Error("invalid TRACING_ENABLED should fall back to default")
	}
}
