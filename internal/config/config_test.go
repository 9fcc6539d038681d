package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Interpreter.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected interpreter url %q", cfg.Interpreter.BaseURL)
	}
	if cfg.Interpreter.TimeoutSeconds != 30 {
		t.Fatalf("expected default timeout 30, got %d", cfg.Interpreter.TimeoutSeconds)
	}
	if cfg.Metrics.Port != 9091 {
		t.Fatalf("expected default metrics port, got %d", cfg.Metrics.Port)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("AGENT_API_URL", "http://interpreter:9000")
	t.Setenv("AGENT_TIMEOUT_SECONDS", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Server.Port != 4000 {
		t.Fatalf("PORT override ignored, got %d", cfg.Server.Port)
	}
	if cfg.Interpreter.BaseURL != "http://interpreter:9000" {
		t.Fatalf("AGENT_API_URL override ignored, got %q", cfg.Interpreter.BaseURL)
	}
	if cfg.Interpreter.TimeoutSeconds != 10 {
		t.Fatalf("AGENT_TIMEOUT_SECONDS override ignored, got %d", cfg.Interpreter.TimeoutSeconds)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("LOG_LEVEL override ignored, got %q", cfg.Log.Level)
	}
}

func TestLoadIgnoresMalformedTimeout(t *testing.T) {
	t.Setenv("AGENT_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.Interpreter.TimeoutSeconds != 30 {
		t.Fatalf("malformed timeout should fall back to default, got %d", cfg.Interpreter.TimeoutSeconds)
	}
}
