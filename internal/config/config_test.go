package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "mongo" {
		t.Errorf("expected default driver mongo, got %s", cfg.Store.Driver)
	}
	if cfg.Store.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("unexpected default mongo uri %s", cfg.Store.Mongo.URI)
	}
	if cfg.Auth.Token.TTL != time.Hour {
		t.Errorf("expected default 1h token TTL, got %s", cfg.Auth.Token.TTL)
	}
}

func TestLoad_InsecureSecretFallback(t *testing.T) {
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("SCRIBE_AUTH_TOKEN_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.UsingInsecureSecret() {
		t.Error("expected insecure fallback secret when unset")
	}
	if cfg.Auth.Token.Secret != InsecureDefaultSecret {
		t.Errorf("expected %q, got %q", InsecureDefaultSecret, cfg.Auth.Token.Secret)
	}
}

func TestLoad_SecretFromEnv(t *testing.T) {
	os.Setenv("JWT_SECRET", "from-env")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Token.Secret != "from-env" {
		t.Errorf("expected secret from JWT_SECRET, got %q", cfg.Auth.Token.Secret)
	}
	if cfg.UsingInsecureSecret() {
		t.Error("secret from env must not report as insecure fallback")
	}
}

func TestValidate_BadDriver(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Store.Driver = "cassandra"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported store driver")
	}
}
