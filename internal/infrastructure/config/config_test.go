package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Development() || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DispatchWorkers != 8 || cfg.Mongo.Database != "taskboard" || cfg.Redis.SnapshotTTL != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_UnsetEnvNeedsSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected JWT_SECRET to be required when ENV is unset")
	}
}

func TestLoad_Development(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "development"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Development() || cfg.JWTSecret != DevSecret {
		t.Fatalf("expected development mode with a fallback secret: %+v", cfg)
	}
}

func TestLoad_Production(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "production"})); err == nil {
		t.Fatalf("expected JWT_SECRET to be required in production")
	}

	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":          "production",
		"JWT_SECRET":   "s3cret",
		"TOKEN_TTL":    "1h",
		"CORS_ORIGINS": "https://a.example, https://b.example,",
		"NATS_URL":     "nats://localhost:4222",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Development() || cfg.TokenTTL != time.Hour || cfg.NATS.URL == "" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if origins := cfg.Origins(); len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestLoad_InvalidWorkers(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{"ENV": "development", "DISPATCH_WORKERS": "0"})); err == nil {
		t.Fatalf("expected an error for zero workers")
	}
}
