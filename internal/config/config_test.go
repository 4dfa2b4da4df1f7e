package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kravdata")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode by default")
	}
	if cfg.SeedClaimCount != 1200 || cfg.SeedLookbackDays != 1095 {
		t.Errorf("unexpected seed defaults: %+v", cfg)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/kravdata")
	t.Setenv("PORT", "9100")
	t.Setenv("SEED_CLAIM_COUNT", "300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("expected port 9100, got %q", cfg.Port)
	}
	if cfg.SeedClaimCount != 300 {
		t.Errorf("expected 300 seed claims, got %d", cfg.SeedClaimCount)
	}
}

func TestValidateProductionAuth(t *testing.T) {
	cfg := &Config{Env: "production", DatabaseURL: "postgres://db/x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for production without auth config")
	}
	cfg.AdminJWTSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
