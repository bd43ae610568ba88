package config

import (
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is unset")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pharmawatch")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("expected default max conns 20, got %d", cfg.DBMaxConns)
	}
	if !cfg.IsDev() {
		t.Error("expected development mode")
	}
	if cfg.JWTSecret == "" {
		t.Error("expected dev fallback JWT secret")
	}
}

func TestLoad_RequiresJWTSecretInProduction(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pharmawatch")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset in production")
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pharmawatch")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(cfg.CORSOrigins))
	}
}

func TestDHIS2Configured(t *testing.T) {
	cfg := &Config{}
	if cfg.DHIS2Configured() {
		t.Error("expected unconfigured DHIS2")
	}
	cfg.DHIS2BaseURL = "https://play.dhis2.org/demo/api"
	if !cfg.DHIS2Configured() {
		t.Error("expected configured DHIS2")
	}
}
