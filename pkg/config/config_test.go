package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Errorf("App.IsDev() = false, want true for default env %q", cfg.App.Env)
	}
	if cfg.JWT.ExpirationMinutes != 60 {
		t.Errorf("JWT.ExpirationMinutes = %d, want 60", cfg.JWT.ExpirationMinutes)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis.URL = %q", cfg.Redis.URL)
	}
}

func TestEnsureDSNFromParts(t *testing.T) {
	db := DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "svc",
		Password: "p@ss/word",
		Name:     "store",
		SSLMode:  "require",
	}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN() error = %v", err)
	}

	if !strings.HasPrefix(db.DSN, "postgres://svc:") {
		t.Errorf("DSN missing user info: %q", db.DSN)
	}
	if !strings.Contains(db.DSN, "db.internal:5433") {
		t.Errorf("DSN missing host: %q", db.DSN)
	}
	if !strings.Contains(db.DSN, "sslmode=require") {
		t.Errorf("DSN missing sslmode: %q", db.DSN)
	}
	if strings.Contains(db.DSN, "p@ss/word") {
		t.Errorf("DSN password not escaped: %q", db.DSN)
	}
}

func TestEnsureDSNExplicitWins(t *testing.T) {
	db := DBConfig{DSN: "postgres://u@h:5432/d"}
	if err := db.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN() error = %v", err)
	}
	if db.DSN != "postgres://u@h:5432/d" {
		t.Errorf("DSN rewritten: %q", db.DSN)
	}
}

func TestEnsureDSNMissingParts(t *testing.T) {
	db := DBConfig{Host: "h"}
	if err := db.ensureDSN(); err == nil {
		t.Fatal("ensureDSN() = nil, want error")
	}
}
