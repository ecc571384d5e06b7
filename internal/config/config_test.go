package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath == "" {
		t.Error("expected a default db path")
	}
	if cfg.Actor == "" {
		t.Error("expected a default actor")
	}
	if !cfg.SeedReferenceData {
		t.Error("expected seeding on by default")
	}
	if cfg.TestMode {
		t.Error("test mode must default off")
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	saved := &Config{
		DBPath:            "/tmp/uat-test.db",
		Actor:             "jdoe",
		TestMode:          true,
		SeedReferenceData: false,
	}
	if err := Save(dir, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DBPath != saved.DBPath {
		t.Errorf("db path = %q, want %q", loaded.DBPath, saved.DBPath)
	}
	if loaded.Actor != saved.Actor {
		t.Errorf("actor = %q, want %q", loaded.Actor, saved.Actor)
	}
	if !loaded.TestMode {
		t.Error("test mode not round-tripped")
	}
	if loaded.SeedReferenceData {
		t.Error("seed flag not round-tripped")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", ".uat")
	if err := Save(dir, Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := Save(dir, &Config{DBPath: "/from/file.db", Actor: "fileuser"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("UAT_DB_PATH", "/from/env.db")
	t.Setenv("UAT_ACTOR", "envuser")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBPath != "/from/env.db" {
		t.Errorf("db path = %q, want env override", cfg.DBPath)
	}
	if cfg.Actor != "envuser" {
		t.Errorf("actor = %q, want env override", cfg.Actor)
	}
}
