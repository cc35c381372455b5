package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
catalog:
  locales:
    - locale: "ar"
      path: "./data/properties_ar.json"
embedding:
  provider: "mock"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	wantPath := filepath.Join(dir, "data", "properties_ar.json")
	if cfg.Catalog.Locales[0].Path != wantPath {
		t.Errorf("path = %q, want %q", cfg.Catalog.Locales[0].Path, wantPath)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults: %+v", cfg.Server)
	}
	if cfg.Catalog.Source != "json" {
		t.Errorf("catalog source = %q, want json", cfg.Catalog.Source)
	}
	if len(cfg.Catalog.Locales) != 2 {
		t.Errorf("locales = %+v, want ar and en defaults", cfg.Catalog.Locales)
	}
	if cfg.Embedding.Provider != "mock" || cfg.Embedding.Dimensions != 384 {
		t.Errorf("embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 100 {
		t.Errorf("search defaults: %+v", cfg.Search)
	}
	if cfg.Search.CacheTTLSeconds != 300 {
		t.Errorf("cache ttl = %d, want 300", cfg.Search.CacheTTLSeconds)
	}
	if !cfg.Catalog.WatchOrDefault() {
		t.Error("watch should default to true")
	}
}

func TestApplyDefaults_keepsExplicitValues(t *testing.T) {
	watch := false
	cfg := Config{
		Server:  ServerConfig{Port: 3000},
		Catalog: CatalogConfig{Watch: &watch},
	}
	ApplyDefaults(&cfg)
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000 preserved", cfg.Server.Port)
	}
	if cfg.Catalog.WatchOrDefault() {
		t.Error("explicit watch=false should be preserved")
	}
}

func TestResolveToken(t *testing.T) {
	cfg := EmbeddingConfig{Token: "inline", TokenEnv: "AQARI_TEST_TOKEN"}
	if got := cfg.ResolveToken(); got != "inline" {
		t.Errorf("got %q, want inline when env unset", got)
	}
	t.Setenv("AQARI_TEST_TOKEN", "from-env")
	if got := cfg.ResolveToken(); got != "from-env" {
		t.Errorf("got %q, want env value to win", got)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{Debug: true}
	ApplyDefaults(cfg)
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Debug || loaded.Server.Port != 8080 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
