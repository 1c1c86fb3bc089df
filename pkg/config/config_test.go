package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBuildDefaultsAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluxo.yaml")
	content := "backend: local\nfolder: /data/planilhas\ncache_ttl: 5m\nmax_rows: 50\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Backend != BackendLocal || cfg.Folder != "/data/planilhas" {
		t.Errorf("unexpected backend/folder: %+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.MaxRows != 50 {
		t.Errorf("unexpected ttl/max_rows: %v %d", cfg.CacheTTL, cfg.MaxRows)
	}
	if cfg.Marker != "Fluxo de Caixa" || cfg.Concurrency != 4 || cfg.FallbackYear != time.Now().Year() {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestBuildEnvAndFlags(t *testing.T) {
	t.Setenv("FLUXO_BACKEND", "drive")
	t.Setenv("FLUXO_FOLDER", "folder-from-env")
	t.Setenv("FLUXO_FALLBACK_YEAR", "2024")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.Int("concurrency", 4, "")
	if err := flags.Parse([]string{"--log-level=debug", "--concurrency=8"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fluxo.yaml")
	if err := os.WriteFile(path, []byte("concurrency: 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Build(path, flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Folder != "folder-from-env" || cfg.FallbackYear != 2024 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.LogLevel != "debug" || cfg.Concurrency != 8 {
		t.Errorf("flags not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Backend: BackendMemory, MaxRows: 35, Concurrency: 1}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cases := map[string]Config{
		"drive without folder": {Backend: BackendDrive, MaxRows: 35, Concurrency: 1},
		"gcs without bucket":   {Backend: BackendGCS, MaxRows: 35, Concurrency: 1},
		"unknown backend":      {Backend: "ftp", MaxRows: 35, Concurrency: 1},
		"zero rows":            {Backend: BackendMemory, Concurrency: 1},
		"zero concurrency":     {Backend: BackendMemory, MaxRows: 35},
	}
	for name, cfg := range cases {
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", name)
			continue
		}
		if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("%s: unexpected error %v", name, err)
		}
	}
}
