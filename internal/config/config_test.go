package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error with no config file present: %v", err)
	}

	if cfg.OutputFormat != "table" {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, "table")
	}
	if cfg.Encoding != "macroman" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "macroman")
	}
	if cfg.DiscoverMaxResults != 1000 {
		t.Errorf("DiscoverMaxResults = %d, want %d", cfg.DiscoverMaxResults, 1000)
	}
	if cfg.ExtractOverwrite {
		t.Error("ExtractOverwrite = true, want false")
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	contents := []byte("output_format: json\ndiscover_max_results: 50\nextract_overwrite: true\n")
	if err := os.WriteFile(filepath.Join(dir, "hfsx-config.yaml"), contents, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.OutputFormat != "json" {
		t.Errorf("OutputFormat = %q, want %q", cfg.OutputFormat, "json")
	}
	if cfg.DiscoverMaxResults != 50 {
		t.Errorf("DiscoverMaxResults = %d, want %d", cfg.DiscoverMaxResults, 50)
	}
	if !cfg.ExtractOverwrite {
		t.Error("ExtractOverwrite = false, want true")
	}
	if cfg.Encoding != "macroman" {
		t.Errorf("Encoding = %q, want default %q when unset in file", cfg.Encoding, "macroman")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	os.Setenv("HFSX_OUTPUT_FORMAT", "json")
	defer os.Unsetenv("HFSX_OUTPUT_FORMAT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.OutputFormat != "json" {
		t.Errorf("OutputFormat = %q, want %q from environment", cfg.OutputFormat, "json")
	}
}
