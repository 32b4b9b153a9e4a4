package tool

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/frvega/conversor-go/types"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBase != "http://localhost:5000" {
		t.Errorf("unexpected api base %q", cfg.APIBase)
	}
	if cfg.Serve.Secret == "" {
		t.Error("expected generated serve secret")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	// Reloading keeps the generated secret stable.
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Serve.Secret != cfg.Serve.Secret {
		t.Error("serve secret changed between loads")
	}
}

func TestLoadConfigReadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := types.AppConfig{
		APIBase:     "https://conversor.example.com",
		OutputDir:   "/tmp/out",
		SessionFile: "sess.yaml",
		Serve:       types.ServeConfig{Port: 9000, Secret: "fixed"},
	}
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIBase != want.APIBase {
		t.Errorf("api base = %q, want %q", cfg.APIBase, want.APIBase)
	}
	if cfg.Serve.Port != 9000 || cfg.Serve.Secret != "fixed" {
		t.Errorf("serve config not honored: %+v", cfg.Serve)
	}
}

func TestNextAvailablePathNumbersCollisions(t *testing.T) {
	dir := t.TempDir()

	first := NextAvailablePath(dir, "resultado.zip")
	if first != filepath.Join(dir, "resultado.zip") {
		t.Fatalf("first = %q", first)
	}
	if err := os.WriteFile(first, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	second := NextAvailablePath(dir, "resultado.zip")
	if second != filepath.Join(dir, "resultado-2.zip") {
		t.Fatalf("second = %q", second)
	}
	if err := os.WriteFile(second, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	third := NextAvailablePath(dir, "resultado.zip")
	if third != filepath.Join(dir, "resultado-3.zip") {
		t.Fatalf("third = %q", third)
	}
}

func TestStatRegularFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	name, size, err := StatRegularFile(path)
	if err != nil {
		t.Fatalf("StatRegularFile: %v", err)
	}
	if name != "statement.pdf" || size != 8 {
		t.Errorf("got %q/%d", name, size)
	}

	if _, _, err := StatRegularFile(dir); err == nil {
		t.Error("expected error for directory")
	}
	if _, _, err := StatRegularFile(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
