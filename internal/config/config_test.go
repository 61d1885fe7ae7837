package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	if cfg.Crawl.MaxPages != 15 {
		t.Errorf("max_pages: want 15, got %d", cfg.Crawl.MaxPages)
	}
	if cfg.Digest.MaxOutputBytes != 7800 {
		t.Errorf("max_output_bytes: want 7800, got %d", cfg.Digest.MaxOutputBytes)
	}
	if !cfg.Crawl.RespectRobots {
		t.Error("respect_robots should default to true")
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("crawl:\n  max_pages: 5\ndigest:\n  repeat_categories: [product, blog]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Crawl.MaxPages != 5 {
		t.Errorf("max_pages: want 5, got %d", cfg.Crawl.MaxPages)
	}
	if cfg.Crawl.TimeoutSec != 15 {
		t.Errorf("timeout_sec should keep default 15, got %d", cfg.Crawl.TimeoutSec)
	}
	if len(cfg.Digest.RepeatCategories) != 2 {
		t.Errorf("repeat_categories: want 2 entries, got %v", cfg.Digest.RepeatCategories)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("want error for missing file")
	}
}
