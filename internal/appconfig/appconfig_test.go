// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestValidate verifies accessors over explicit settings and that invalid
// chunk and fusion settings are rejected.
func TestValidate(t *testing.T) {
	cfg := Config{IndexDir: "artifacts", ChunkMaxWords: 120, EmbeddingProvider: "Hashing", TopK: 7}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() with valid config failed: %v", err)
	}
	if cfg.MaxWords() != 120 {
		t.Fatalf("expected 120 max words, got %d", cfg.MaxWords())
	}
	if cfg.EmbedderName() != ProviderHashing {
		t.Fatalf("expected normalized provider name, got %s", cfg.EmbedderName())
	}
	if cfg.IndexPath() != filepath.Join("artifacts", "index.bin") {
		t.Fatalf("unexpected index path %s", cfg.IndexPath())
	}
	if cfg.DefaultTopK() != 7 {
		t.Fatalf("expected topK 7, got %d", cfg.DefaultTopK())
	}

	stride := 1.5
	if err := (Config{ChunkStrideFraction: &stride}).Validate(); err == nil {
		t.Fatal("Validate() with stride fraction >= 1 should have failed")
	}
	eps := -1.0
	if err := (Config{FusionEpsilon: &eps}).Validate(); err == nil {
		t.Fatal("Validate() with negative epsilon should have failed")
	}
	if err := (Config{EmbeddingDimension: -3}).Validate(); err == nil {
		t.Fatal("Validate() with negative dimension should have failed")
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config

	if cfg.RequestTimeout() != 120*time.Second {
		t.Fatalf("expected default request timeout of 120s, got %v", cfg.RequestTimeout())
	}
	if cfg.MaxWords() != 150 {
		t.Fatalf("expected 150 max words, got %d", cfg.MaxWords())
	}
	if got := cfg.StrideFraction(); got < 0.333 || got > 0.334 {
		t.Fatalf("expected one third stride, got %v", got)
	}
	if cfg.Epsilon() != 1e-6 {
		t.Fatalf("expected epsilon 1e-6, got %v", cfg.Epsilon())
	}
	if cfg.BatchSize() != 256 {
		t.Fatalf("expected batch size 256, got %d", cfg.BatchSize())
	}
	if cfg.PassagesPath() != filepath.Join("models", "passages.json") {
		t.Fatalf("unexpected passages path %s", cfg.PassagesPath())
	}
	if cfg.ExtractorName() != ProviderSquad || cfg.EmbedderName() != ProviderOllama {
		t.Fatalf("unexpected provider defaults: %s / %s", cfg.EmbedderName(), cfg.ExtractorName())
	}
}

func TestExplicitZeroEpsilonIsKept(t *testing.T) {
	zero := 0.0
	cfg := Config{FusionEpsilon: &zero, ChunkStrideFraction: &zero}
	if cfg.Epsilon() != 0 {
		t.Fatalf("expected explicit zero epsilon, got %v", cfg.Epsilon())
	}
	if cfg.StrideFraction() != 0 {
		t.Fatalf("expected explicit zero stride, got %v", cfg.StrideFraction())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero values should validate: %v", err)
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, "", nil)
	out := buf.String()
	if !strings.Contains(out, "No config file loaded") {
		t.Fatalf("expected defaults notice, got %s", out)
	}
	if !strings.Contains(out, "Chunk Max Words: 150") {
		t.Fatalf("expected default max words, got %s", out)
	}
}
