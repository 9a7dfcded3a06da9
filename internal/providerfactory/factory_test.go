// internal/providerfactory/factory_test.go
package providerfactory

import (
	"testing"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/providers/hashing"
	"github.com/mwiater/passageqa/internal/providers/lexical"
	"github.com/mwiater/passageqa/internal/providers/multiplex"
	"github.com/mwiater/passageqa/internal/providers/ollama"
	"github.com/mwiater/passageqa/internal/providers/squad"
)

func TestNewEmbedderSelectsProvider(t *testing.T) {
	e, err := NewEmbedder(&appconfig.Config{EmbeddingProvider: "Hashing", EmbeddingDimension: 32})
	if err != nil {
		t.Fatalf("NewEmbedder returned error: %v", err)
	}
	h, ok := e.(*hashing.Embedder)
	if !ok || h.Dimension() != 32 {
		t.Fatalf("expected 32-dim hashing embedder, got %#v", e)
	}

	e, err = NewEmbedder(&appconfig.Config{EmbeddingModel: "nomic-embed-text"})
	if err != nil {
		t.Fatalf("NewEmbedder returned error: %v", err)
	}
	if _, ok := e.(*ollama.Embedder); !ok {
		t.Fatalf("expected ollama as the default embedder, got %T", e)
	}
}

func TestNewEmbedderRejectsUnsupported(t *testing.T) {
	if _, err := NewEmbedder(&appconfig.Config{EmbeddingProvider: "word2vec"}); err == nil {
		t.Fatal("expected error for unsupported embedding provider")
	}
	if _, err := NewEmbedder(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNewExtractorDefaultsToSquad(t *testing.T) {
	x, err := NewExtractor(&appconfig.Config{})
	if err != nil {
		t.Fatalf("NewExtractor returned error: %v", err)
	}
	if _, ok := x.(*squad.Extractor); !ok {
		t.Fatalf("expected squad extractor, got %T", x)
	}
}

func TestNewExtractorWithFallback(t *testing.T) {
	x, err := NewExtractor(&appconfig.Config{ExtractorProvider: "squad", ExtractorFallback: "lexical"})
	if err != nil {
		t.Fatalf("NewExtractor returned error: %v", err)
	}
	m, ok := x.(*multiplex.Extractor)
	if !ok {
		t.Fatalf("expected multiplex extractor, got %T", x)
	}
	if names := m.Names(); len(names) != 2 || names[0] != "squad" || names[1] != "lexical" {
		t.Fatalf("unexpected chain %v", names)
	}

	x, err = NewExtractor(&appconfig.Config{ExtractorProvider: "lexical", ExtractorFallback: "lexical"})
	if err != nil {
		t.Fatalf("NewExtractor returned error: %v", err)
	}
	if _, ok := x.(*lexical.Extractor); !ok {
		t.Fatalf("fallback equal to primary should not wrap, got %T", x)
	}
}

func TestNewExtractorRejectsUnsupported(t *testing.T) {
	if _, err := NewExtractor(&appconfig.Config{ExtractorProvider: "gpt"}); err == nil {
		t.Fatal("expected error for unsupported extractor")
	}
	if _, err := NewExtractor(&appconfig.Config{ExtractorFallback: "gpt"}); err == nil {
		t.Fatal("expected error for unsupported fallback")
	}
}
