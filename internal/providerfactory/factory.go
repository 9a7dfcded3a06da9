// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/providers"
	"github.com/mwiater/passageqa/internal/providers/hashing"
	"github.com/mwiater/passageqa/internal/providers/lexical"
	"github.com/mwiater/passageqa/internal/providers/multiplex"
	"github.com/mwiater/passageqa/internal/providers/ollama"
	"github.com/mwiater/passageqa/internal/providers/openai"
	"github.com/mwiater/passageqa/internal/providers/squad"
)

// NewEmbedder selects the embedding provider named by embeddingProvider.
func NewEmbedder(cfg *appconfig.Config) (providers.Embedder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	switch name := cfg.EmbedderName(); name {
	case appconfig.ProviderOllama:
		e, err := ollama.New(*cfg)
		if err != nil {
			return nil, err
		}
		logging.LogEvent("Embedding provider ready: ollama model=%s", cfg.EmbeddingModel)
		return e, nil
	case appconfig.ProviderOpenAI:
		e, err := openai.New(*cfg)
		if err != nil {
			logging.LogEvent("OpenAI embedding provider unavailable: %v", err)
			return nil, err
		}
		logging.LogEvent("Embedding provider ready: openai model=%s", cfg.EmbeddingModel)
		return e, nil
	case appconfig.ProviderHashing:
		e, err := hashing.New(cfg.HashDimension())
		if err != nil {
			return nil, err
		}
		logging.LogEvent("Embedding provider ready: hashing dimension=%d", e.Dimension())
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported embeddingProvider %q (want %s, %s or %s)", name,
			appconfig.ProviderOllama, appconfig.ProviderOpenAI, appconfig.ProviderHashing)
	}
}

// NewExtractor selects the extraction provider named by extractorProvider. When
// extractorFallback names a different provider, failures of the primary fall
// through to it.
func NewExtractor(cfg *appconfig.Config) (providers.Extractor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	primaryName := cfg.ExtractorName()
	primary, err := extractorByName(cfg, primaryName)
	if err != nil {
		return nil, err
	}

	fallbackName := strings.ToLower(strings.TrimSpace(cfg.ExtractorFallback))
	if fallbackName == "" || fallbackName == primaryName {
		logging.LogEvent("Extraction provider ready: %s", primaryName)
		return primary, nil
	}
	fallback, err := extractorByName(cfg, fallbackName)
	if err != nil {
		return nil, fmt.Errorf("extractorFallback: %w", err)
	}
	logging.LogEvent("Extraction provider ready: %s with fallback %s", primaryName, fallbackName)
	return multiplex.New(
		multiplex.Named{Name: primaryName, Extractor: primary},
		multiplex.Named{Name: fallbackName, Extractor: fallback},
	), nil
}

func extractorByName(cfg *appconfig.Config, name string) (providers.Extractor, error) {
	switch name {
	case appconfig.ProviderSquad:
		return squad.New(*cfg), nil
	case appconfig.ProviderLexical:
		return lexical.New(), nil
	default:
		return nil, fmt.Errorf("unsupported extractorProvider %q (want %s or %s)", name,
			appconfig.ProviderSquad, appconfig.ProviderLexical)
	}
}
