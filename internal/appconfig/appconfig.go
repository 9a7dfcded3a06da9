// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for collaborator HTTP requests.
	defaultRequestTimeout = 120 * time.Second

	defaultIndexDir      = "models"
	defaultIndexFile     = "index.bin"
	defaultPassagesFile  = "passages.json"
	defaultCorpusPath    = "corpus"
	defaultMaxWords      = 150
	defaultStride        = 1.0 / 3.0
	defaultEpsilon       = 1e-6
	defaultTopK          = 5
	defaultBatchSize     = 256
	defaultEmbedWorkers  = 1
	defaultExtractWorker = 4
	defaultServeAddr     = ":8990"
	defaultHashDimension = 384

	// ProviderOllama selects the Ollama embedding endpoint.
	ProviderOllama = "ollama"
	// ProviderOpenAI selects an OpenAI-compatible embeddings API.
	ProviderOpenAI = "openai"
	// ProviderHashing selects the offline feature-hashing embedder.
	ProviderHashing = "hashing"
	// ProviderSquad selects an HTTP question-answering endpoint.
	ProviderSquad = "squad"
	// ProviderLexical selects the offline sentence-overlap extractor.
	ProviderLexical = "lexical"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug          bool   `json:"debug"`
	JSONMode       bool   `json:"jsonMode"`
	LogFile        string `json:"logFile,omitempty"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`

	CorpusPath              string   `json:"corpusPath,omitempty"`
	CorpusAllowedExtensions []string `json:"corpusAllowedExtensions,omitempty"`
	CorpusExcludeGlobs      []string `json:"corpusExcludeGlobs,omitempty"`

	IndexDir     string `json:"indexDir,omitempty"`
	IndexFile    string `json:"indexFile,omitempty"`
	PassagesFile string `json:"passagesFile,omitempty"`

	ChunkMaxWords       int      `json:"chunkMaxWords,omitempty"`
	ChunkStrideFraction *float64 `json:"chunkStrideFraction,omitempty"`
	StripStopwords      bool     `json:"stripStopwords"`

	EmbeddingProvider    string `json:"embeddingProvider,omitempty"`
	EmbeddingHost        string `json:"embeddingHost,omitempty"`
	EmbeddingModel       string `json:"embeddingModel,omitempty"`
	EmbeddingAPIKeyEnv   string `json:"embeddingApiKeyEnv,omitempty"`
	EmbeddingDimension   int    `json:"embeddingDimension,omitempty"`
	EmbeddingBatchSize   int    `json:"embeddingBatchSize,omitempty"`
	EmbeddingConcurrency int    `json:"embeddingConcurrency,omitempty"`

	ExtractorProvider    string `json:"extractorProvider,omitempty"`
	ExtractorURL         string `json:"extractorUrl,omitempty"`
	ExtractorAPIKeyEnv   string `json:"extractorApiKeyEnv,omitempty"`
	ExtractorConcurrency int    `json:"extractorConcurrency,omitempty"`
	ExtractorFallback    string `json:"extractorFallback,omitempty"`

	TopK          int      `json:"topK,omitempty"`
	FusionEpsilon *float64 `json:"fusionEpsilon,omitempty"`
	ServeAddr     string   `json:"serveAddr,omitempty"`

	ConfigPath string `json:"-"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "passageqa.log"
}

// CorpusRoot returns the directory or file the build step reads documents from.
func (c Config) CorpusRoot() string {
	if p := strings.TrimSpace(c.CorpusPath); p != "" {
		return p
	}
	return defaultCorpusPath
}

// IndexPath returns the location of the persisted vector index.
func (c Config) IndexPath() string {
	return filepath.Join(c.indexDir(), orDefault(c.IndexFile, defaultIndexFile))
}

// PassagesPath returns the location of the persisted passage table.
func (c Config) PassagesPath() string {
	return filepath.Join(c.indexDir(), orDefault(c.PassagesFile, defaultPassagesFile))
}

func (c Config) indexDir() string {
	return orDefault(c.IndexDir, defaultIndexDir)
}

// MaxWords returns the chunk window length in words.
func (c Config) MaxWords() int {
	if c.ChunkMaxWords <= 0 {
		return defaultMaxWords
	}
	return c.ChunkMaxWords
}

// StrideFraction returns the fraction of a window shared with the next one.
func (c Config) StrideFraction() float64 {
	if c.ChunkStrideFraction == nil {
		return defaultStride
	}
	return *c.ChunkStrideFraction
}

// Epsilon returns the additive constant used when fusing retrieval and extraction scores.
func (c Config) Epsilon() float64 {
	if c.FusionEpsilon == nil {
		return defaultEpsilon
	}
	return *c.FusionEpsilon
}

// DefaultTopK returns the number of passages retrieved when a caller does not say.
func (c Config) DefaultTopK() int {
	if c.TopK <= 0 {
		return defaultTopK
	}
	return c.TopK
}

// BatchSize returns the number of passages sent per embedding call.
func (c Config) BatchSize() int {
	if c.EmbeddingBatchSize <= 0 {
		return defaultBatchSize
	}
	return c.EmbeddingBatchSize
}

// EmbedWorkers returns how many embedding batches may be in flight at once.
func (c Config) EmbedWorkers() int {
	if c.EmbeddingConcurrency <= 0 {
		return defaultEmbedWorkers
	}
	return c.EmbeddingConcurrency
}

// ExtractWorkers returns how many extraction calls may be in flight for one query.
func (c Config) ExtractWorkers() int {
	if c.ExtractorConcurrency <= 0 {
		return defaultExtractWorker
	}
	return c.ExtractorConcurrency
}

// EmbedderName returns the normalized embedding provider name.
func (c Config) EmbedderName() string {
	return strings.ToLower(orDefault(c.EmbeddingProvider, ProviderOllama))
}

// ExtractorName returns the normalized extraction provider name.
func (c Config) ExtractorName() string {
	return strings.ToLower(orDefault(c.ExtractorProvider, ProviderSquad))
}

// HashDimension returns the vector width used by the hashing embedder.
func (c Config) HashDimension() int {
	if c.EmbeddingDimension <= 0 {
		return defaultHashDimension
	}
	return c.EmbeddingDimension
}

// ListenAddr returns the address the query service binds to.
func (c Config) ListenAddr() string {
	return orDefault(c.ServeAddr, defaultServeAddr)
}

// Validate reports settings that cannot produce a usable index or ranking.
func (c Config) Validate() error {
	if frac := c.StrideFraction(); frac < 0 || frac >= 1 {
		return fmt.Errorf("chunkStrideFraction must be in [0, 1), got %v", frac)
	}
	if c.Epsilon() < 0 {
		return fmt.Errorf("fusionEpsilon must be zero or greater, got %v", c.Epsilon())
	}
	if c.EmbeddingDimension < 0 {
		return fmt.Errorf("embeddingDimension must be zero or greater, got %d", c.EmbeddingDimension)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
