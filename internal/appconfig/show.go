package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &Config{}
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Corpus Path:     %s\n", cfg.CorpusRoot())
	fmt.Fprintf(out, "  Corpus Extensions: %v\n", cfg.CorpusAllowedExtensions)
	fmt.Fprintf(out, "  Corpus Exclude Globs: %v\n", cfg.CorpusExcludeGlobs)
	fmt.Fprintf(out, "  Index Path:      %s\n", cfg.IndexPath())
	fmt.Fprintf(out, "  Passages Path:   %s\n", cfg.PassagesPath())
	fmt.Fprintf(out, "  Chunk Max Words: %d\n", cfg.MaxWords())
	fmt.Fprintf(out, "  Chunk Stride Fraction: %.4f\n", cfg.StrideFraction())
	fmt.Fprintf(out, "  Strip Stopwords: %v\n", cfg.StripStopwords)
	fmt.Fprintf(out, "  Embedder:        %s\n", cfg.EmbedderName())
	fmt.Fprintf(out, "  Embedding Host:  %s\n", cfg.EmbeddingHost)
	fmt.Fprintf(out, "  Embedding Model: %s\n", cfg.EmbeddingModel)
	fmt.Fprintf(out, "  Embedding Batch Size: %d\n", cfg.BatchSize())
	fmt.Fprintf(out, "  Embedding Workers: %d\n", cfg.EmbedWorkers())
	fmt.Fprintf(out, "  Extractor:       %s\n", cfg.ExtractorName())
	fmt.Fprintf(out, "  Extractor URL:   %s\n", cfg.ExtractorURL)
	fmt.Fprintf(out, "  Extractor Fallback: %s\n", cfg.ExtractorFallback)
	fmt.Fprintf(out, "  Extractor Workers: %d\n", cfg.ExtractWorkers())
	fmt.Fprintf(out, "  Top K:           %d\n", cfg.DefaultTopK())
	fmt.Fprintf(out, "  Fusion Epsilon:  %g\n", cfg.Epsilon())
	fmt.Fprintf(out, "  Serve Address:   %s\n", cfg.ListenAddr())
}
