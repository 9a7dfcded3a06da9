package rag

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
)

// DefaultBatchSize is the number of passages sent to the embedder per call.
const DefaultBatchSize = 256

// BuildOptions controls chunking and embedding during an index build.
type BuildOptions struct {
	MaxWords         int
	StrideFraction   float64
	BatchSize        int
	EmbedConcurrency int
	StripStopwords   bool
}

// DefaultBuildOptions returns the chunking and batching defaults.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxWords:         DefaultMaxWords,
		StrideFraction:   DefaultStrideFraction,
		BatchSize:        DefaultBatchSize,
		EmbedConcurrency: 1,
	}
}

// BuildOptionsFromConfig maps configuration onto BuildOptions.
func BuildOptionsFromConfig(cfg appconfig.Config) BuildOptions {
	return BuildOptions{
		MaxWords:         cfg.MaxWords(),
		StrideFraction:   cfg.StrideFraction(),
		BatchSize:        cfg.BatchSize(),
		EmbedConcurrency: cfg.EmbedWorkers(),
		StripStopwords:   cfg.StripStopwords,
	}
}

// BuildStats summarizes an index build.
type BuildStats struct {
	DocumentsRead   int  `json:"documents_read"`
	UniqueDocuments int  `json:"unique_documents"`
	Passages        int  `json:"passages"`
	Batches         int  `json:"batches"`
	Dimension       int  `json:"dimension"`
	Skipped         bool `json:"skipped,omitempty"`
}

// Dedup removes exact duplicate documents, keeping first occurrences in order.
func Dedup(documents []string) []string {
	seen := make(map[string]struct{}, len(documents))
	unique := make([]string, 0, len(documents))
	for _, doc := range documents {
		if _, ok := seen[doc]; ok {
			continue
		}
		seen[doc] = struct{}{}
		unique = append(unique, doc)
	}
	return unique
}

// ChunkCorpus dedups documents and chunks each one, assigning dense passage
// ids in chunking order. Documents that chunk to nothing are skipped.
func ChunkCorpus(documents []string, opts BuildOptions) ([]Passage, int) {
	unique := Dedup(documents)
	var passages []Passage
	for docID, doc := range unique {
		for chunkIdx, w := range ChunkWindows(doc, opts.MaxWords, opts.StrideFraction) {
			text := w.Text
			if opts.StripStopwords {
				text = StripStopwords(text)
			}
			passages = append(passages, Passage{
				ID:                 len(passages),
				Text:               text,
				SourceDocumentID:   docID,
				ChunkIndex:         chunkIdx,
				OriginalTokenCount: w.Words,
			})
		}
	}
	return passages, len(unique)
}

// BuildCorpusIndex turns raw documents into a normalized vector index and the
// matching passage table. Nothing is persisted.
func BuildCorpusIndex(ctx context.Context, documents []string, embedder Embedder, opts BuildOptions) (*FlatIndex, []Passage, BuildStats, error) {
	stats := BuildStats{DocumentsRead: len(documents)}
	if embedder == nil {
		return nil, nil, stats, fmt.Errorf("embedder is nil")
	}
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	workers := opts.EmbedConcurrency
	if workers < 1 {
		workers = 1
	}

	passages, unique := ChunkCorpus(documents, opts)
	stats.UniqueDocuments = unique
	if len(passages) == 0 {
		return nil, nil, stats, fmt.Errorf("corpus produced no passages")
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	var batches [][]string
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batches = append(batches, texts[start:end])
	}
	stats.Batches = len(batches)

	results := make([][][]float32, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, batch := range batches {
		g.Go(func() error {
			vectors, err := embedder.Embed(gctx, batch)
			if err != nil {
				return &EmbeddingError{Op: fmt.Sprintf("embed batch %d", i), Err: err}
			}
			if len(vectors) != len(batch) {
				return fmt.Errorf("%w: batch %d sent %d texts, received %d vectors", ErrDimensionMismatch, i, len(batch), len(vectors))
			}
			results[i] = vectors
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, stats, err
	}

	var index *FlatIndex
	for b, vectors := range results {
		for j, vec := range vectors {
			id := b*batchSize + j
			if index == nil {
				var err error
				if index, err = NewFlatIndex(len(vec)); err != nil {
					return nil, nil, stats, err
				}
				index.data = make([]float32, 0, len(passages)*len(vec))
			}
			unit := append([]float32(nil), vec...)
			if len(unit) == index.Dimension() && !Normalize(unit) {
				return nil, nil, stats, &EmbeddingError{Op: fmt.Sprintf("normalize passage %d", id), Err: fmt.Errorf("vector has zero norm")}
			}
			if _, err := index.Add(unit); err != nil {
				return nil, nil, stats, fmt.Errorf("passage %d: %w", id, err)
			}
		}
	}

	stats.Passages = len(passages)
	stats.Dimension = index.Dimension()
	return index, passages, stats, nil
}

// BuildIndex builds the index for documents and persists it to the configured
// artifact paths. Existing artifacts are left alone unless force is set.
func BuildIndex(ctx context.Context, cfg appconfig.Config, embedder Embedder, documents []string, force bool) (BuildStats, error) {
	status := logging.NewStatus("[BUILD]")
	artifacts := NewArtifacts(cfg)

	if artifacts.Exists() && !force {
		status("Index artifacts already exist at %s and %s; use --force to rebuild", artifacts.IndexPath, artifacts.PassagesPath)
		return BuildStats{DocumentsRead: len(documents), Skipped: true}, nil
	}

	opts := BuildOptionsFromConfig(cfg)
	status("Documents read: %d", len(documents))
	status("Chunking with %d words per passage, stride fraction %.3f", opts.MaxWords, opts.StrideFraction)

	index, passages, stats, err := BuildCorpusIndex(ctx, documents, embedder, opts)
	if err != nil {
		return stats, err
	}
	status("Unique documents: %d", stats.UniqueDocuments)
	status("Passages produced: %d", stats.Passages)
	status("Batches embedded: %d (dimension %d)", stats.Batches, stats.Dimension)

	if err := artifacts.Save(index, passages); err != nil {
		return stats, err
	}
	status("Wrote %s and %s (build %s)", artifacts.IndexPath, artifacts.PassagesPath, index.BuildID())
	return stats, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
