package rag

import (
	"context"
	"fmt"
	"strings"
)

// Retriever maps a question to the passages whose vectors are closest to it.
type Retriever struct {
	index    *FlatIndex
	passages []Passage
	embedder Embedder
}

// NewRetriever returns a Retriever over a loaded index and its passage table.
func NewRetriever(index *FlatIndex, passages []Passage, embedder Embedder) *Retriever {
	return &Retriever{index: index, passages: passages, embedder: embedder}
}

// Query embeds text, normalizes the query vector and returns up to topK
// passages in descending retrieval score. Ids outside the passage table are
// dropped rather than failing the query.
func (r *Retriever) Query(ctx context.Context, text string, topK int) ([]QueryResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, topK)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyQuestion
	}
	if r.index.Len() == 0 || len(r.passages) == 0 {
		return []QueryResult{}, nil
	}
	if topK > len(r.passages) {
		topK = len(r.passages)
	}

	vectors, err := r.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, &EmbeddingError{Op: "embed query", Err: err}
	}
	if len(vectors) != 1 {
		return nil, &EmbeddingError{Op: "embed query", Err: fmt.Errorf("expected 1 vector, got %d", len(vectors))}
	}
	query := append([]float32(nil), vectors[0]...)
	if !Normalize(query) {
		return nil, &EmbeddingError{Op: "embed query", Err: fmt.Errorf("query vector has zero norm")}
	}

	hits, err := r.index.Search(query, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]QueryResult, 0, len(hits))
	for _, hit := range hits {
		if hit.ID < 0 || hit.ID >= len(r.passages) {
			continue
		}
		results = append(results, QueryResult{
			PassageID:      hit.ID,
			PassageText:    r.passages[hit.ID].Text,
			RetrievalScore: hit.Score,
		})
	}
	return results, nil
}
