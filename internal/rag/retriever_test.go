package rag

import (
	"context"
	"errors"
	"testing"
)

func geographyRetriever(t *testing.T, embedder Embedder) *Retriever {
	t.Helper()
	passages := []Passage{
		{ID: 0, Text: "Paris is the capital of France."},
		{ID: 1, Text: "Berlin is the capital of Germany."},
		{ID: 2, Text: "Bananas are yellow."},
	}
	kw := newKeywordEmbedder("paris", "france", "berlin", "germany", "bananas", "yellow")
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	vectors, _ := kw.Embed(context.Background(), texts)
	for _, v := range vectors {
		Normalize(v)
	}
	idx, err := BuildFlatIndex(vectors)
	if err != nil {
		t.Fatalf("BuildFlatIndex: %v", err)
	}
	if embedder == nil {
		embedder = kw
	}
	return NewRetriever(idx, passages, embedder)
}

func TestRetrieverReturnsBestPassageFirst(t *testing.T) {
	r := geographyRetriever(t, nil)
	results, err := r.Query(context.Background(), "What is the capital of France?", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].PassageID != 0 || results[0].PassageText != "Paris is the capital of France." {
		t.Fatalf("expected Paris passage first, got %+v", results[0])
	}
	if results[0].RetrievalScore < results[1].RetrievalScore {
		t.Fatalf("results not in descending score order")
	}
}

func TestRetrieverClampsTopK(t *testing.T) {
	r := geographyRetriever(t, nil)
	results, err := r.Query(context.Background(), "yellow bananas", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected topK clamped to 3, got %d", len(results))
	}
}

func TestRetrieverInvalidTopK(t *testing.T) {
	r := geographyRetriever(t, nil)
	for _, k := range []int{0, -3} {
		if _, err := r.Query(context.Background(), "france", k); !errors.Is(err, ErrInvalidTopK) {
			t.Fatalf("topK=%d: expected ErrInvalidTopK, got %v", k, err)
		}
	}
}

func TestRetrieverEmbeddingFailure(t *testing.T) {
	r := geographyRetriever(t, failingEmbedder())
	_, err := r.Query(context.Background(), "france", 1)
	if !errors.Is(err, ErrEmbeddingCollaborator) {
		t.Fatalf("expected ErrEmbeddingCollaborator, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	var embedErr *EmbeddingError
	if !errors.As(err, &embedErr) {
		t.Fatalf("expected *EmbeddingError, got %T", err)
	}
}

func TestRetrieverEmptyIndexSkipsEmbedding(t *testing.T) {
	idx, _ := NewFlatIndex(3)
	kw := newKeywordEmbedder("a", "b")
	r := NewRetriever(idx, nil, kw)
	results, err := r.Query(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result, got %v", results)
	}
	if kw.callCount() != 0 {
		t.Fatalf("embedder must not be called for an empty index")
	}
}

func TestRetrieverDropsIDsOutsidePassageTable(t *testing.T) {
	idx, err := BuildFlatIndex([][]float32{unit(1, 0), unit(0.9, 0.1), unit(0, 1)})
	if err != nil {
		t.Fatalf("BuildFlatIndex: %v", err)
	}
	passages := []Passage{{ID: 0, Text: "zero"}, {ID: 1, Text: "one"}}
	embedder := EmbedderFunc(func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{0, 1}}, nil
	})
	r := NewRetriever(idx, passages, embedder)
	results, err := r.Query(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	// id 2 is the best hit but has no passage.
	if len(results) != 1 || results[0].PassageID != 1 {
		t.Fatalf("expected only passage 1, got %+v", results)
	}
}

func TestRetrieverZeroQueryVector(t *testing.T) {
	embedder := EmbedderFunc(func(context.Context, []string) ([][]float32, error) {
		return [][]float32{make([]float32, 7)}, nil
	})
	r := geographyRetriever(t, embedder)
	if _, err := r.Query(context.Background(), "q", 1); !errors.Is(err, ErrEmbeddingCollaborator) {
		t.Fatalf("expected ErrEmbeddingCollaborator for zero vector, got %v", err)
	}
}
