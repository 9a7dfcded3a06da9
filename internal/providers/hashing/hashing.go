// Package hashing provides an offline feature-hashing Embedder.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/mwiater/passageqa/internal/providers"
)

// Embedder hashes unigrams and adjacent bigrams into signed buckets. Equal
// text always produces equal vectors, so it suits tests and air-gapped builds.
type Embedder struct {
	dim int
}

// New returns an Embedder producing vectors of dimension dim.
func New(dim int) (*Embedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("hashing dimension must be positive, got %d", dim)
	}
	return &Embedder{dim: dim}, nil
}

// Dimension returns the vector width.
func (e *Embedder) Dimension() int { return e.dim }

// Embed never fails except on cancellation. Text without tokens maps to a
// vector with a single bias bucket set so it can still be normalized.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float32 {
	vec := make([]float32, e.dim)
	tokens := providers.Tokenize(text)
	if len(tokens) == 0 {
		vec[0] = 1
		return vec
	}
	for i, tok := range tokens {
		e.add(vec, tok, 1)
		if i > 0 {
			e.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	return vec
}

func (e *Embedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}
