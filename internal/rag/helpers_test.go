package rag

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

// keywordEmbedder maps each text to counts over a fixed vocabulary, plus a
// constant component so no vector is zero.
type keywordEmbedder struct {
	vocab []string

	mu    sync.Mutex
	calls int
	sizes []int
}

func newKeywordEmbedder(vocab ...string) *keywordEmbedder {
	return &keywordEmbedder{vocab: vocab}
}

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	k.mu.Lock()
	k.calls++
	k.sizes = append(k.sizes, len(texts))
	k.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(k.vocab)+1)
		vec[len(k.vocab)] = 0.01
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,?!")
			for j, v := range k.vocab {
				if word == v {
					vec[j]++
				}
			}
		}
		out[i] = vec
	}
	return out, nil
}

func (k *keywordEmbedder) callCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.calls
}

var errBoom = errors.New("boom")

func failingEmbedder() Embedder {
	return EmbedderFunc(func(context.Context, []string) ([][]float32, error) {
		return nil, errBoom
	})
}

// wordsN returns n distinct words w0..w(n-1) joined by spaces.
func wordsN(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(parts, " ")
}
