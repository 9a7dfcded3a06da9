// internal/providers/ollama/provider.go
// Package ollama provides an Embedder backed by the Ollama /api/embed endpoint.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/providers"
)

// DefaultHost is used when no embedding host is configured.
const DefaultHost = "http://localhost:11434"

// Embedder implements rag.Embedder using Ollama batch embeddings.
type Embedder struct {
	client  *http.Client
	host    string
	model   string
	timeout time.Duration
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// New constructs an Embedder for the configured host and model.
func New(cfg appconfig.Config) (*Embedder, error) {
	model := strings.TrimSpace(cfg.EmbeddingModel)
	if model == "" {
		return nil, fmt.Errorf("embeddingModel is required for the %s provider", appconfig.ProviderOllama)
	}
	host := strings.TrimRight(strings.TrimSpace(cfg.EmbeddingHost), "/")
	if host == "" {
		host = DefaultHost
	}
	timeout := cfg.RequestTimeout()
	return &Embedder{
		client:  providers.NewHTTPClient(timeout),
		host:    host,
		model:   model,
		timeout: timeout,
	}, nil
}

// Embed returns one vector per text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var parsed embedResponse
	endpoint := e.host + "/api/embed"
	if err := providers.PostJSON(ctx, e.client, endpoint, nil, embedRequest{Model: e.model, Input: texts}, &parsed); err != nil {
		logging.LogCollaborator("embedding", appconfig.ProviderOllama, e.model, err, map[string]any{"url": endpoint, "texts": len(texts)})
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: sent %d texts, received %d embeddings", len(texts), len(parsed.Embeddings))
	}

	out := make([][]float32, len(parsed.Embeddings))
	for i, vec := range parsed.Embeddings {
		if len(vec) == 0 {
			return nil, fmt.Errorf("ollama embed: embedding %d is empty", i)
		}
		f := make([]float32, len(vec))
		for j, v := range vec {
			f[j] = float32(v)
		}
		out[i] = f
	}
	return out, nil
}
