// internal/providers/openai/provider.go
// Package openai provides an Embedder for OpenAI-compatible embeddings APIs.
package openai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/providers"
)

// DefaultAPIKeyEnv is read when embeddingApiKeyEnv is not configured.
const DefaultAPIKeyEnv = "OPENAI_API_KEY"

// Embedder implements rag.Embedder using the embeddings endpoint.
type Embedder struct {
	client     openai.Client
	model      string
	dimensions int
}

// New builds an Embedder from configuration. The API key is read from the
// environment variable named by embeddingApiKeyEnv; embeddingHost, when set,
// replaces the base URL so compatible servers can be used.
func New(cfg appconfig.Config) (*Embedder, error) {
	model := strings.TrimSpace(cfg.EmbeddingModel)
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	envName := strings.TrimSpace(cfg.EmbeddingAPIKeyEnv)
	if envName == "" {
		envName = DefaultAPIKeyEnv
	}
	key := strings.TrimSpace(os.Getenv(envName))
	if key == "" {
		return nil, fmt.Errorf("environment variable %s is empty; set it or point embeddingApiKeyEnv elsewhere", envName)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithHTTPClient(providers.NewHTTPClient(cfg.RequestTimeout())),
		option.WithMaxRetries(2),
	}
	if host := strings.TrimSpace(cfg.EmbeddingHost); host != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(host, "/")+"/"))
	}
	return &Embedder{
		client:     openai.NewClient(opts...),
		model:      model,
		dimensions: cfg.EmbeddingDimension,
	}, nil
}

// Embed returns one vector per text, ordered by the response index field.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	}
	if e.dimensions > 0 {
		params.Dimensions = openai.Int(int64(e.dimensions))
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		logging.LogCollaborator("embedding", appconfig.ProviderOpenAI, e.model, err, map[string]int{"texts": len(texts)})
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: sent %d texts, received %d embeddings", len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, item := range resp.Data {
		i := int(item.Index)
		if i < 0 || i >= len(out) || out[i] != nil {
			return nil, fmt.Errorf("openai embed: unexpected embedding index %d", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}
