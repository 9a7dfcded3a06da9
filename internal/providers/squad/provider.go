// internal/providers/squad/provider.go
// Package squad provides an Extractor backed by an extractive question-answering
// HTTP endpoint in the Hugging Face inference shape.
package squad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/providers"
)

// DefaultURL points at a locally served SQuAD-tuned model.
const DefaultURL = "http://localhost:8080"

// Extractor implements rag.Extractor over HTTP.
type Extractor struct {
	client  *http.Client
	url     string
	apiKey  string
	timeout time.Duration
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// qaResponse accepts either a single answer object or a list of them.
type qaResponse struct {
	answers []qaAnswer
}

func (r *qaResponse) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(data, &r.answers)
	}
	var one qaAnswer
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	r.answers = []qaAnswer{one}
	return nil
}

// New constructs an Extractor from configuration.
func New(cfg appconfig.Config) *Extractor {
	url := strings.TrimRight(strings.TrimSpace(cfg.ExtractorURL), "/")
	if url == "" {
		url = DefaultURL
	}
	var key string
	if env := strings.TrimSpace(cfg.ExtractorAPIKeyEnv); env != "" {
		key = strings.TrimSpace(os.Getenv(env))
	}
	timeout := cfg.RequestTimeout()
	return &Extractor{
		client:  providers.NewHTTPClient(timeout),
		url:     url,
		apiKey:  key,
		timeout: timeout,
	}
}

// Extract asks the endpoint for the best answer span in passage. An empty
// passage or question short-circuits to an empty answer with score 0.
func (e *Extractor) Extract(ctx context.Context, question, passage string) (providers.Extraction, error) {
	if strings.TrimSpace(passage) == "" || strings.TrimSpace(question) == "" {
		return providers.Extraction{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var headers map[string]string
	if e.apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + e.apiKey}
	}
	var parsed qaResponse
	req := qaRequest{Inputs: qaInputs{Question: question, Context: passage}}
	if err := providers.PostJSON(ctx, e.client, e.url, headers, req, &parsed); err != nil {
		logging.LogCollaborator("extraction", appconfig.ProviderSquad, e.url, err, nil)
		return providers.Extraction{}, fmt.Errorf("squad extract: %w", err)
	}
	if len(parsed.answers) == 0 {
		return providers.Extraction{}, nil
	}
	best := parsed.answers[0]
	for _, a := range parsed.answers[1:] {
		if a.Score > best.Score {
			best = a
		}
	}
	if best.Score < 0 || best.Score > 1 {
		return providers.Extraction{}, fmt.Errorf("squad extract: score %f outside [0,1]", best.Score)
	}
	return providers.Extraction{Answer: strings.TrimSpace(best.Answer), Score: best.Score}, nil
}
