// internal/providers/provider.go

// Package providers holds the shared plumbing for embedding and answer-extraction
// collaborators. Each subpackage implements rag.Embedder or rag.Extractor against
// one backend (Ollama, an OpenAI-compatible API, a question-answering HTTP
// endpoint, or an offline algorithm).
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mwiater/passageqa/internal/rag"
)

// Embedder is the embedding collaborator contract.
type Embedder = rag.Embedder

// Extractor is the answer-extraction collaborator contract.
type Extractor = rag.Extractor

// Extraction is an extracted answer span and its confidence.
type Extraction = rag.Extraction

// NewHTTPClient returns the HTTP client used by every remote provider.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &http.Transport{ForceAttemptHTTP2: false},
	}
}

// StatusError reports a non-2xx response from a collaborator.
type StatusError struct {
	URL    string
	Status string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned %s", e.URL, e.Status)
	}
	return fmt.Sprintf("%s returned %s: %s", e.URL, e.Status, e.Body)
}

// PostJSON marshals payload, POSTs it to url and decodes a JSON response into out.
func PostJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// Tokenize lowercases s and returns its letter and digit runs.
func Tokenize(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}
