// internal/providers/multiplex/provider.go
// Package multiplex chains extractors so a failing backend can fall back to another.
package multiplex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/providers"
)

// Named pairs an extractor with the provider name used in logs.
type Named struct {
	Name      string
	Extractor providers.Extractor
}

// Extractor tries each extractor in order and returns the first success.
type Extractor struct {
	chain []Named
}

// New constructs an Extractor over chain. Entries with a nil extractor are dropped.
func New(chain ...Named) *Extractor {
	kept := make([]Named, 0, len(chain))
	for _, n := range chain {
		if n.Extractor == nil {
			continue
		}
		n.Name = normalizeName(n.Name)
		kept = append(kept, n)
	}
	return &Extractor{chain: kept}
}

// Extract delegates to the chain. When every extractor fails the errors are joined.
func (m *Extractor) Extract(ctx context.Context, question, passage string) (providers.Extraction, error) {
	if len(m.chain) == 0 {
		return providers.Extraction{}, fmt.Errorf("multiplex: no extractors configured")
	}
	var errs []error
	for i, n := range m.chain {
		out, err := n.Extractor.Extract(ctx, question, passage)
		if err == nil {
			return out, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", n.Name, err))
		if ctx.Err() != nil {
			break
		}
		if i+1 < len(m.chain) {
			logging.LogEvent("[EXTRACT] %s failed, falling back to %s: %v", n.Name, m.chain[i+1].Name, err)
		}
	}
	return providers.Extraction{}, errors.Join(errs...)
}

// Names returns the provider names in fallback order.
func (m *Extractor) Names() []string {
	names := make([]string, len(m.chain))
	for i, n := range m.chain {
		names[i] = n.Name
	}
	return names
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "unknown"
	}
	return name
}
