// Package lexical provides an offline Extractor that answers with the passage
// sentence sharing the most content words with the question.
package lexical

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/mwiater/passageqa/internal/providers"
	"github.com/mwiater/passageqa/internal/rag"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Extractor scores sentences by the Ochiai coefficient between question and
// sentence content-word sets: |A∩B| / sqrt(|A||B|).
type Extractor struct{}

// New returns a lexical Extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns the best sentence and its overlap score in [0,1]. Ties keep
// the earlier sentence. No overlap yields an empty answer with score 0.
func (e *Extractor) Extract(ctx context.Context, question, passage string) (providers.Extraction, error) {
	if err := ctx.Err(); err != nil {
		return providers.Extraction{}, err
	}
	if strings.TrimSpace(passage) == "" {
		return providers.Extraction{}, nil
	}
	qset := contentSet(question)
	if len(qset) == 0 {
		return providers.Extraction{}, nil
	}

	var best providers.Extraction
	for _, sentence := range splitSentences(passage) {
		score := ochiai(qset, contentSet(sentence))
		if score > best.Score {
			best = providers.Extraction{Answer: sentence, Score: score}
		}
	}
	return best, nil
}

func splitSentences(text string) []string {
	var out []string
	matches := sentenceRe.FindAllStringIndex(text, -1)
	last := 0
	for _, m := range matches {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			out = append(out, s)
		}
		last = m[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func contentSet(s string) map[string]struct{} {
	tokens := providers.Tokenize(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if rag.IsStopword(t) {
			continue
		}
		m[t] = struct{}{}
	}
	return m
}

func ochiai(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range b {
		if _, ok := a[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(a))*float64(len(b)))
}
