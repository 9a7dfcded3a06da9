package rag

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultEpsilon keeps a confident extraction from being zeroed by a zero retrieval score.
const DefaultEpsilon = 1e-6

// FailureLogger receives extraction failures that were absorbed into the ranking.
type FailureLogger func(err *ExtractionError)

// Fuser runs the extractor over retrieved passages and ranks the answers by
// extraction_score * (retrieval_score + epsilon).
type Fuser struct {
	extractor   Extractor
	epsilon     float64
	concurrency int
	onFailure   FailureLogger
}

// FuserOption configures a Fuser.
type FuserOption func(*Fuser)

// WithEpsilon overrides DefaultEpsilon.
func WithEpsilon(eps float64) FuserOption {
	return func(f *Fuser) { f.epsilon = eps }
}

// WithConcurrency bounds the number of extraction calls in flight; values below 1 mean 1.
func WithConcurrency(n int) FuserOption {
	return func(f *Fuser) { f.concurrency = n }
}

// WithFailureLogger registers a callback for absorbed extraction failures.
func WithFailureLogger(fn FailureLogger) FuserOption {
	return func(f *Fuser) { f.onFailure = fn }
}

// NewFuser returns a Fuser around extractor.
func NewFuser(extractor Extractor, opts ...FuserOption) *Fuser {
	f := &Fuser{extractor: extractor, epsilon: DefaultEpsilon, concurrency: 1}
	for _, opt := range opts {
		opt(f)
	}
	if f.concurrency < 1 {
		f.concurrency = 1
	}
	return f
}

// CombinedScore fuses the two scores.
func CombinedScore(extraction, retrieval, epsilon float64) float64 {
	return extraction * (retrieval + epsilon)
}

// Rank extracts an answer from every candidate and returns all of them sorted by
// combined score, highest first. Equal scores keep candidate order. A failing
// extraction yields an empty answer with zero extraction score; it never fails
// the ranking.
func (f *Fuser) Rank(ctx context.Context, question string, candidates []QueryResult) []RankedAnswer {
	answers := make([]RankedAnswer, len(candidates))
	failures := make([]*ExtractionError, len(candidates))

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			answer := RankedAnswer{PassageID: c.PassageID, RetrievalScore: c.RetrievalScore}
			out, err := f.extract(ctx, question, c.PassageText)
			if err != nil {
				answer.Failed = true
				failures[i] = &ExtractionError{PassageID: c.PassageID, Err: err}
			} else {
				answer.AnswerText = out.Answer
				answer.ExtractionScore = out.Score
			}
			answer.CombinedScore = CombinedScore(answer.ExtractionScore, answer.RetrievalScore, f.epsilon)
			answers[i] = answer
			return nil
		})
	}
	_ = g.Wait()

	if f.onFailure != nil {
		for _, failure := range failures {
			if failure != nil {
				f.onFailure(failure)
			}
		}
	}

	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].CombinedScore > answers[j].CombinedScore
	})
	return answers
}

// extract shields the ranking from extractor panics as well as errors.
func (f *Fuser) extract(ctx context.Context, question, passage string) (out Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	return f.extractor.Extract(ctx, question, passage)
}

type panicError struct{ value any }

func (p panicError) Error() string {
	return fmt.Sprintf("extractor panicked: %v", p.value)
}
