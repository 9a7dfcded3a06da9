// internal/accuracy/accuracy.go
// Package accuracy scores the question-answering pipeline against questions
// with known answers, SQuAD style.
package accuracy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/mwiater/passageqa/internal/logging"
	"github.com/mwiater/passageqa/internal/rag"
)

// Asker is the part of rag.Service an accuracy run needs.
type Asker interface {
	Ask(ctx context.Context, question string, topK int) ([]rag.RankedAnswer, error)
}

// Options controls a run.
type Options struct {
	TopK        int
	Limit       int
	ResultsPath string
	Out         io.Writer
}

// squadFile is the dev/train layout; only questions and answer texts are read.
type squadFile struct {
	Data []struct {
		Paragraphs []struct {
			QAs []struct {
				ID       string `json:"id"`
				Question string `json:"question"`
				Answers  []struct {
					Text string `json:"text"`
				} `json:"answers"`
			} `json:"qas"`
		} `json:"paragraphs"`
	} `json:"data"`
}

// LoadSuite reads either a {"tests": [...]} suite or a SQuAD dataset file.
// Questions without any accepted answer are skipped.
func LoadSuite(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("error reading question suite: %w", err)
	}

	var shape map[string]json.RawMessage
	if err := json.Unmarshal(raw, &shape); err != nil {
		return Suite{}, fmt.Errorf("error parsing question suite: %w", err)
	}

	var suite Suite
	if _, ok := shape["data"]; ok {
		var squad squadFile
		if err := json.Unmarshal(raw, &squad); err != nil {
			return Suite{}, fmt.Errorf("error parsing SQuAD file: %w", err)
		}
		for _, article := range squad.Data {
			for _, p := range article.Paragraphs {
				for _, qa := range p.QAs {
					test := QuestionTest{ID: qa.ID, Question: qa.Question}
					for _, a := range qa.Answers {
						test.Answers = append(test.Answers, a.Text)
					}
					suite.Tests = append(suite.Tests, test)
				}
			}
		}
	} else if err := json.Unmarshal(raw, &suite); err != nil {
		return Suite{}, fmt.Errorf("error parsing question suite: %w", err)
	}

	kept := suite.Tests[:0]
	for _, t := range suite.Tests {
		if strings.TrimSpace(t.Question) != "" && len(t.Answers) > 0 {
			kept = append(kept, t)
		}
	}
	suite.Tests = kept
	if len(suite.Tests) == 0 {
		return Suite{}, fmt.Errorf("question suite contains no answerable tests")
	}
	return suite, nil
}

// Run asks every question in suite and scores the top-ranked answer. A failed
// question is recorded and counted as wrong; the run continues unless ctx ends.
func Run(ctx context.Context, asker Asker, suite Suite, opts Options) (Summary, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	tests := suite.Tests
	if opts.Limit > 0 && opts.Limit < len(tests) {
		tests = tests[:opts.Limit]
	}
	if opts.ResultsPath != "" {
		if dir := filepath.Dir(opts.ResultsPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return Summary{}, fmt.Errorf("error creating results directory: %w", err)
			}
		}
	}

	var summary Summary
	var emTotal, f1Total float64
	total := len(tests)
	for i, t := range tests {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		iteration := i + 1

		start := time.Now()
		answers, err := asker.Ask(ctx, t.Question, opts.TopK)
		result := Result{
			Timestamp:       time.Now().Format(time.RFC3339),
			QuestionID:      t.ID,
			Question:        t.Question,
			ExpectedAnswers: t.Answers,
			TopK:            opts.TopK,
			DurationMs:      time.Since(start).Milliseconds(),
		}
		summary.Questions++

		if err != nil {
			result.Error = err.Error()
			result.DeadlineExceeded = isDeadlineExceeded(err)
			summary.Errors++
			fmt.Fprintf(out, "[%d/%d] %s - Result: error=%v\n", iteration, total, t.ID, err)
		} else {
			if len(answers) > 0 {
				top := answers[0]
				result.Response = top.AnswerText
				result.PassageID = top.PassageID
				result.CombinedScore = top.CombinedScore
			}
			result.ExactMatch = MaxExactMatch(result.Response, t.Answers)
			result.F1 = MaxF1(result.Response, t.Answers)
			if result.ExactMatch {
				emTotal++
			}
			f1Total += result.F1
			fmt.Fprintf(out, "[%d/%d] %s - Result: exact=%t f1=%.3f response=%q\n", iteration, total, t.ID, result.ExactMatch, result.F1, result.Response)
		}

		if opts.ResultsPath != "" {
			if err := appendResult(opts.ResultsPath, result); err != nil {
				logging.LogEvent("error writing accuracy result for %s: %v", t.ID, err)
			}
		}
	}

	if summary.Questions > 0 {
		summary.ExactMatch = emTotal / float64(summary.Questions)
		summary.F1 = f1Total / float64(summary.Questions)
	}
	return summary, nil
}

func appendResult(path string, result Result) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(result); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}

var articles = regexp.MustCompile(`\b(a|an|the)\b`)

// NormalizeAnswer lowercases, drops punctuation and articles, and collapses whitespace.
func NormalizeAnswer(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
	s = articles.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// MaxExactMatch reports whether response equals any expected answer after normalization.
func MaxExactMatch(response string, expected []string) bool {
	got := NormalizeAnswer(response)
	for _, e := range expected {
		if got == NormalizeAnswer(e) {
			return true
		}
	}
	return false
}

// MaxF1 returns the best token-overlap F1 between response and any expected answer.
func MaxF1(response string, expected []string) float64 {
	best := 0.0
	for _, e := range expected {
		if f := f1(response, e); f > best {
			best = f
		}
	}
	return best
}

func f1(response, expected string) float64 {
	got := strings.Fields(NormalizeAnswer(response))
	want := strings.Fields(NormalizeAnswer(expected))
	if len(got) == 0 || len(want) == 0 {
		if len(got) == len(want) {
			return 1
		}
		return 0
	}
	counts := make(map[string]int, len(want))
	for _, w := range want {
		counts[w]++
	}
	common := 0
	for _, g := range got {
		if counts[g] > 0 {
			counts[g]--
			common++
		}
	}
	if common == 0 {
		return 0
	}
	precision := float64(common) / float64(len(got))
	recall := float64(common) / float64(len(want))
	return 2 * precision * recall / (precision + recall)
}

func isDeadlineExceeded(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "context deadline exceeded")
}
