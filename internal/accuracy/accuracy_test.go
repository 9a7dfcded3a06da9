package accuracy

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/passageqa/internal/rag"
)

type scriptedAsker map[string][]rag.RankedAnswer

func (s scriptedAsker) Ask(_ context.Context, question string, _ int) ([]rag.RankedAnswer, error) {
	answers, ok := s[question]
	if !ok {
		return nil, fmt.Errorf("%w: extractor down", context.DeadlineExceeded)
	}
	return answers, nil
}

func TestNormalizeAnswer(t *testing.T) {
	if got := NormalizeAnswer("  The Eiffel-Tower, in Paris! "); got != "eiffeltower in paris" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestMaxExactMatchAndF1(t *testing.T) {
	if !MaxExactMatch("the Denver Broncos", []string{"Carolina Panthers", "Denver Broncos"}) {
		t.Fatalf("expected exact match against second answer")
	}
	if MaxExactMatch("Broncos", []string{"Denver Broncos"}) {
		t.Fatalf("partial answer must not be an exact match")
	}
	if got := MaxF1("Broncos", []string{"Denver Broncos"}); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Fatalf("expected F1 2/3, got %v", got)
	}
	if got := MaxF1("", []string{"Denver"}); got != 0 {
		t.Fatalf("expected 0 for empty response, got %v", got)
	}
}

func TestLoadSuiteSquadAndFlat(t *testing.T) {
	dir := t.TempDir()
	squad := `{"data":[{"title":"t","paragraphs":[{"context":"c","qas":[
		{"id":"q1","question":"Who won?","answers":[{"text":"Denver Broncos"}]},
		{"id":"q2","question":"Unanswerable?","answers":[]}]}]}]}`
	squadPath := filepath.Join(dir, "dev.json")
	if err := os.WriteFile(squadPath, []byte(squad), 0o644); err != nil {
		t.Fatal(err)
	}
	suite, err := LoadSuite(squadPath)
	if err != nil {
		t.Fatalf("LoadSuite squad: %v", err)
	}
	if len(suite.Tests) != 1 || suite.Tests[0].ID != "q1" || suite.Tests[0].Answers[0] != "Denver Broncos" {
		t.Fatalf("unexpected squad suite %+v", suite)
	}

	flatPath := filepath.Join(dir, "suite.json")
	if err := os.WriteFile(flatPath, []byte(`{"tests":[{"id":"a","question":"q?","answers":["x"]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if suite, err = LoadSuite(flatPath); err != nil || len(suite.Tests) != 1 {
		t.Fatalf("LoadSuite flat: %v %+v", err, suite)
	}

	emptyPath := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(emptyPath, []byte(`{"tests":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSuite(emptyPath); err == nil {
		t.Fatalf("expected an error for an empty suite")
	}
}

func TestRunScoresAndWritesResults(t *testing.T) {
	asker := scriptedAsker{
		"Who won?":     {{PassageID: 3, AnswerText: "The Denver Broncos.", CombinedScore: 0.5}},
		"Where is it?": {{PassageID: 1, AnswerText: "somewhere in Paris", CombinedScore: 0.2}},
	}
	suite := Suite{Tests: []QuestionTest{
		{ID: "a", Question: "Who won?", Answers: []string{"Denver Broncos"}},
		{ID: "b", Question: "Where is it?", Answers: []string{"Paris"}},
		{ID: "c", Question: "Timeout?", Answers: []string{"x"}},
	}}

	resultsPath := filepath.Join(t.TempDir(), "results", "run.jsonl")
	var out bytes.Buffer
	summary, err := Run(context.Background(), asker, suite, Options{TopK: 3, ResultsPath: resultsPath, Out: &out})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Questions != 3 || summary.Errors != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if math.Abs(summary.ExactMatch-1.0/3.0) > 1e-9 {
		t.Fatalf("expected EM 1/3, got %v", summary.ExactMatch)
	}
	if !strings.Contains(out.String(), "[3/3] c - Result: error=") {
		t.Fatalf("expected progress lines, got %s", out.String())
	}

	file, err := os.Open(resultsPath)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer file.Close()
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines++
		if lines == 3 && !strings.Contains(scanner.Text(), `"deadlineExceeded":true`) {
			t.Fatalf("expected deadline flag on failed question, got %s", scanner.Text())
		}
	}
	if lines != 3 {
		t.Fatalf("expected 3 result lines, got %d", lines)
	}
}

func TestRunHonorsLimitAndCancel(t *testing.T) {
	asker := scriptedAsker{"q": {{AnswerText: "x"}}}
	suite := Suite{Tests: []QuestionTest{
		{ID: "1", Question: "q", Answers: []string{"x"}},
		{ID: "2", Question: "q", Answers: []string{"x"}},
	}}
	summary, err := Run(context.Background(), asker, suite, Options{Limit: 1})
	if err != nil || summary.Questions != 1 || summary.ExactMatch != 1 {
		t.Fatalf("unexpected limited run %+v %v", summary, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, asker, suite, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
