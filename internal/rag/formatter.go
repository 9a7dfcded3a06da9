package rag

import (
	"fmt"
	"strings"
)

// FormatResults renders retrieved passages one per line, each truncated to
// maxWords words. maxWords <= 0 disables truncation.
func FormatResults(results []QueryResult, maxWords int) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range results {
		text := strings.TrimSpace(r.PassageText)
		if maxWords > 0 {
			text = truncateToWords(text, maxWords)
		}
		b.WriteString(fmt.Sprintf("%d. [passage:%d score=%.4f] %s\n", i+1, r.PassageID, r.RetrievalScore, text))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAnswers renders ranked answers one per line. Failed extractions are marked.
func FormatAnswers(answers []RankedAnswer) string {
	if len(answers) == 0 {
		return ""
	}
	var b strings.Builder
	for i, a := range answers {
		answer := strings.TrimSpace(a.AnswerText)
		switch {
		case a.Failed:
			answer = "(extraction failed)"
		case answer == "":
			answer = "(no answer)"
		}
		b.WriteString(fmt.Sprintf("%d. %s [passage:%d combined=%.4f extraction=%.4f retrieval=%.4f]\n",
			i+1, answer, a.PassageID, a.CombinedScore, a.ExtractionScore, a.RetrievalScore))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncateToWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return ""
	}
	parts := strings.Fields(text)
	if len(parts) <= maxWords {
		return text
	}
	return strings.Join(parts[:maxWords], " ") + " ..."
}
