package rag

import "strings"

var englishStopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "should", "now", "he", "she", "they", "we", "i", "you", "his", "her", "their", "our", "my", "your", "has", "have", "had", "do", "does", "did", "not", "no", "nor", "which", "who", "whom", "what", "when", "where", "why", "how", "all", "any", "both", "each", "few", "more", "most", "other", "some", "only", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// StripStopwords drops common English function words from text, keeping word
// order. Text made only of stopwords is returned unchanged so no passage ends up empty.
func StripStopwords(text string) string {
	words := strings.Fields(text)
	kept := words[:0:0]
	for _, w := range words {
		if _, stop := englishStopwords[strings.ToLower(w)]; stop {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		return text
	}
	return strings.Join(kept, " ")
}

// IsStopword reports whether word, compared case-insensitively, is a common English function word.
func IsStopword(word string) bool {
	_, ok := englishStopwords[strings.ToLower(word)]
	return ok
}
