package rag

import (
	"math"
	"strings"
)

const (
	// DefaultMaxWords is the window length used when none is configured.
	DefaultMaxWords = 150
	// DefaultStrideFraction is the share of each window repeated at the start of the next one.
	DefaultStrideFraction = 1.0 / 3.0
)

// Window is one chunk of a document together with its word offset and length.
type Window struct {
	Offset int
	Text   string
	Words  int
}

// Chunk splits text into overlapping windows of at most maxWords whitespace-delimited words.
func Chunk(text string, maxWords int, strideFraction float64) []string {
	windows := ChunkWindows(text, maxWords, strideFraction)
	if len(windows) == 0 {
		return nil
	}
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.Text
	}
	return out
}

// ChunkWindows is Chunk with word offsets. A document that fits in one window
// is returned unchanged; longer documents advance by
// maxWords - floor(maxWords*strideFraction) words until a window reaches the end.
func ChunkWindows(text string, maxWords int, strideFraction float64) []Window {
	if maxWords <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= maxWords {
		return []Window{{Offset: 0, Text: text, Words: len(words)}}
	}

	step := maxWords - overlapWords(maxWords, strideFraction)
	if step <= 0 {
		step = maxWords
	}

	var windows []Window
	for i := 0; i < len(words); i += step {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, Window{
			Offset: i,
			Text:   strings.Join(words[i:end], " "),
			Words:  end - i,
		})
		if end == len(words) {
			break
		}
	}
	return windows
}

// overlapWords returns floor(maxWords*fraction). The small bias keeps 150*(1/3)
// at 50 despite 1/3 not being representable.
func overlapWords(maxWords int, fraction float64) int {
	if fraction <= 0 || math.IsNaN(fraction) {
		return 0
	}
	n := int(math.Floor(float64(maxWords)*fraction + 1e-9))
	if n > maxWords {
		n = maxWords
	}
	return n
}
