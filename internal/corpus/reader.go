package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ReadStats counts what ReadDocuments saw.
type ReadStats struct {
	Files     int
	Documents int
	Blank     int
}

// squadDataset is the SQuAD v1/v2 file layout; only paragraph contexts are used.
type squadDataset struct {
	Data []struct {
		Title      string `json:"title"`
		Paragraphs []struct {
			Context string `json:"context"`
		} `json:"paragraphs"`
	} `json:"data"`
}

type jsonlRecord struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

// ReadDocuments reads every path into raw documents, in path order. Plain text
// and Markdown files are one document each; PDFs are reduced to plain text;
// SQuAD JSON files yield one document per paragraph context; JSONL files yield
// one document per record text or context. Blank documents are dropped.
func ReadDocuments(paths []string) ([]string, ReadStats, error) {
	var docs []string
	var stats ReadStats
	for _, path := range paths {
		found, err := readFile(path)
		if err != nil {
			return nil, stats, fmt.Errorf("read corpus file %s: %w", path, err)
		}
		stats.Files++
		for _, doc := range found {
			doc = strings.TrimSpace(doc)
			if doc == "" {
				stats.Blank++
				continue
			}
			docs = append(docs, doc)
		}
	}
	stats.Documents = len(docs)
	return docs, stats, nil
}

func readFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := readPDF(path)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	case ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseSquad(raw)
	case ".jsonl":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseJSONL(raw)
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []string{string(raw)}, nil
	}
}

func readPDF(path string) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}

func parseSquad(raw []byte) ([]string, error) {
	var ds squadDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse squad json: %w", err)
	}
	var docs []string
	for _, article := range ds.Data {
		for _, p := range article.Paragraphs {
			docs = append(docs, p.Context)
		}
	}
	return docs, nil
}

func parseJSONL(raw []byte) ([]string, error) {
	var docs []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("parse jsonl line %d: %w", line, err)
		}
		if rec.Text != "" {
			docs = append(docs, rec.Text)
		} else {
			docs = append(docs, rec.Context)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
