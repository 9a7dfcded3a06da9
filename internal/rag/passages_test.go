package rag

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestPassagesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passages.json")
	table := PassageTable{
		BuildID:   uuid.New(),
		Dimension: 8,
		Passages: []Passage{
			{ID: 0, Text: "Paris is the capital of France.", SourceDocumentID: 0, ChunkIndex: 0, OriginalTokenCount: 6},
			{ID: 1, Text: "<b>Berlin</b> & Germany", SourceDocumentID: 1, ChunkIndex: 0, OriginalTokenCount: 4},
		},
	}
	if err := SavePassages(path, table); err != nil {
		t.Fatalf("SavePassages: %v", err)
	}
	loaded, err := LoadPassages(path)
	if err != nil {
		t.Fatalf("LoadPassages: %v", err)
	}
	if loaded.BuildID != table.BuildID || loaded.Dimension != 8 || len(loaded.Passages) != 2 {
		t.Fatalf("unexpected table %+v", loaded)
	}
	if loaded.Passages[1] != table.Passages[1] {
		t.Fatalf("passage mismatch: %+v", loaded.Passages[1])
	}
}

func TestLoadPassagesMissing(t *testing.T) {
	if _, err := LoadPassages(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestLoadPassagesRejectsInvalid(t *testing.T) {
	id := uuid.New().String()
	cases := map[string]string{
		"not json":       `{"build_id":`,
		"missing fields": `{"build_id":"` + id + `","dimension":4,"passages":[{"id":0,"text":"x"}]}`,
		"negative id":    `{"build_id":"` + id + `","dimension":4,"passages":[{"id":-1,"text":"x","source_document_id":0,"chunk_index":0,"original_token_count":1}]}`,
		"id gap":         `{"build_id":"` + id + `","dimension":4,"passages":[{"id":1,"text":"x","source_document_id":0,"chunk_index":0,"original_token_count":1}]}`,
		"zero dimension": `{"build_id":"` + id + `","dimension":0,"passages":[]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "passages.json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadPassages(path); !errors.Is(err, ErrIndexCorrupt) {
				t.Fatalf("expected ErrIndexCorrupt, got %v", err)
			}
		})
	}
}
