package rag

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func buildSample(t *testing.T) (*FlatIndex, []Passage) {
	t.Helper()
	idx, err := BuildFlatIndex([][]float32{unit(1, 0), unit(0, 1)})
	if err != nil {
		t.Fatalf("BuildFlatIndex: %v", err)
	}
	return idx, []Passage{{ID: 0, Text: "zero", OriginalTokenCount: 1}, {ID: 1, Text: "one", OriginalTokenCount: 1}}
}

func TestArtifactsSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "models")
	a := Artifacts{IndexPath: filepath.Join(dir, "index.bin"), PassagesPath: filepath.Join(dir, "passages.json")}
	if a.Exists() {
		t.Fatalf("artifacts should not exist yet")
	}
	idx, passages := buildSample(t)
	if err := a.Save(idx, passages); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !a.Exists() {
		t.Fatalf("expected artifacts to exist")
	}
	if idx.BuildID() == uuid.Nil {
		t.Fatalf("Save must stamp a build id")
	}

	loaded, loadedPassages, err := a.Load(2)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BuildID() != idx.BuildID() || len(loadedPassages) != 2 {
		t.Fatalf("unexpected load result")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected only the two artifacts, found %d entries", len(entries))
	}
}

func TestArtifactsLoadMissing(t *testing.T) {
	dir := t.TempDir()
	a := Artifacts{IndexPath: filepath.Join(dir, "index.bin"), PassagesPath: filepath.Join(dir, "passages.json")}
	if _, _, err := a.Load(0); !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}

	idx, passages := buildSample(t)
	if err := a.Save(idx, passages); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Remove(a.IndexPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := a.Load(0); !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound with index missing, got %v", err)
	}
}

func TestArtifactsLoadRejectsMixedBuilds(t *testing.T) {
	dir := t.TempDir()
	a := Artifacts{IndexPath: filepath.Join(dir, "index.bin"), PassagesPath: filepath.Join(dir, "passages.json")}
	idx, passages := buildSample(t)
	if err := a.Save(idx, passages); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Simulate a crash between the two renames of a later build.
	idx.buildID = uuid.New()
	if err := idx.Save(a.IndexPath); err != nil {
		t.Fatalf("Save index: %v", err)
	}
	if _, _, err := a.Load(0); !errors.Is(err, ErrIndexCorrupt) {
		t.Fatalf("expected ErrIndexCorrupt, got %v", err)
	}
}

func TestArtifactsSaveRejectsLengthMismatch(t *testing.T) {
	dir := t.TempDir()
	a := Artifacts{IndexPath: filepath.Join(dir, "index.bin"), PassagesPath: filepath.Join(dir, "passages.json")}
	idx, passages := buildSample(t)
	if err := a.Save(idx, passages[:1]); err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
	if a.Exists() {
		t.Fatalf("no artifacts should be written")
	}
}

func TestArtifactsSaveFailureKeepsBuildID(t *testing.T) {
	dir := t.TempDir()
	passagesPath := filepath.Join(dir, "passages.json")
	if err := os.MkdirAll(filepath.Join(passagesPath, "occupied"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	a := Artifacts{IndexPath: filepath.Join(dir, "index.bin"), PassagesPath: passagesPath}
	idx, passages := buildSample(t)
	if err := a.Save(idx, passages); err == nil {
		t.Fatalf("expected Save to fail when the passages path is a non-empty directory")
	}
	if idx.BuildID() != uuid.Nil {
		t.Fatalf("build id assigned after failed save: %s", idx.BuildID())
	}
}
