package rag

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func sampleIndex(t *testing.T) *FlatIndex {
	t.Helper()
	idx, err := BuildFlatIndex([][]float32{unit(1, 2, 3), unit(-1, 0.5, 0), unit(0.1, 0.1, 0.1)})
	if err != nil {
		t.Fatalf("BuildFlatIndex: %v", err)
	}
	idx.buildID = uuid.New()
	return idx
}

func TestIndexRoundTripIsBitExact(t *testing.T) {
	idx := sampleIndex(t)
	path := filepath.Join(t.TempDir(), "index.bin")
	if err := idx.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadFlatIndex(path, 3)
	if err != nil {
		t.Fatalf("LoadFlatIndex: %v", err)
	}
	if loaded.Len() != idx.Len() || loaded.Dimension() != idx.Dimension() {
		t.Fatalf("shape mismatch: %d x %d", loaded.Len(), loaded.Dimension())
	}
	if loaded.BuildID() != idx.BuildID() {
		t.Fatalf("build id mismatch")
	}
	for i := range idx.data {
		if math.Float32bits(idx.data[i]) != math.Float32bits(loaded.data[i]) {
			t.Fatalf("value %d differs after round trip", i)
		}
	}
}

func TestLoadFlatIndexMissing(t *testing.T) {
	_, err := LoadFlatIndex(filepath.Join(t.TempDir(), "missing.bin"), 0)
	if !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestLoadFlatIndexRejectsDamage(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleIndex(t).WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	good := buf.Bytes()

	cases := map[string][]byte{
		"truncated":     good[:len(good)-6],
		"header only":   good[:indexHeaderSize],
		"bad magic":     append([]byte("NOTANIDX"), good[8:]...),
		"flipped value": flip(good, indexHeaderSize+2),
		"extra bytes":   append(append([]byte(nil), good...), 0, 0, 0, 0),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.bin")
			if err := os.WriteFile(path, data, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadFlatIndex(path, 0); !errors.Is(err, ErrIndexCorrupt) {
				t.Fatalf("expected ErrIndexCorrupt, got %v", err)
			}
		})
	}
}

func TestLoadFlatIndexWrongDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	if err := sampleIndex(t).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := LoadFlatIndex(path, 4); !errors.Is(err, ErrIndexCorrupt) {
		t.Fatalf("expected ErrIndexCorrupt for dimension 4, got %v", err)
	}
}

func flip(data []byte, at int) []byte {
	out := append([]byte(nil), data...)
	out[at] ^= 0xFF
	return out
}
