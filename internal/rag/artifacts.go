package rag

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mwiater/passageqa/internal/appconfig"
)

// Artifacts locates the persisted index and passage table of one build.
type Artifacts struct {
	IndexPath    string
	PassagesPath string
}

// NewArtifacts returns the artifact paths configured in cfg.
func NewArtifacts(cfg appconfig.Config) Artifacts {
	return Artifacts{IndexPath: cfg.IndexPath(), PassagesPath: cfg.PassagesPath()}
}

// Exists reports whether both artifact files are present.
func (a Artifacts) Exists() bool {
	return fileExists(a.IndexPath) && fileExists(a.PassagesPath)
}

// Save stamps a fresh build id into the index and passage table and writes
// both. Each file is written to a temp file beside its target and renamed into
// place; on failure the temp files are removed and existing artifacts stay.
func (a Artifacts) Save(index *FlatIndex, passages []Passage) error {
	if index == nil {
		return fmt.Errorf("index is nil")
	}
	if index.Len() != len(passages) {
		return fmt.Errorf("index has %d vectors but passage table has %d entries", index.Len(), len(passages))
	}
	for _, path := range []string{a.IndexPath, a.PassagesPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}

	buildID := uuid.New()

	indexTmp, err := tempPath(a.IndexPath)
	if err != nil {
		return err
	}
	defer os.Remove(indexTmp)
	passagesTmp, err := tempPath(a.PassagesPath)
	if err != nil {
		return err
	}
	defer os.Remove(passagesTmp)

	if err := index.saveAs(indexTmp, buildID); err != nil {
		return err
	}
	table := PassageTable{BuildID: buildID, Dimension: index.Dimension(), Passages: passages}
	if err := SavePassages(passagesTmp, table); err != nil {
		return err
	}

	if err := os.Rename(indexTmp, a.IndexPath); err != nil {
		return fmt.Errorf("install index file: %w", err)
	}
	if err := os.Rename(passagesTmp, a.PassagesPath); err != nil {
		return fmt.Errorf("install passages file: %w", err)
	}
	index.buildID = buildID
	return nil
}

// Load reads both artifacts and checks that they come from the same build.
func (a Artifacts) Load(expectedDim int) (*FlatIndex, []Passage, error) {
	table, err := LoadPassages(a.PassagesPath)
	if err != nil {
		return nil, nil, err
	}
	index, err := LoadFlatIndex(a.IndexPath, expectedDim)
	if err != nil {
		return nil, nil, err
	}
	if index.BuildID() != table.BuildID {
		return nil, nil, corruptf("index build %s does not match passage table build %s", index.BuildID(), table.BuildID)
	}
	if index.Dimension() != table.Dimension {
		return nil, nil, corruptf("index dimension %d does not match passage table dimension %d", index.Dimension(), table.Dimension)
	}
	if index.Len() != len(table.Passages) {
		return nil, nil, corruptf("index has %d vectors but passage table has %d entries", index.Len(), len(table.Passages))
	}
	return index, table.Passages, nil
}

func tempPath(target string) (string, error) {
	file, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := file.Name()
	if err := file.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return name, nil
}
