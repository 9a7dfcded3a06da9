package rag

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

// PassageTable is the persisted form of the passage list; position equals passage id.
type PassageTable struct {
	BuildID   uuid.UUID `json:"build_id"`
	Dimension int       `json:"dimension"`
	Passages  []Passage `json:"passages"`
}

const passageTableSchema = `{
  "type": "object",
  "required": ["build_id", "dimension", "passages"],
  "properties": {
    "build_id": {"type": "string", "minLength": 36, "maxLength": 36},
    "dimension": {"type": "integer", "minimum": 1},
    "passages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "text", "source_document_id", "chunk_index", "original_token_count"],
        "properties": {
          "id": {"type": "integer", "minimum": 0},
          "text": {"type": "string"},
          "source_document_id": {"type": "integer", "minimum": 0},
          "chunk_index": {"type": "integer", "minimum": 0},
          "original_token_count": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var passageSchemaLoader = gojsonschema.NewStringLoader(passageTableSchema)

// SavePassages writes the table as JSON to path.
func SavePassages(path string, table PassageTable) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create passages file: %w", err)
	}
	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(table); err != nil {
		_ = file.Close()
		return fmt.Errorf("write passages: %w", err)
	}
	if err := writer.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush passages: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync passages file: %w", err)
	}
	return file.Close()
}

// LoadPassages reads and validates a passage table written by SavePassages.
func LoadPassages(path string) (PassageTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return PassageTable{}, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return PassageTable{}, fmt.Errorf("read passages file: %w", err)
	}
	return decodePassages(raw)
}

func decodePassages(raw []byte) (PassageTable, error) {
	result, err := gojsonschema.Validate(passageSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return PassageTable{}, corruptf("passages file is not valid JSON: %v", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return PassageTable{}, corruptf("passages file failed validation: %s", strings.Join(details, "; "))
	}

	var table PassageTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return PassageTable{}, corruptf("decode passages: %v", err)
	}
	for i, p := range table.Passages {
		if p.ID != i {
			return PassageTable{}, corruptf("passage at position %d has id %d", i, p.ID)
		}
	}
	return table, nil
}
