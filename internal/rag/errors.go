package rag

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound means the index or passage file is missing; run the build step first.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexCorrupt means a persisted artifact exists but cannot be trusted.
	ErrIndexCorrupt = errors.New("index corrupt")
	// ErrDimensionMismatch means a vector does not have the index dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrEmbeddingCollaborator marks failures of the embedding provider.
	ErrEmbeddingCollaborator = errors.New("embedding collaborator failed")
	// ErrExtractionCollaborator marks failures of the answer extraction provider.
	ErrExtractionCollaborator = errors.New("extraction collaborator failed")
	// ErrInvalidTopK is returned when fewer than one passage is requested.
	ErrInvalidTopK = errors.New("topK must be at least 1")
	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question is empty")
)

// EmbeddingError wraps an embedding provider failure.
type EmbeddingError struct {
	Op  string
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrEmbeddingCollaborator, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *EmbeddingError) Unwrap() []error {
	return []error{ErrEmbeddingCollaborator, e.Err}
}

// ExtractionError wraps an extraction failure for one candidate passage.
type ExtractionError struct {
	PassageID int
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract passage %d: %v: %v", e.PassageID, ErrExtractionCollaborator, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtractionCollaborator, e.Err}
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIndexCorrupt, fmt.Sprintf(format, args...))
}
