package rag

import "context"

// Passage is one chunk of a source document. Passages are created by the
// index builder and never change afterwards; ID is the position in the table.
type Passage struct {
	ID                 int    `json:"id"`
	Text               string `json:"text"`
	SourceDocumentID   int    `json:"source_document_id"`
	ChunkIndex         int    `json:"chunk_index"`
	OriginalTokenCount int    `json:"original_token_count"`
}

// QueryResult is a retrieved passage with its inner-product score.
type QueryResult struct {
	PassageID      int     `json:"passage_id"`
	PassageText    string  `json:"passage_text"`
	RetrievalScore float64 `json:"retrieval_score"`
}

// RankedAnswer is an extracted answer with retrieval, extraction and fused scores.
type RankedAnswer struct {
	PassageID       int     `json:"passage_id"`
	AnswerText      string  `json:"answer_text"`
	ExtractionScore float64 `json:"extraction_score"`
	RetrievalScore  float64 `json:"retrieval_score"`
	CombinedScore   float64 `json:"combined_score"`
	Failed          bool    `json:"failed,omitempty"`
}

// Extraction is the answer span an Extractor found in a context.
type Extraction struct {
	Answer string
	Score  float64
}

// Embedder turns a batch of texts into vectors of one fixed dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Extractor finds the answer to a question inside a passage. Passages without
// an answer should yield an empty, low-score Extraction rather than an error.
type Extractor interface {
	Extract(ctx context.Context, question, passage string) (Extraction, error)
}

// EmbedderFunc adapts a function to the Embedder interface.
type EmbedderFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Embed calls f.
func (f EmbedderFunc) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return f(ctx, texts)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, question, passage string) (Extraction, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, question, passage string) (Extraction, error) {
	return f(ctx, question, passage)
}
