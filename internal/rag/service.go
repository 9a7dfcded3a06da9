package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mwiater/passageqa/internal/appconfig"
	"github.com/mwiater/passageqa/internal/logging"
)

// ServiceConfig is the subset of configuration a Service needs.
type ServiceConfig struct {
	Artifacts         Artifacts
	ExpectedDimension int
	DefaultTopK       int
	Epsilon           float64
	ExtractWorkers    int
	EmbedderName      string
	ExtractorName     string
}

// ServiceConfigFromConfig maps application configuration onto ServiceConfig.
func ServiceConfigFromConfig(cfg appconfig.Config) ServiceConfig {
	return ServiceConfig{
		Artifacts:         NewArtifacts(cfg),
		ExpectedDimension: cfg.EmbeddingDimension,
		DefaultTopK:       cfg.DefaultTopK(),
		Epsilon:           cfg.Epsilon(),
		ExtractWorkers:    cfg.ExtractWorkers(),
		EmbedderName:      cfg.EmbedderName(),
		ExtractorName:     cfg.ExtractorName(),
	}
}

// Stats describes the loaded index.
type Stats struct {
	Passages  int       `json:"passages"`
	Dimension int       `json:"dimension"`
	BuildID   uuid.UUID `json:"build_id"`
	LoadedAt  time.Time `json:"loaded_at"`
}

type snapshot struct {
	retriever *Retriever
	stats     Stats
}

// Service answers questions against one loaded index. The loaded pair is an
// immutable snapshot; Reload swaps it without blocking in-flight queries.
type Service struct {
	cfg      ServiceConfig
	embedder Embedder
	fuser    *Fuser
	current  atomic.Pointer[snapshot]
}

// OpenService loads the artifacts named in cfg. Both files must load or the
// service is not created.
func OpenService(cfg ServiceConfig, embedder Embedder, extractor Extractor) (*Service, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor is nil")
	}
	if cfg.DefaultTopK < 1 {
		cfg.DefaultTopK = 5
	}
	s := &Service{
		cfg:      cfg,
		embedder: embedder,
		fuser: NewFuser(extractor,
			WithEpsilon(cfg.Epsilon),
			WithConcurrency(cfg.ExtractWorkers),
			WithFailureLogger(func(err *ExtractionError) {
				logging.LogCollaborator("extraction", cfg.ExtractorName, "", err, map[string]int{"passage_id": err.PassageID})
			}),
		),
	}
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	s.current.Store(snap)
	return s, nil
}

func (s *Service) load() (*snapshot, error) {
	index, passages, err := s.cfg.Artifacts.Load(s.cfg.ExpectedDimension)
	if err != nil {
		if errors.Is(err, ErrIndexNotFound) {
			return nil, fmt.Errorf("%w; run `passageqa build` first", err)
		}
		return nil, err
	}
	return &snapshot{
		retriever: NewRetriever(index, passages, s.embedder),
		stats: Stats{
			Passages:  len(passages),
			Dimension: index.Dimension(),
			BuildID:   index.BuildID(),
			LoadedAt:  time.Now(),
		},
	}, nil
}

// Ask retrieves up to topK passages for question and returns every extracted
// answer ranked by combined score. A topK of zero uses the configured default.
func (s *Service) Ask(ctx context.Context, question string, topK int) ([]RankedAnswer, error) {
	candidates, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}
	return s.fuser.Rank(ctx, question, candidates), nil
}

// Retrieve runs retrieval alone.
func (s *Service) Retrieve(ctx context.Context, question string, topK int) ([]QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if topK == 0 {
		topK = s.cfg.DefaultTopK
	}
	return s.current.Load().retriever.Query(ctx, question, topK)
}

// Reload loads the artifacts again and swaps them in. On failure the previous
// snapshot keeps serving.
func (s *Service) Reload() (Stats, error) {
	snap, err := s.load()
	if err != nil {
		return s.Stats(), err
	}
	s.current.Store(snap)
	logging.LogEvent("[SERVICE] Reloaded index build %s (%d passages)", snap.stats.BuildID, snap.stats.Passages)
	return snap.stats, nil
}

// Stats returns statistics for the snapshot currently serving queries.
func (s *Service) Stats() Stats {
	return s.current.Load().stats
}
