package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/store"
	"go.uber.org/zap"
)

var ErrVectorsDisabled = errors.New("vector evidence is not configured")

// VectorEvidenceService annotates vectorized attributions with the cosine
// similarity between the entry's cached content embedding and the scan
// window. Purely additive: any failure leaves the report untouched.
type VectorEvidenceService struct {
	vectors  domain.EntryVectorStore
	embedder domain.EmbeddingClient
	logger   *zap.Logger
}

func NewVectorEvidenceService(vectors domain.EntryVectorStore, embedder domain.EmbeddingClient, logger *zap.Logger) *VectorEvidenceService {
	return &VectorEvidenceService{
		vectors:  vectors,
		embedder: embedder,
		logger:   logger,
	}
}

// Register embeds entry content and caches the vector.
func (s *VectorEvidenceService) Register(ctx context.Context, entryID, content string) error {
	if s.vectors == nil || s.embedder == nil {
		return ErrVectorsDisabled
	}

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed entry content: %w", err)
	}
	if err := s.vectors.Upsert(ctx, entryID, content, embedding); err != nil {
		return fmt.Errorf("upsert entry vector: %w", err)
	}
	return nil
}

// Enrich attaches similarity scores to vectorized-mechanism reports in
// place. Entries without a cached vector are silently skipped.
func (s *VectorEvidenceService) Enrich(ctx context.Context, reports []domain.AttributionReport, scanText string) {
	if s.vectors == nil || s.embedder == nil || scanText == "" {
		return
	}

	var query []float32
	for i := range reports {
		if reports[i].Mechanism != domain.MechanismVectorized {
			continue
		}

		if query == nil {
			embedded, err := s.embedder.Embed(ctx, scanText)
			if err != nil {
				s.logger.Debug("failed to embed scan text for similarity evidence", zap.Error(err))
				return
			}
			query = embedded
		}

		similarity, err := s.vectors.Similarity(ctx, reports[i].EntryID, query)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				s.logger.Debug("similarity lookup failed",
					zap.String("entry_id", reports[i].EntryID),
					zap.Error(err))
			}
			continue
		}
		reports[i].Evidence.SimilarityScore = &similarity
	}
}
