package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/engine"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// AttributionService orchestrates the engine for the HTTP layer: it owns
// the event sequence lock, persists reports, and enriches vectorized
// attributions with similarity evidence. The engine assumes one active
// generation at a time; the mutex serializes overlapping requests.
type AttributionService struct {
	mu      sync.Mutex
	engine  *engine.Engine
	reports domain.ReportStore
	vectors *VectorEvidenceService
	logger  *zap.Logger
}

func NewAttributionService(eng *engine.Engine, reports domain.ReportStore, vectors *VectorEvidenceService, logger *zap.Logger) *AttributionService {
	return &AttributionService{
		engine:  eng,
		reports: reports,
		vectors: vectors,
		logger:  logger,
	}
}

// StartGeneration begins a new attribution cycle and returns its id.
func (s *AttributionService) StartGeneration(generationType string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycleID := uuid.NewString()
	s.engine.OnGenerationStart(cycleID, generationType)
	s.logger.Info("generation cycle started",
		zap.String("cycle_id", cycleID),
		zap.String("generation_type", generationType))
	return cycleID
}

// ForceActivated records externally forced activations for the current cycle.
func (s *AttributionService) ForceActivated(entries []domain.LoreEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.OnEntriesForceActivated(entries)
}

// EntriesActivated runs attribution for an activated entry set. Reports are
// always returned; persistence and enrichment failures are logged, never
// surfaced.
func (s *AttributionService) EntriesActivated(ctx context.Context, in engine.ActivationInput) []domain.AttributionReport {
	s.mu.Lock()
	reports := s.engine.OnEntriesActivated(in)
	s.mu.Unlock()

	if s.vectors != nil {
		s.vectors.Enrich(ctx, reports, joinMessageText(in.Messages))
	}

	if s.reports != nil && len(reports) > 0 {
		if err := s.reports.CreateBatch(ctx, reports); err != nil {
			s.logger.Error("failed to persist attribution reports",
				zap.String("cycle_id", reports[0].CycleID),
				zap.Error(err))
		}
	}

	return reports
}

// History lists persisted reports, newest first.
func (s *AttributionService) History(ctx context.Context, cycleID string, limit int) ([]domain.AttributionReport, error) {
	if s.reports == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if cycleID != "" {
		return s.reports.ListByCycle(ctx, cycleID, limit)
	}
	return s.reports.ListRecent(ctx, limit)
}

// RegisterEntryVector caches an embedding of the entry's content for later
// similarity evidence.
func (s *AttributionService) RegisterEntryVector(ctx context.Context, entryID, content string) error {
	if s.vectors == nil {
		return ErrVectorsDisabled
	}
	return s.vectors.Register(ctx, entryID, content)
}

func joinMessageText(messages []domain.ConversationMessage) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Text)
	}
	return strings.Join(parts, "\n")
}
