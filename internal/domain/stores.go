package domain

import "context"

// ReportStore persists attribution reports for later inspection by
// consuming layers. The engine itself never reads from it.
type ReportStore interface {
	CreateBatch(ctx context.Context, reports []AttributionReport) error
	ListByCycle(ctx context.Context, cycleID string, limit int) ([]AttributionReport, error)
	ListRecent(ctx context.Context, limit int) ([]AttributionReport, error)
}

// EntryVectorStore caches per-entry content embeddings so vectorized
// activations can be annotated with a similarity score.
type EntryVectorStore interface {
	Upsert(ctx context.Context, entryID, content string, embedding []float32) error
	Similarity(ctx context.Context, entryID string, query []float32) (float64, error)
}

// EmbeddingClient generates vector embeddings for text.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
