package service

import (
	"context"
	"errors"
	"testing"

	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEntryVectorStore mocks the EntryVectorStore interface.
type MockEntryVectorStore struct {
	mock.Mock
}

func (m *MockEntryVectorStore) Upsert(ctx context.Context, entryID, content string, embedding []float32) error {
	args := m.Called(ctx, entryID, content, embedding)
	return args.Error(0)
}

func (m *MockEntryVectorStore) Similarity(ctx context.Context, entryID string, query []float32) (float64, error) {
	args := m.Called(ctx, entryID, query)
	return args.Get(0).(float64), args.Error(1)
}

// MockEmbeddingClient mocks the EmbeddingClient interface.
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func TestVectorEvidence_Register(t *testing.T) {
	vectors := new(MockEntryVectorStore)
	embedder := new(MockEmbeddingClient)
	embedding := []float32{0.1, 0.2}

	embedder.On("Embed", mock.Anything, "entry content").Return(embedding, nil)
	vectors.On("Upsert", mock.Anything, "e1", "entry content", embedding).Return(nil)

	svc := NewVectorEvidenceService(vectors, embedder, zap.NewNop())
	err := svc.Register(context.Background(), "e1", "entry content")

	require.NoError(t, err)
	vectors.AssertExpectations(t)
}

func TestVectorEvidence_RegisterEmbedFailure(t *testing.T) {
	vectors := new(MockEntryVectorStore)
	embedder := new(MockEmbeddingClient)
	embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("api down"))

	svc := NewVectorEvidenceService(vectors, embedder, zap.NewNop())
	err := svc.Register(context.Background(), "e1", "content")

	assert.Error(t, err)
	vectors.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVectorEvidence_EnrichOnlyVectorized(t *testing.T) {
	vectors := new(MockEntryVectorStore)
	embedder := new(MockEmbeddingClient)
	query := []float32{0.5}

	embedder.On("Embed", mock.Anything, "recent chat").Return(query, nil)
	vectors.On("Similarity", mock.Anything, "v1", query).Return(0.83, nil)

	reports := []domain.AttributionReport{
		{EntryID: "v1", Mechanism: domain.MechanismVectorized},
		{EntryID: "k1", Mechanism: domain.MechanismKeyword},
	}

	svc := NewVectorEvidenceService(vectors, embedder, zap.NewNop())
	svc.Enrich(context.Background(), reports, "recent chat")

	require.NotNil(t, reports[0].Evidence.SimilarityScore)
	assert.InDelta(t, 0.83, *reports[0].Evidence.SimilarityScore, 0.0001)
	assert.Nil(t, reports[1].Evidence.SimilarityScore)
	vectors.AssertNumberOfCalls(t, "Similarity", 1)
}

func TestVectorEvidence_EnrichSkipsUncachedEntries(t *testing.T) {
	vectors := new(MockEntryVectorStore)
	embedder := new(MockEmbeddingClient)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	vectors.On("Similarity", mock.Anything, "v1", mock.Anything).Return(0.0, store.ErrNotFound)

	reports := []domain.AttributionReport{{EntryID: "v1", Mechanism: domain.MechanismVectorized}}

	svc := NewVectorEvidenceService(vectors, embedder, zap.NewNop())
	svc.Enrich(context.Background(), reports, "chat")

	assert.Nil(t, reports[0].Evidence.SimilarityScore)
}

func TestVectorEvidence_EnrichNoVectorizedSkipsEmbedding(t *testing.T) {
	vectors := new(MockEntryVectorStore)
	embedder := new(MockEmbeddingClient)

	reports := []domain.AttributionReport{{EntryID: "c1", Mechanism: domain.MechanismConstant}}

	svc := NewVectorEvidenceService(vectors, embedder, zap.NewNop())
	svc.Enrich(context.Background(), reports, "chat")

	embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}
