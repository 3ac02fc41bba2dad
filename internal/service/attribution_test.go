package service

import (
	"context"
	"errors"
	"testing"

	"github.com/loretrace/loretrace/internal/domain"
	"github.com/loretrace/loretrace/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockReportStore mocks the ReportStore interface.
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) CreateBatch(ctx context.Context, reports []domain.AttributionReport) error {
	args := m.Called(ctx, reports)
	return args.Error(0)
}

func (m *MockReportStore) ListByCycle(ctx context.Context, cycleID string, limit int) ([]domain.AttributionReport, error) {
	args := m.Called(ctx, cycleID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttributionReport), args.Error(1)
}

func (m *MockReportStore) ListRecent(ctx context.Context, limit int) ([]domain.AttributionReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttributionReport), args.Error(1)
}

func newTestService(reports domain.ReportStore, vectors *VectorEvidenceService) *AttributionService {
	eng := engine.New(engine.Config{}, nil, zap.NewNop())
	return NewAttributionService(eng, reports, vectors, zap.NewNop())
}

func TestAttributionService_StartGenerationReturnsUniqueCycles(t *testing.T) {
	svc := newTestService(nil, nil)

	first := svc.StartGeneration("normal")
	second := svc.StartGeneration("swipe")

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestAttributionService_EntriesActivatedPersistsReports(t *testing.T) {
	reportStore := new(MockReportStore)
	reportStore.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(reportStore, nil)
	cycleID := svc.StartGeneration("normal")

	reports := svc.EntriesActivated(context.Background(), engine.ActivationInput{
		Entries: []domain.LoreEntry{{ID: "c1", Constant: true}},
	})

	require.Len(t, reports, 1)
	assert.Equal(t, cycleID, reports[0].CycleID)
	assert.Equal(t, domain.MechanismConstant, reports[0].Mechanism)
	reportStore.AssertCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestAttributionService_PersistenceFailureDoesNotDropReports(t *testing.T) {
	reportStore := new(MockReportStore)
	reportStore.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := newTestService(reportStore, nil)
	svc.StartGeneration("normal")

	reports := svc.EntriesActivated(context.Background(), engine.ActivationInput{
		Entries: []domain.LoreEntry{{ID: "c1", Constant: true}},
	})

	require.Len(t, reports, 1, "reports must be returned even when persistence fails")
}

func TestAttributionService_HistoryDefaultsAndCaps(t *testing.T) {
	reportStore := new(MockReportStore)
	reportStore.On("ListRecent", mock.Anything, defaultHistoryLimit).Return([]domain.AttributionReport{}, nil)
	reportStore.On("ListByCycle", mock.Anything, "cycle-9", maxHistoryLimit).Return([]domain.AttributionReport{}, nil)

	svc := newTestService(reportStore, nil)

	_, err := svc.History(context.Background(), "", 0)
	require.NoError(t, err)
	_, err = svc.History(context.Background(), "cycle-9", 10_000)
	require.NoError(t, err)

	reportStore.AssertExpectations(t)
}

func TestAttributionService_RegisterEntryVectorDisabled(t *testing.T) {
	svc := newTestService(nil, nil)
	err := svc.RegisterEntryVector(context.Background(), "e1", "content")
	assert.ErrorIs(t, err, ErrVectorsDisabled)
}
