package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loretrace/loretrace/internal/domain"
)

type ReportStore struct {
	db *pgxpool.Pool
}

func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) CreateBatch(ctx context.Context, reports []domain.AttributionReport) error {
	for i := range reports {
		r := &reports[i]
		evidence, err := json.Marshal(r.Evidence)
		if err != nil {
			return fmt.Errorf("marshal evidence for entry %s: %w", r.EntryID, err)
		}

		_, err = s.db.Exec(ctx,
			`INSERT INTO attribution_reports (cycle_id, entry_id, world, mechanism, reason, summary, evidence, category, high_confidence, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			r.CycleID, r.EntryID, r.World, r.Mechanism, r.Reason, r.Summary, evidence, r.Category, r.HighConfidence, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert report for entry %s: %w", r.EntryID, err)
		}
	}
	return nil
}

func (s *ReportStore) ListByCycle(ctx context.Context, cycleID string, limit int) ([]domain.AttributionReport, error) {
	rows, err := s.db.Query(ctx,
		`SELECT cycle_id, entry_id, world, mechanism, reason, summary, evidence, category, high_confidence, created_at
		 FROM attribution_reports WHERE cycle_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		cycleID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (s *ReportStore) ListRecent(ctx context.Context, limit int) ([]domain.AttributionReport, error) {
	rows, err := s.db.Query(ctx,
		`SELECT cycle_id, entry_id, world, mechanism, reason, summary, evidence, category, high_confidence, created_at
		 FROM attribution_reports
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

type reportRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanReports(rows reportRows) ([]domain.AttributionReport, error) {
	var reports []domain.AttributionReport
	for rows.Next() {
		var r domain.AttributionReport
		var evidence []byte
		if err := rows.Scan(&r.CycleID, &r.EntryID, &r.World, &r.Mechanism, &r.Reason, &r.Summary, &evidence, &r.Category, &r.HighConfidence, &r.CreatedAt); err != nil {
			return nil, err
		}
		if len(evidence) > 0 {
			if err := json.Unmarshal(evidence, &r.Evidence); err != nil {
				return nil, fmt.Errorf("unmarshal evidence for entry %s: %w", r.EntryID, err)
			}
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
