package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// EntryVectorStore caches one content embedding per lore entry so vectorized
// activations can be annotated with a similarity score without re-embedding
// entry content every cycle.
type EntryVectorStore struct {
	db *pgxpool.Pool
}

func NewEntryVectorStore(db *pgxpool.Pool) *EntryVectorStore {
	return &EntryVectorStore{db: db}
}

func (s *EntryVectorStore) Upsert(ctx context.Context, entryID, content string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	_, err := s.db.Exec(ctx,
		`INSERT INTO entry_vectors (entry_id, content, embedding, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (entry_id)
		 DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, updated_at = NOW()`,
		entryID, content, vec,
	)
	return err
}

// Similarity returns the cosine similarity between an entry's cached
// embedding and the query vector. ErrNotFound when the entry has no cached
// embedding.
func (s *EntryVectorStore) Similarity(ctx context.Context, entryID string, query []float32) (float64, error) {
	vec := pgvector.NewVector(query)
	var similarity float64
	err := s.db.QueryRow(ctx,
		`SELECT 1 - (embedding <=> $2) FROM entry_vectors WHERE entry_id = $1`,
		entryID, vec,
	).Scan(&similarity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return similarity, nil
}
