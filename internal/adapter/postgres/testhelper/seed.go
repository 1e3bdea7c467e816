package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/wordwise/internal/domain"
)

// SeedRefEntry inserts a ref_entries row for text and returns its id.
// Re-seeding the same normalized text is a no-op that returns the existing id.
func SeedRefEntry(t *testing.T, pool *pgxpool.Pool, text string, core bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := pool.QueryRow(context.Background(),
		`INSERT INTO ref_entries (id, text, text_normalized, is_core_lexicon)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (text_normalized) DO UPDATE SET text_normalized = EXCLUDED.text_normalized
		 RETURNING id`,
		id, text, domain.NormalizeHeadword(text), core,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedRefEntry insert %q: %v", text, err)
	}

	return id
}

// TruncateRefEntries empties ref_entries so a test sees only its own rows.
func TruncateRefEntries(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), `TRUNCATE ref_entries`); err != nil {
		t.Fatalf("testhelper: truncate ref_entries: %v", err)
	}
}
