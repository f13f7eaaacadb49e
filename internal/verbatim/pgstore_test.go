package verbatim

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("OBSPROC_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("OBSPROC_TEST_PG_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// 临时表只在单个会话内可见
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TEMP TABLE verbatim_observations (id BIGINT PRIMARY KEY, provider_id INT NOT NULL, payload JSONB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestPGStore(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO verbatim_observations(id, provider_id, payload) VALUES
(1, 1, '{"occurrenceID":"a"}'), (2, 1, '{"occurrenceID":"b"}'), (5, 1, '{"occurrenceID":"c"}'), (3, 2, '{"occurrenceID":"x"}')`)
	require.NoError(t, err)
	ctx := context.Background()
	s := NewPGStore(db, 1, DecodeDwc)

	lo, hi, err := s.IDSpan(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, lo)
	assert.EqualValues(t, 5, hi)

	b, err := s.Batch(ctx, 2, 5)
	require.NoError(t, err)
	require.Len(t, b, 2)
	assert.Equal(t, "b", b[0].Term("occurrenceID"))

	c, err := s.Cursor(ctx)
	require.NoError(t, err)
	n := 0
	for c.Next() {
		n++
	}
	require.NoError(t, c.Err())
	require.NoError(t, c.Close())
	assert.Equal(t, 3, n)

	_, _, err = NewPGStore(db, 99, DecodeDwc).IDSpan(ctx)
	assert.ErrorIs(t, err, ErrNoRecords)
}
