package destination

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observation-processor/internal/model"
)

func TestMemRepositoryAddAndDelete(t *testing.T) {
	r := NewMemRepository(0)
	ctx := context.Background()
	assert.Equal(t, DefaultBatchSize, r.BatchSize())

	n, err := r.AddMany(ctx, []*model.ProcessedObservation{
		{DataProviderID: 1, OccurrenceID: "a"},
		nil,
		{DataProviderID: 1, OccurrenceID: "b"},
		{DataProviderID: 2, OccurrenceID: "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{3}, r.Commits())
	assert.Equal(t, 2, r.Count(1))

	ok, err := r.DeleteProviderData(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, r.Count(1))
	assert.Equal(t, 1, r.Count(2))
	assert.Equal(t, []int{1}, r.Deletes())
}

func TestMemRepositoryFailureHooks(t *testing.T) {
	r := NewMemRepository(10)
	r.DeleteFails = true
	ok, err := r.DeleteProviderData(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	boom := errors.New("disk full")
	r.OnAddMany = func(context.Context, int) error { return boom }
	_, err = r.AddMany(context.Background(), []*model.ProcessedObservation{{}})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.Commits())
}

func TestPGRepository(t *testing.T) {
	dsn := os.Getenv("OBSPROC_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("OBSPROC_TEST_PG_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TEMP TABLE processed_observations (provider_id INT NOT NULL, occurrence_id TEXT NOT NULL, document JSONB NOT NULL)`)
	require.NoError(t, err)

	ctx := context.Background()
	r := NewPGRepository(db, 2)
	n, err := r.AddMany(ctx, []*model.ProcessedObservation{
		{DataProviderID: 7, OccurrenceID: "a"},
		{DataProviderID: 7, OccurrenceID: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM processed_observations WHERE document->>'occurrenceId'='b'`).Scan(&count))
	assert.Equal(t, 1, count)

	ok, err := r.DeleteProviderData(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM processed_observations`).Scan(&count))
	assert.Equal(t, 0, count)
}
