package taxa

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dsn := os.Getenv("OBSPROC_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("OBSPROC_TEST_PG_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)
	_, err = db.Exec(`CREATE TEMP TABLE taxa (id INT PRIMARY KEY, scientific_name TEXT NOT NULL, vernacular_name TEXT, taxon_rank TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO taxa VALUES (100024, 'Haliaeetus albicilla', 'havsörn', 'species'), (1, 'Biota', NULL, NULL)`)
	require.NoError(t, err)

	got, err := Load(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "havsörn", got[100024].VernacularName)
	assert.Empty(t, got[1].TaxonRank)
}
