package verbatim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dwcID(r DwcRecord) int64 { return r.ID }

func TestMemStoreSpanAndBatch(t *testing.T) {
	s := NewMemStore(dwcID, DwcRecord{ID: 7}, DwcRecord{ID: 3}, DwcRecord{ID: 5}, DwcRecord{ID: 10})
	ctx := context.Background()

	lo, hi, err := s.IDSpan(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, lo)
	assert.EqualValues(t, 10, hi)

	b, err := s.Batch(ctx, 4, 7)
	require.NoError(t, err)
	require.Len(t, b, 2)
	assert.EqualValues(t, 5, b[0].ID)
	assert.EqualValues(t, 7, b[1].ID)

	b, err = s.Batch(ctx, 11, 20)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.EqualValues(t, 3, s.Calls())
}

func TestMemStoreEmptySpan(t *testing.T) {
	s := NewMemStore(dwcID)
	_, _, err := s.IDSpan(context.Background())
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestMemStoreOnBatchInjectsFailure(t *testing.T) {
	s := NewMemStore(dwcID, DwcRecord{ID: 1})
	boom := errors.New("boom")
	s.OnBatch = func(context.Context, int64, int64) error { return boom }

	_, err := s.Batch(context.Background(), 1, 1)
	assert.ErrorIs(t, err, boom)
}

func TestMemCursorIteratesInOrder(t *testing.T) {
	s := NewMemStore(dwcID, DwcRecord{ID: 2}, DwcRecord{ID: 1}, DwcRecord{ID: 3})
	c, err := s.Cursor(context.Background())
	require.NoError(t, err)
	defer c.Close()

	var ids []int64
	for c.Next() {
		ids = append(ids, c.Record().ID)
	}
	require.NoError(t, c.Err())
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.False(t, c.Next())
}

func TestMemStoreHonoursCancelledContext(t *testing.T) {
	s := NewMemStore(dwcID, DwcRecord{ID: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Batch(ctx, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Cursor(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeDwc(t *testing.T) {
	r, err := DecodeDwc(9, []byte(`{"occurrenceID":"urn:1","decimalLatitude":"57.1","individualCount":3,"remarks":null}`))
	require.NoError(t, err)
	assert.EqualValues(t, 9, r.ID)
	assert.Equal(t, "urn:1", r.Term("occurrenceID"))
	assert.Equal(t, "57.1", r.Term("decimalLatitude"))
	assert.Equal(t, "3", r.Term("individualCount"))
	_, ok := r.Terms["remarks"]
	assert.False(t, ok)

	_, err = DecodeDwc(1, []byte(`[]`))
	assert.Error(t, err)
}

func TestDecodeArtportalen(t *testing.T) {
	s, err := DecodeArtportalen(4, []byte(`{"sightingId":123,"taxonId":100024,"siteLongitude":16.7,"siteLatitude":56.5,"startDate":"2024-05-01T08:00:00Z","notPresent":true}`))
	require.NoError(t, err)
	assert.EqualValues(t, 4, s.ID)
	assert.EqualValues(t, 123, s.SightingID)
	assert.Equal(t, 100024, s.TaxonID)
	require.NotNil(t, s.SiteLatitude)
	assert.Equal(t, 56.5, *s.SiteLatitude)
	assert.True(t, s.NotPresent)
	require.NotNil(t, s.StartDate)
	assert.Equal(t, 2024, s.StartDate.Year())
}
