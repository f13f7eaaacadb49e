package vocabulary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observation-processor/internal/model"
)

func TestResolverFillsKnownValues(t *testing.T) {
	r, err := NewResolver(context.Background(), &StaticSource{})
	require.NoError(t, err)

	obs := []*model.ProcessedObservation{
		{
			Occurrence:     &model.Occurrence{Status: &model.VocabularyValue{ID: OccurrenceStatusAbsent}},
			Identification: &model.Identification{ValidationStatus: &model.VocabularyValue{ID: ValidationStatusVerified}},
		},
		{Occurrence: &model.Occurrence{Status: &model.VocabularyValue{ID: 99, Value: "raw"}}},
		{Occurrence: &model.Occurrence{}},
		nil,
	}
	r.ResolveBatch(obs)

	assert.Equal(t, "absent", obs[0].Occurrence.Status.Value)
	assert.Equal(t, "verified", obs[0].Identification.ValidationStatus.Value)
	assert.Equal(t, "raw", obs[1].Occurrence.Status.Value)
}

func TestStaticSourceCustomFields(t *testing.T) {
	src := &StaticSource{Fields: map[string]map[int]string{FieldOccurrenceStatus: {0: "förekommer"}}}
	r, err := NewResolver(context.Background(), src)
	require.NoError(t, err)

	o := &model.ProcessedObservation{Occurrence: &model.Occurrence{Status: &model.VocabularyValue{ID: 0}}}
	r.ResolveBatch([]*model.ProcessedObservation{o})
	assert.Equal(t, "förekommer", o.Occurrence.Status.Value)
}
