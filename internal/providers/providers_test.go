package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"observation-processor/internal/config"
	"observation-processor/internal/destination"
	"observation-processor/internal/model"
	"observation-processor/internal/processing"
	"observation-processor/internal/verbatim"
	"observation-processor/internal/vocabulary"
)

var testTaxa = map[int]*model.Taxon{
	100024: {ID: 100024, ScientificName: "Haliaeetus albicilla", VernacularName: "havsörn", TaxonRank: "species"},
}

func TestDwcFactory(t *testing.T) {
	r := verbatim.DwcRecord{ID: 1, Terms: map[string]string{
		"occurrenceID":                     "urn:obs:1",
		"eventDate":                        "2024-05-01/2024-05-03",
		"decimalLongitude":                 "16,7",
		"decimalLatitude":                  "56.5",
		"coordinateUncertaintyInMeters":    "25",
		"taxonID":                          "urn:lsid:dyntaxa.se:Taxon:100024",
		"occurrenceStatus":                 "Absent",
		"identificationVerificationStatus": "verified",
		"recordedBy":                       "A. Observer",
		"modified":                         "2024-06-01T10:00:00Z",
	}}

	obs := DwcFactory{ProviderID: 3}.CreateProcessedObservation(r, testTaxa)
	require.NotNil(t, obs)

	assert.Equal(t, 3, obs.DataProviderID)
	assert.Equal(t, "urn:obs:1", obs.OccurrenceID)
	require.NotNil(t, obs.Event.StartDate)
	assert.Equal(t, 1, obs.Event.StartDate.Day())
	assert.Equal(t, 3, obs.Event.EndDate.Day())
	assert.Equal(t, 16.7, *obs.Location.DecimalLongitude)
	assert.Equal(t, 56.5, *obs.Location.DecimalLatitude)
	assert.Equal(t, 25, *obs.Location.CoordinateUncertaintyInMeters)
	assert.Equal(t, "havsörn", obs.Taxon.VernacularName)
	assert.NotSame(t, testTaxa[100024], obs.Taxon)
	assert.False(t, obs.Occurrence.IsPositiveObservation)
	assert.Equal(t, vocabulary.OccurrenceStatusAbsent, obs.Occurrence.Status.ID)
	assert.True(t, obs.Identification.Verified)
	assert.Equal(t, "A. Observer", obs.Occurrence.RecordedBy)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), obs.Modified)
}

func TestDwcFactorySkipsRecordWithoutOccurrenceID(t *testing.T) {
	obs := DwcFactory{}.CreateProcessedObservation(verbatim.DwcRecord{Terms: map[string]string{"eventDate": "2024"}}, nil)
	assert.Nil(t, obs)
}

func TestDwcFactoryUnknownTaxonAndBadCoordinates(t *testing.T) {
	r := verbatim.DwcRecord{Terms: map[string]string{
		"occurrenceID":     "x",
		"taxonID":          "42",
		"scientificName":   "Incertae sedis",
		"decimalLatitude":  "north",
		"decimalLongitude": "",
		"eventDate":        "2024-05-01",
	}}
	obs := DwcFactory{}.CreateProcessedObservation(r, testTaxa)

	assert.Equal(t, &model.Taxon{ID: 42, ScientificName: "Incertae sedis"}, obs.Taxon)
	assert.False(t, obs.Location.HasCoordinates())
	assert.True(t, obs.Occurrence.IsPositiveObservation)
	assert.Equal(t, obs.Event.StartDate, obs.Event.EndDate)
}

func TestArtportalenFactory(t *testing.T) {
	lon, lat, acc, vs := 16.7, 56.5, 10, vocabulary.ValidationStatusVerified
	s := verbatim.ArtportalenSighting{
		ID: 9, SightingID: 555, TaxonID: 100024,
		SiteLongitude: &lon, SiteLatitude: &lat, SiteAccuracy: &acc, SiteName: "Ottenby",
		NotRecovered: true, VerifiedBy: "Expert", ValidationStatus: &vs,
	}

	obs := ArtportalenFactory{ProviderID: 1}.CreateProcessedObservation(s, testTaxa)

	assert.Equal(t, "urn:lsid:artportalen.se:Sighting:555", obs.OccurrenceID)
	assert.False(t, obs.Occurrence.IsPositiveObservation)
	assert.Equal(t, vocabulary.OccurrenceStatusAbsent, obs.Occurrence.Status.ID)
	assert.Equal(t, "Ottenby", obs.Location.Locality)
	assert.True(t, obs.Identification.Verified)
	assert.Equal(t, vocabulary.ValidationStatusVerified, obs.Identification.ValidationStatus.ID)
	assert.Equal(t, "Haliaeetus albicilla", obs.Taxon.ScientificName)
}

func TestRegister(t *testing.T) {
	reg := processing.NewRegistry()
	specs := []config.ProviderConfig{
		{ID: 1, Identifier: "artportalen", Name: "Artportalen", Kind: KindArtportalen},
		{ID: 2, Identifier: "dwc-a", Name: "DwC-A", Kind: KindDwc},
	}
	deps := processing.Deps{Destination: destination.NewMemRepository(10)}

	require.NoError(t, Register(reg, nil, specs, deps, processing.Config{}))

	providers := reg.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "artportalen", providers[0].Identifier)
	_, job, ok := reg.Lookup("dwc-a")
	require.True(t, ok)
	assert.IsType(t, &processing.Runner[verbatim.DwcRecord]{}, job)
}

func TestRegisterUnknownKind(t *testing.T) {
	err := Register(processing.NewRegistry(), nil, []config.ProviderConfig{{ID: 1, Identifier: "x", Kind: "csv"}}, processing.Deps{}, processing.Config{})
	assert.ErrorContains(t, err, "unknown kind")
	assert.ErrorContains(t, err, "supported: artportalen, dwc")
	assert.Equal(t, []string{KindArtportalen, KindDwc}, Kinds())
}

func TestDwcRunnerEndToEnd(t *testing.T) {
	store := verbatim.NewMemStore(func(r verbatim.DwcRecord) int64 { return r.ID },
		verbatim.DwcRecord{ID: 1, Terms: map[string]string{"occurrenceID": "a", "taxonID": "100024"}},
		verbatim.DwcRecord{ID: 2, Terms: map[string]string{"occurrenceID": "b"}},
		verbatim.DwcRecord{ID: 3, Terms: map[string]string{}},
	)
	repo := destination.NewMemRepository(2)
	resolver, err := vocabulary.NewResolver(context.Background(), &vocabulary.StaticSource{})
	require.NoError(t, err)
	r := processing.NewRunner[verbatim.DwcRecord](store, DwcFactory{ProviderID: 5}, processing.Deps{Destination: repo, Resolver: resolver}, processing.Config{Parallel: true, NoOfThreads: 2})

	info := r.Process(context.Background(), model.DataProvider{ID: 5, Identifier: "dwc"}, testTaxa)

	require.Equal(t, model.RunStatusSuccess, info.Status)
	assert.Equal(t, 2, info.ProcessCount)
	for _, o := range repo.Observations(5) {
		assert.Equal(t, "present", o.Occurrence.Status.Value)
	}
}
