package providers

import (
	"strconv"

	"observation-processor/internal/model"
	"observation-processor/internal/verbatim"
	"observation-processor/internal/vocabulary"
)

const artportalenOccurrenceIDPrefix = "urn:lsid:artportalen.se:Sighting:"

// 文档注释：Artportalen 观测工厂
// 约束：NotPresent 或 NotRecovered 的目击记为非阳性（absent）。
type ArtportalenFactory struct {
	ProviderID int
}

func (f ArtportalenFactory) CreateProcessedObservation(s verbatim.ArtportalenSighting, taxa map[int]*model.Taxon) *model.ProcessedObservation {
	occID := artportalenOccurrenceIDPrefix + strconv.FormatInt(s.SightingID, 10)
	positive := !s.NotPresent && !s.NotRecovered
	status := vocabulary.OccurrenceStatusPresent
	if !positive {
		status = vocabulary.OccurrenceStatusAbsent
	}
	obs := &model.ProcessedObservation{
		DataProviderID: f.ProviderID,
		OccurrenceID:   occID,
		Event:          &model.Event{StartDate: s.StartDate, EndDate: s.EndDate},
		Location: &model.Location{
			DecimalLongitude:              s.SiteLongitude,
			DecimalLatitude:               s.SiteLatitude,
			CoordinateUncertaintyInMeters: s.SiteAccuracy,
			Locality:                      s.SiteName,
		},
		Occurrence: &model.Occurrence{
			OccurrenceID:          occID,
			CatalogNumber:         strconv.FormatInt(s.SightingID, 10),
			RecordedBy:            s.Observers,
			IndividualCount:       s.Quantity,
			Status:                &model.VocabularyValue{ID: status},
			IsPositiveObservation: positive,
			Remarks:               s.Comment,
		},
		Identification: &model.Identification{
			IdentifiedBy:           s.VerifiedBy,
			Verified:               s.VerifiedBy != "",
			UncertainDetermination: s.Unsure,
		},
		Taxon: taxonByID(taxa, s.TaxonID, ""),
	}
	if s.ValidationStatus != nil {
		obs.Identification.ValidationStatus = &model.VocabularyValue{ID: *s.ValidationStatus}
	}
	if s.Modified != nil {
		obs.Modified = *s.Modified
	}
	return obs
}
