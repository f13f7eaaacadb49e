// 包 providers：各提供方的观测工厂与注册
package providers

import (
	"strconv"
	"strings"
	"time"

	"observation-processor/internal/model"
	"observation-processor/internal/verbatim"
	"observation-processor/internal/vocabulary"
)

// 文档注释：Darwin Core 观测工厂
// 背景：通用 DwC-A 提供方；术语值均为文本，按需解析为数值与日期。
// 约束：缺少 occurrenceID 的记录跳过；无状态，可被并行分段共享。
type DwcFactory struct {
	ProviderID int
}

func (f DwcFactory) CreateProcessedObservation(r verbatim.DwcRecord, taxa map[int]*model.Taxon) *model.ProcessedObservation {
	occID := strings.TrimSpace(r.Term("occurrenceID"))
	if occID == "" {
		return nil
	}
	obs := &model.ProcessedObservation{
		DataProviderID: f.ProviderID,
		OccurrenceID:   occID,
		Event:          dwcEvent(r.Term("eventDate")),
		Location: &model.Location{
			DecimalLongitude:              parseFloat(r.Term("decimalLongitude")),
			DecimalLatitude:               parseFloat(r.Term("decimalLatitude")),
			CoordinateUncertaintyInMeters: parseInt(r.Term("coordinateUncertaintyInMeters")),
			Locality:                      r.Term("locality"),
		},
		Taxon: lookupTaxon(taxa, r.Term("taxonID"), r.Term("scientificName")),
	}
	absent := strings.EqualFold(r.Term("occurrenceStatus"), "absent")
	status := vocabulary.OccurrenceStatusPresent
	if absent {
		status = vocabulary.OccurrenceStatusAbsent
	}
	obs.Occurrence = &model.Occurrence{
		OccurrenceID:          occID,
		CatalogNumber:         r.Term("catalogNumber"),
		RecordedBy:            r.Term("recordedBy"),
		IndividualCount:       r.Term("individualCount"),
		Status:                &model.VocabularyValue{ID: status},
		IsPositiveObservation: !absent,
		Remarks:               r.Term("occurrenceRemarks"),
	}
	verified := strings.EqualFold(r.Term("identificationVerificationStatus"), "verified")
	validation := vocabulary.ValidationStatusUnvalidated
	if verified {
		validation = vocabulary.ValidationStatusVerified
	}
	obs.Identification = &model.Identification{
		IdentifiedBy:           r.Term("identifiedBy"),
		Verified:               verified,
		UncertainDetermination: r.Term("identificationQualifier") != "",
		ValidationStatus:       &model.VocabularyValue{ID: validation},
	}
	if t := parseDate(r.Term("modified")); t != nil {
		obs.Modified = *t
	}
	return obs
}

// dwcEvent 解析 eventDate：单日或 ISO 8601 区间 "start/end"
func dwcEvent(s string) *model.Event {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	start, end, isRange := strings.Cut(s, "/")
	ev := &model.Event{StartDate: parseDate(start)}
	if isRange {
		ev.EndDate = parseDate(end)
	} else {
		ev.EndDate = ev.StartDate
	}
	if ev.StartDate == nil && ev.EndDate == nil {
		return nil
	}
	return ev
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02", "2006-01", "2006"}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

// lookupTaxon 解析 taxonID（可为 LSID，如 urn:lsid:dyntaxa.se:Taxon:100024）并在字典中查找
func lookupTaxon(taxa map[int]*model.Taxon, taxonID, scientificName string) *model.Taxon {
	if i := strings.LastIndex(taxonID, ":"); i >= 0 {
		taxonID = taxonID[i+1:]
	}
	id, err := strconv.Atoi(strings.TrimSpace(taxonID))
	if err != nil {
		if scientificName == "" {
			return nil
		}
		return &model.Taxon{ScientificName: scientificName}
	}
	return taxonByID(taxa, id, scientificName)
}

func taxonByID(taxa map[int]*model.Taxon, id int, scientificName string) *model.Taxon {
	if t, ok := taxa[id]; ok {
		c := *t
		return &c
	}
	return &model.Taxon{ID: id, ScientificName: scientificName}
}
