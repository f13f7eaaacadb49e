package verbatim

import (
	"encoding/json"
	"fmt"
	"time"
)

// DwcRecord：Darwin Core 原始记录，Terms 以 DwC 术语名（如 decimalLatitude）为键
type DwcRecord struct {
	ID    int64
	Terms map[string]string
}

// Term 返回术语值，不存在时为空串
func (r DwcRecord) Term(name string) string { return r.Terms[name] }

// DecodeDwc 解析 payload 为术语表；非字符串值按 JSON 文本保留
func DecodeDwc(id int64, payload []byte) (DwcRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return DwcRecord{}, fmt.Errorf("decoding dwc record %d: %w", id, err)
	}
	terms := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			terms[k] = s
			continue
		}
		if string(v) == "null" {
			continue
		}
		terms[k] = string(v)
	}
	return DwcRecord{ID: id, Terms: terms}, nil
}

// ArtportalenSighting：Artportalen 原始目击记录
type ArtportalenSighting struct {
	ID               int64      `json:"-"`
	SightingID       int64      `json:"sightingId"`
	TaxonID          int        `json:"taxonId"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	SiteLongitude    *float64   `json:"siteLongitude"`
	SiteLatitude     *float64   `json:"siteLatitude"`
	SiteAccuracy     *int       `json:"siteAccuracy"`
	SiteName         string     `json:"siteName"`
	Observers        string     `json:"observers"`
	Quantity         string     `json:"quantity"`
	ActivityID       *int       `json:"activityId"`
	NotPresent       bool       `json:"notPresent"`
	NotRecovered     bool       `json:"notRecovered"`
	Comment          string     `json:"comment"`
	VerifiedBy       string     `json:"verifiedBy"`
	ValidationStatus *int       `json:"validationStatusId"`
	Unsure           bool       `json:"unsureDetermination"`
	Modified         *time.Time `json:"editDate"`
}

// DecodeArtportalen 解析 payload 为目击记录
func DecodeArtportalen(id int64, payload []byte) (ArtportalenSighting, error) {
	var s ArtportalenSighting
	if err := json.Unmarshal(payload, &s); err != nil {
		return ArtportalenSighting{}, fmt.Errorf("decoding artportalen sighting %d: %w", id, err)
	}
	s.ID = id
	return s, nil
}
