// 包 model：处理流水线共享的规范记录结构，供工厂、区域富化与目标库写入使用
package model

import "time"

// 文档注释：数据提供方
// 背景：每次处理运行以提供方为单位；ID 为目标库中的分区键，Identifier 为注册表查找键。
type DataProvider struct {
	ID         int    `json:"id"`
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
}

// Taxon：分类单元引用，来源于外部传入的只读表
type Taxon struct {
	ID             int    `json:"id"`
	ScientificName string `json:"scientificName"`
	VernacularName string `json:"vernacularName,omitempty"`
	TaxonRank      string `json:"taxonRank,omitempty"`
}

// VocabularyValue：受控词表引用；Value 在提交前由词表解析器填充
type VocabularyValue struct {
	ID    int    `json:"id"`
	Value string `json:"value,omitempty"`
}

// Area：行政区引用（规范 id 与显示值）
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// 文档注释：规范化观测记录
// 背景：由观测工厂逐条新建，区域富化只修改 Location 中的区域字段；提交后不再修改。
// 约束：每次处理运行都会删除并完整重建，不做增量更新。
type ProcessedObservation struct {
	DataProviderID int             `json:"dataProviderId"`
	OccurrenceID   string          `json:"occurrenceId"`
	Event          *Event          `json:"event,omitempty"`
	Location       *Location       `json:"location,omitempty"`
	Occurrence     *Occurrence     `json:"occurrence,omitempty"`
	Identification *Identification `json:"identification,omitempty"`
	Taxon          *Taxon          `json:"taxon,omitempty"`
	Modified       time.Time       `json:"modified"`
}

type Event struct {
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// 文档注释：观测位置
// 背景：坐标为 WGS84；County/Municipality/Parish/Province 及 CountyPart/ProvincePart 由区域富化写入。
type Location struct {
	DecimalLongitude              *float64 `json:"decimalLongitude,omitempty"`
	DecimalLatitude               *float64 `json:"decimalLatitude,omitempty"`
	CoordinateUncertaintyInMeters *int     `json:"coordinateUncertaintyInMeters,omitempty"`
	Locality                      string   `json:"locality,omitempty"`
	County                        *Area    `json:"county,omitempty"`
	Municipality                  *Area    `json:"municipality,omitempty"`
	Parish                        *Area    `json:"parish,omitempty"`
	Province                      *Area    `json:"province,omitempty"`
	CountyPart                    *Area    `json:"countyPart,omitempty"`
	ProvincePart                  *Area    `json:"provincePart,omitempty"`
	IsInEconomicZoneOfSweden      bool     `json:"isInEconomicZoneOfSweden"`
}

// HasCoordinates：经纬度均已给出
func (l *Location) HasCoordinates() bool {
	return l != nil && l.DecimalLongitude != nil && l.DecimalLatitude != nil
}

type Occurrence struct {
	OccurrenceID          string           `json:"occurrenceId"`
	CatalogNumber         string           `json:"catalogNumber,omitempty"`
	RecordedBy            string           `json:"recordedBy,omitempty"`
	IndividualCount       string           `json:"individualCount,omitempty"`
	Status                *VocabularyValue `json:"occurrenceStatus,omitempty"`
	IsPositiveObservation bool             `json:"isPositiveObservation"`
	Remarks               string           `json:"occurrenceRemarks,omitempty"`
}

type Identification struct {
	IdentifiedBy           string           `json:"identifiedBy,omitempty"`
	Verified               bool             `json:"verified"`
	UncertainDetermination bool             `json:"uncertainDetermination"`
	ValidationStatus       *VocabularyValue `json:"validationStatus,omitempty"`
}
