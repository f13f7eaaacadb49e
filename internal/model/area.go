package model

// AreaType：区域图层类型标签；同一类型内多边形互不重叠，不同类型相互独立
type AreaType string

const (
	AreaTypeCounty               AreaType = "County"
	AreaTypeMunicipality         AreaType = "Municipality"
	AreaTypeParish               AreaType = "Parish"
	AreaTypeProvince             AreaType = "Province"
	AreaTypeEconomicZoneOfSweden AreaType = "EconomicZoneOfSweden"
)

// AreaTypes 返回参与反地理的全部图层类型
func AreaTypes() []AreaType {
	return []AreaType{AreaTypeCounty, AreaTypeMunicipality, AreaTypeParish, AreaTypeProvince, AreaTypeEconomicZoneOfSweden}
}

// Valid 判断是否为参与反地理的图层类型
func (t AreaType) Valid() bool {
	for _, k := range AreaTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// 文档注释：坐标桶的区域归属（缓存项）
// 背景：首次解析某坐标桶时惰性创建，之后不可变并被同桶的所有查询共享；持久化到本地 JSON 缓存文件。
// 约束：四个区域引用各自可选；调用方不得修改返回的实例。
type PositionLocation struct {
	County               *Area `json:"county,omitempty"`
	Municipality         *Area `json:"municipality,omitempty"`
	Parish               *Area `json:"parish,omitempty"`
	Province             *Area `json:"province,omitempty"`
	EconomicZoneOfSweden bool  `json:"economicZoneOfSweden"`
}
