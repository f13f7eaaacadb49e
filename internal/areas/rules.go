package areas

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"observation-processor/internal/model"
)

// 默认特例区域 id（与区域库中的规范 id 对应）
const (
	CountyIDKalmar           = "8"
	ProvinceIDOland          = "5"
	CountyPartIDKalmarMain   = "100"
	CountyPartIDOland        = "101"
	ProvincePartIDLappland   = "100"
	countyPartNameKalmarMain = "Kalmar fastland"
	countyPartNameOland      = "Öland"
	provincePartNameLappland = "Lappland"
)

// LappmarkProvinceIDs：Åsele, Lycksele, Pite, Lule, Torne lappmark
var LappmarkProvinceIDs = []string{"25", "26", "27", "28", "29"}

// PartRef：派生区域（县分区/省分区）
type PartRef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func (p PartRef) area() *model.Area { return &model.Area{ID: p.ID, Name: p.Name} }

// CountySplit：按所在省将某县拆分为多个分区
type CountySplit struct {
	County    string      `yaml:"county"`
	Parts     []SplitPart `yaml:"parts"`
	Otherwise PartRef     `yaml:"otherwise"`
}

type SplitPart struct {
	Province string  `yaml:"province"`
	Part     PartRef `yaml:"part"`
}

// ProvinceMerge：将多个省合并为一个省分区
type ProvinceMerge struct {
	Provinces []string `yaml:"provinces"`
	Into      PartRef  `yaml:"into"`
}

// 文档注释：特例区域规则
// 背景：县分区与省分区不是区域库中的独立多边形，而由县/省归属推导；规则以数据表达，可从 YAML 文件覆盖。
// 约束：未命中任何规则时，县分区等于县、省分区等于省。
type SpecialRules struct {
	CountySplits   []CountySplit   `yaml:"county_splits"`
	ProvinceMerges []ProvinceMerge `yaml:"province_merges"`
}

// DefaultSpecialRules：卡尔马县按厄兰岛拆分，五个 lappmark 省合并为 Lappland
func DefaultSpecialRules() *SpecialRules {
	return &SpecialRules{
		CountySplits: []CountySplit{{
			County: CountyIDKalmar,
			Parts: []SplitPart{{
				Province: ProvinceIDOland,
				Part:     PartRef{ID: CountyPartIDOland, Name: countyPartNameOland},
			}},
			Otherwise: PartRef{ID: CountyPartIDKalmarMain, Name: countyPartNameKalmarMain},
		}},
		ProvinceMerges: []ProvinceMerge{{
			Provinces: append([]string(nil), LappmarkProvinceIDs...),
			Into:      PartRef{ID: ProvincePartIDLappland, Name: provincePartNameLappland},
		}},
	}
}

// LoadSpecialRules 从 YAML 文件读取规则并校验
func LoadSpecialRules(path string) (*SpecialRules, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var r SpecialRules
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return &r, nil
}

func (r *SpecialRules) Validate() error {
	for i, s := range r.CountySplits {
		if s.County == "" {
			return fmt.Errorf("county_splits[%d]: county is required", i)
		}
		if s.Otherwise.ID == "" {
			return fmt.Errorf("county_splits[%d]: otherwise.id is required", i)
		}
		for j, p := range s.Parts {
			if p.Province == "" || p.Part.ID == "" {
				return fmt.Errorf("county_splits[%d].parts[%d]: province and part.id are required", i, j)
			}
		}
	}
	for i, m := range r.ProvinceMerges {
		if len(m.Provinces) == 0 || m.Into.ID == "" {
			return fmt.Errorf("province_merges[%d]: provinces and into.id are required", i)
		}
	}
	return nil
}

// 文档注释：推导县分区
// 约束：county 为空返回 nil；命中拆分规则时按 province 选择分区，否则返回县本身的副本。
func (r *SpecialRules) CountyPart(county, province *model.Area) *model.Area {
	if county == nil {
		return nil
	}
	for _, s := range r.CountySplits {
		if s.County != county.ID {
			continue
		}
		if province != nil {
			for _, p := range s.Parts {
				if p.Province == province.ID {
					return p.Part.area()
				}
			}
		}
		return s.Otherwise.area()
	}
	return &model.Area{ID: county.ID, Name: county.Name}
}

// 文档注释：推导省分区
// 约束：province 为空返回 nil；属于合并组时返回合并后的分区，否则返回省本身的副本。
func (r *SpecialRules) ProvincePart(province *model.Area) *model.Area {
	if province == nil {
		return nil
	}
	for _, m := range r.ProvinceMerges {
		for _, id := range m.Provinces {
			if id == province.ID {
				return m.Into.area()
			}
		}
	}
	return &model.Area{ID: province.ID, Name: province.Name}
}
