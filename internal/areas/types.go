// 包 areas：区域富化引擎（空间索引构建、坐标→行政区解析、坐标桶缓存、特例区域拆分/合并）
package areas

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"observation-processor/internal/model"
)

// 文档注释：行政区多边形（要素）
// 背景：来源于区域多边形库的分页读取，进程生命周期内只加载一次进入空间索引，之后只读。
// 约束：Geometry 支持 Polygon/MultiPolygon（GeoJSON 约定：第一环为外环，其余为洞）；FeatureID 为外部 id，经字段映射转换为规范区域 id。
type Feature struct {
	ID        int
	ParentID  int
	Type      model.AreaType
	FeatureID string
	Name      string
	Geometry  orb.Geometry
}

// Contains 精确判定点是否落在要素几何内；不支持的几何类型视为未命中
func (f *Feature) Contains(pt orb.Point) bool {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	case orb.Ring:
		return planar.RingContains(g, pt)
	case orb.Bound:
		return g.Contains(pt)
	}
	return false
}

// DecodeGeometry 解析 GeoJSON geometry 对象
func DecodeGeometry(b []byte) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return nil, fmt.Errorf("decoding geojson geometry: %w", err)
	}
	geom := g.Geometry()
	if geom == nil {
		return nil, fmt.Errorf("empty geojson geometry")
	}
	return geom, nil
}
