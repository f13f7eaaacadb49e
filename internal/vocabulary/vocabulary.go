// 包 vocabulary：字段映射与词表（区域 id 映射、显示值、受控词表字段）
package vocabulary

import (
	"context"

	"observation-processor/internal/model"
)

// 受控词表字段名
const (
	FieldOccurrenceStatus = "OccurrenceStatus"
	FieldValidationStatus = "ValidationStatus"
)

// OccurrenceStatus 词表 id
const (
	OccurrenceStatusPresent = 0
	OccurrenceStatusAbsent  = 1
)

// ValidationStatus 词表 id
const (
	ValidationStatusUnvalidated = 0
	ValidationStatusVerified    = 10
	ValidationStatusRejected    = 20
)

// 文档注释：字段映射与词表来源
// 背景：AreaMappings 为“区域类型 → 外部 id → 规范 id”；DisplayValues 为“区域类型 → 规范 id → 显示值”；FieldValues 为“字段 → 词表 id → 值”。
type Source interface {
	AreaMappings(ctx context.Context) (map[model.AreaType]map[string]string, error)
	DisplayValues(ctx context.Context) (map[model.AreaType]map[string]string, error)
	FieldValues(ctx context.Context) (map[string]map[int]string, error)
}

// StaticSource：内存来源
type StaticSource struct {
	Mappings map[model.AreaType]map[string]string
	Display  map[model.AreaType]map[string]string
	Fields   map[string]map[int]string
}

func (s *StaticSource) AreaMappings(context.Context) (map[model.AreaType]map[string]string, error) {
	return s.Mappings, nil
}

func (s *StaticSource) DisplayValues(context.Context) (map[model.AreaType]map[string]string, error) {
	return s.Display, nil
}

func (s *StaticSource) FieldValues(context.Context) (map[string]map[int]string, error) {
	if s.Fields == nil {
		return DefaultFieldValues(), nil
	}
	return s.Fields, nil
}

// DefaultFieldValues：内置词表（词表表为空或未配置数据库时使用）
func DefaultFieldValues() map[string]map[int]string {
	return map[string]map[int]string{
		FieldOccurrenceStatus: {
			OccurrenceStatusPresent: "present",
			OccurrenceStatusAbsent:  "absent",
		},
		FieldValidationStatus: {
			ValidationStatusUnvalidated: "unvalidated",
			ValidationStatusVerified:    "verified",
			ValidationStatusRejected:    "rejected",
		},
	}
}
