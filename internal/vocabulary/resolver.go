package vocabulary

import (
	"context"
	"fmt"

	"observation-processor/internal/model"
)

// 文档注释：词表引用解析
// 背景：观测工厂只写入词表 id；提交前按批补全显示值。
// 约束：构建后只读，可并发使用；未知 id 保留原值。
type Resolver struct {
	fields map[string]map[int]string
}

func NewResolver(ctx context.Context, src Source) (*Resolver, error) {
	fields, err := src.FieldValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vocabularies: %w", err)
	}
	return &Resolver{fields: fields}, nil
}

func (r *Resolver) ResolveBatch(observations []*model.ProcessedObservation) {
	for _, o := range observations {
		if o == nil {
			continue
		}
		if o.Occurrence != nil {
			r.resolve(FieldOccurrenceStatus, o.Occurrence.Status)
		}
		if o.Identification != nil {
			r.resolve(FieldValidationStatus, o.Identification.ValidationStatus)
		}
	}
}

func (r *Resolver) resolve(field string, v *model.VocabularyValue) {
	if v == nil {
		return
	}
	if s, ok := r.fields[field][v.ID]; ok {
		v.Value = s
	}
}
