package providers

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"observation-processor/internal/config"
	"observation-processor/internal/model"
	"observation-processor/internal/processing"
	"observation-processor/internal/verbatim"
)

// 提供方类型
const (
	KindDwc         = "dwc"
	KindArtportalen = "artportalen"
)

// builder：为一个提供方构建处理任务
type builder func(db *sql.DB, p model.DataProvider, deps processing.Deps, cfg processing.Config) processing.Job

var builders = map[string]builder{
	KindDwc: func(db *sql.DB, p model.DataProvider, deps processing.Deps, cfg processing.Config) processing.Job {
		store := verbatim.NewPGStore(db, p.ID, verbatim.DecodeDwc)
		return processing.NewRunner[verbatim.DwcRecord](store, DwcFactory{ProviderID: p.ID}, deps, cfg)
	},
	KindArtportalen: func(db *sql.DB, p model.DataProvider, deps processing.Deps, cfg processing.Config) processing.Job {
		store := verbatim.NewPGStore(db, p.ID, verbatim.DecodeArtportalen)
		return processing.NewRunner[verbatim.ArtportalenSighting](store, ArtportalenFactory{ProviderID: p.ID}, deps, cfg)
	},
}

// Kinds 返回支持的提供方类型
func Kinds() []string {
	out := make([]string, 0, len(builders))
	for k := range builders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// 文档注释：按配置注册全部提供方
// 背景：每个提供方读取 verbatim_observations 中属于自己的记录，共用同一组运行依赖。
// 约束：未知类型或重复标识返回错误，已注册的提供方保留。
func Register(reg *processing.Registry, db *sql.DB, specs []config.ProviderConfig, deps processing.Deps, cfg processing.Config) error {
	for _, s := range specs {
		b, ok := builders[s.Kind]
		if !ok {
			return fmt.Errorf("provider %q: unknown kind %q (supported: %s)", s.Identifier, s.Kind, strings.Join(Kinds(), ", "))
		}
		p := model.DataProvider{ID: s.ID, Identifier: s.Identifier, Name: s.Name}
		if err := reg.Register(p, b(db, p, deps, cfg)); err != nil {
			return err
		}
	}
	return nil
}
