package areas

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"
)

// hit：索引中的一条要素及其规范区域 id
type hit struct {
	feature *Feature
	areaID  string
}

// 文档注释：包围盒 R 树空间索引
// 背景：包围盒相交做廉价预过滤，再对候选做精确点面判定；替代逐要素线性扫描。
// 约束：进程内只构建一次（built 标记防止重复构建）；构建完成后只读，可被任意数量的并发读者共享。
type Index struct {
	mu      sync.Mutex
	tree    rtree.RTreeG[*hit]
	built   atomic.Bool
	size    int
	queries atomic.Int64
}

func NewIndex() *Index { return &Index{} }

// 文档注释：填充并定稿索引
// 背景：fill 通过 add 插入要素；全部插入后标记为已构建。索引已构建时不调用 fill，返回 false。
// 约束：并发调用串行化；fill 返回错误时索引保持未构建状态。
func (ix *Index) Populate(fill func(add func(f *Feature, areaID string)) error) (bool, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.built.Load() {
		return false, nil
	}
	add := func(f *Feature, areaID string) {
		b := f.Geometry.Bound()
		ix.tree.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, &hit{feature: f, areaID: areaID})
		ix.size++
	}
	if err := fill(add); err != nil {
		return false, err
	}
	ix.built.Store(true)
	return true, nil
}

func (ix *Index) Built() bool { return ix.built.Load() }

// Len 返回已插入的要素数量
func (ix *Index) Len() int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.size
}

// Queries 返回累计空间查询次数
func (ix *Index) Queries() int64 { return ix.queries.Load() }

// 文档注释：查询包含点的全部要素
// 背景：包围盒命中后执行精确判定；结果按要素 id 升序，保证同类型多命中时选择稳定。
// 约束：未构建的索引返回空结果。
func (ix *Index) Search(pt orb.Point) []*hit {
	if !ix.built.Load() {
		return nil
	}
	ix.queries.Add(1)
	var out []*hit
	p := [2]float64{pt[0], pt[1]}
	ix.tree.Search(p, p, func(_, _ [2]float64, h *hit) bool {
		if h.feature.Contains(pt) {
			out = append(out, h)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].feature.ID < out[j].feature.ID })
	return out
}
