package areas

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/sync/errgroup"

	"observation-processor/internal/logger"
	"observation-processor/internal/metrics"
	"observation-processor/internal/model"
)

// DefaultPageSize：区域库分页大小
const DefaultPageSize = 1000

const redisTimeout = 200 * time.Millisecond

// State：引擎生命周期
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	}
	return "uninitialized"
}

// 文档注释：区域字段映射来源
// 背景：AreaMappings 将区域库中的外部 id 映射为规范区域 id；DisplayValues 给出规范 id 的显示名称。
type FieldMappings interface {
	AreaMappings(ctx context.Context) (map[model.AreaType]map[string]string, error)
	DisplayValues(ctx context.Context) (map[model.AreaType]map[string]string, error)
}

// Options：引擎构建参数
type Options struct {
	CacheFile string
	PageSize  int
	// Rules 为空时使用 DefaultSpecialRules
	Rules *SpecialRules
	// Index 可在多个引擎间共享；已构建的索引不会重复加载
	Index  *Index
	Redis  *RedisTier
	Logger *slog.Logger
}

// 文档注释：区域富化引擎
// 背景：为观测坐标解析县/市/教区/省与经济区标记，结果按 5 位小数坐标桶缓存；并发安全，可被所有并行分段共享。
// 约束：仅通过 Create 获得，返回时已处于 Ready；初始化后 mappings/display 只读。
type Engine struct {
	state     atomic.Int32
	store     AreaStore
	index     *Index
	cache     *PositionCache
	redis     *RedisTier
	rules     *SpecialRules
	cacheFile string
	pageSize  int
	mappings  map[model.AreaType]map[string]string
	display   map[model.AreaType]map[string]string
	log       *slog.Logger
}

// 文档注释：构建并初始化引擎
// 背景：持久化缓存的读取与“字段映射→索引构建”并行执行，全部完成后才返回。
// 约束：缓存文件缺失或不兼容时以空缓存继续；映射读取或区域库读取失败时返回错误。
func Create(ctx context.Context, store AreaStore, fm FieldMappings, opts Options) (*Engine, error) {
	e := &Engine{
		store:     store,
		index:     opts.Index,
		redis:     opts.Redis,
		rules:     opts.Rules,
		cacheFile: opts.CacheFile,
		pageSize:  opts.PageSize,
		log:       opts.Logger,
		mappings:  map[model.AreaType]map[string]string{},
		display:   map[model.AreaType]map[string]string{},
	}
	if e.index == nil {
		e.index = NewIndex()
	}
	if e.rules == nil {
		e.rules = DefaultSpecialRules()
	}
	if e.pageSize <= 0 {
		e.pageSize = DefaultPageSize
	}
	if e.log == nil {
		e.log = logger.L()
	}
	e.state.Store(int32(StateInitializing))

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.cache = e.loadCache()
		return nil
	})
	g.Go(func() error {
		if fm != nil {
			m, err := fm.AreaMappings(gctx)
			if err != nil {
				return fmt.Errorf("loading area mappings: %w", err)
			}
			d, err := fm.DisplayValues(gctx)
			if err != nil {
				return fmt.Errorf("loading area display values: %w", err)
			}
			if m != nil {
				e.mappings = m
			}
			if d != nil {
				e.display = d
			}
		}
		return e.buildIndex(gctx)
	})
	if err := g.Wait(); err != nil {
		e.state.Store(int32(StateUninitialized))
		return nil, err
	}
	e.state.Store(int32(StateReady))
	e.log.Info("area_engine_ready",
		"features", e.index.Len(),
		"cached_positions", e.cache.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return e, nil
}

func (e *Engine) loadCache() *PositionCache {
	if e.cacheFile == "" {
		return NewPositionCache()
	}
	c, err := LoadCacheFile(e.cacheFile)
	if err != nil {
		e.log.Warn("position_cache_discarded", "file", e.cacheFile, "err", err)
		return NewPositionCache()
	}
	e.log.Info("position_cache_loaded", "file", e.cacheFile, "entries", c.Len())
	return c
}

// 文档注释：分页读取区域库并构建空间索引
// 约束：索引已构建时跳过（多个引擎共享同一索引）；几何缺失或图层类型未知的要素记录告警后跳过。
func (e *Engine) buildIndex(ctx context.Context) error {
	built, err := e.index.Populate(func(add func(*Feature, string)) error {
		for skip := 0; ; {
			page, err := e.store.Page(ctx, skip, e.pageSize)
			if err != nil {
				return fmt.Errorf("reading areas at offset %d: %w", skip, err)
			}
			if len(page) == 0 {
				return nil
			}
			for i := range page {
				f := &page[i]
				if !f.Type.Valid() {
					e.log.Warn("area_unknown_type", "id", f.ID, "type", string(f.Type))
					continue
				}
				if f.Geometry == nil {
					e.log.Warn("area_without_geometry", "id", f.ID, "type", string(f.Type))
					continue
				}
				add(f, e.canonicalID(f))
			}
			skip += len(page)
		}
	})
	if err != nil {
		return err
	}
	if !built {
		e.log.Debug("area_index_reused", "features", e.index.Len())
		return nil
	}
	metrics.AreaFeaturesLoaded.Set(float64(e.index.Len()))
	e.log.Info("area_index_built", "features", e.index.Len())
	return nil
}

func (e *Engine) canonicalID(f *Feature) string {
	if id, ok := e.mappings[f.Type][f.FeatureID]; ok {
		return id
	}
	return f.FeatureID
}

func (e *Engine) State() State { return State(e.state.Load()) }

// Index 返回引擎使用的空间索引，可传给其他引擎共享
func (e *Engine) Index() *Index { return e.index }

// Cache 返回坐标桶缓存
func (e *Engine) Cache() *PositionCache { return e.cache }

// 文档注释：解析坐标所属区域
// 背景：坐标先取 5 位小数形成缓存键；依次查进程内缓存、Redis、空间索引。
// 约束：同一坐标桶返回同一实例；返回值被缓存共享，调用方不得修改。
func (e *Engine) ResolvePosition(lon, lat float64) *model.PositionLocation {
	key := CacheKey(lon, lat)
	if pos, ok := e.cache.Get(key); ok {
		metrics.PositionCacheHitsTotal.Inc()
		return pos
	}
	if e.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		pos, ok := e.redis.Get(ctx, key)
		cancel()
		if ok {
			metrics.PositionRedisHitsTotal.Inc()
			actual, _ := e.cache.LoadOrStore(key, pos)
			return actual
		}
	}
	metrics.PositionCacheMissesTotal.Inc()
	pos := e.lookup(orb.Point{Round5(lon), Round5(lat)})
	actual, stored := e.cache.LoadOrStore(key, pos)
	if stored && e.redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
		if err := e.redis.Set(ctx, key, actual); err != nil {
			e.log.Debug("position_redis_set_error", "key", key, "err", err)
		}
		cancel()
	}
	return actual
}

func (e *Engine) lookup(pt orb.Point) *model.PositionLocation {
	pos := &model.PositionLocation{}
	for _, h := range e.index.Search(pt) {
		switch h.feature.Type {
		case model.AreaTypeCounty:
			if pos.County == nil {
				pos.County = &model.Area{ID: h.areaID}
			}
		case model.AreaTypeMunicipality:
			if pos.Municipality == nil {
				pos.Municipality = &model.Area{ID: h.areaID}
			}
		case model.AreaTypeParish:
			if pos.Parish == nil {
				pos.Parish = &model.Area{ID: h.areaID}
			}
		case model.AreaTypeProvince:
			if pos.Province == nil {
				pos.Province = &model.Area{ID: h.areaID}
			}
		case model.AreaTypeEconomicZoneOfSweden:
			pos.EconomicZoneOfSweden = true
		}
	}
	return pos
}

// 文档注释：为观测补充区域归属
// 背景：解析结果复制到观测上，再按特例规则推导县分区与省分区。
// 约束：无位置或坐标为 (0,0) 时不做任何修改；不修改缓存中的共享实例。
func (e *Engine) Enrich(obs *model.ProcessedObservation) {
	if obs == nil || obs.Location == nil || !obs.Location.HasCoordinates() {
		return
	}
	loc := obs.Location
	lon, lat := *loc.DecimalLongitude, *loc.DecimalLatitude
	if lon == 0 && lat == 0 {
		return
	}
	pos := e.ResolvePosition(lon, lat)
	loc.County = cloneArea(pos.County)
	loc.Municipality = cloneArea(pos.Municipality)
	loc.Parish = cloneArea(pos.Parish)
	loc.Province = cloneArea(pos.Province)
	loc.IsInEconomicZoneOfSweden = pos.EconomicZoneOfSweden
	loc.CountyPart = e.rules.CountyPart(loc.County, loc.Province)
	loc.ProvincePart = e.rules.ProvincePart(loc.Province)
}

func cloneArea(a *model.Area) *model.Area {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// 文档注释：为观测上的区域填充显示名称
// 约束：县分区/省分区已有名称（特例规则给出）时保留；否则按县/省字典查找。
func (e *Engine) AttachDisplayValues(obs *model.ProcessedObservation) {
	if obs == nil || obs.Location == nil {
		return
	}
	loc := obs.Location
	e.name(model.AreaTypeCounty, loc.County)
	e.name(model.AreaTypeMunicipality, loc.Municipality)
	e.name(model.AreaTypeParish, loc.Parish)
	e.name(model.AreaTypeProvince, loc.Province)
	if loc.CountyPart != nil && loc.CountyPart.Name == "" {
		e.name(model.AreaTypeCounty, loc.CountyPart)
	}
	if loc.ProvincePart != nil && loc.ProvincePart.Name == "" {
		e.name(model.AreaTypeProvince, loc.ProvincePart)
	}
}

func (e *Engine) name(t model.AreaType, a *model.Area) {
	if a == nil {
		return
	}
	if v, ok := e.display[t][a.ID]; ok {
		a.Name = v
	}
}

// 文档注释：将坐标桶缓存写入本地文件
// 约束：未配置缓存文件时为空操作；在一个完整处理周期结束时调用一次。
func (e *Engine) PersistCache() error {
	if e.cacheFile == "" {
		return nil
	}
	if err := e.cache.WriteFile(e.cacheFile); err != nil {
		return err
	}
	e.log.Info("position_cache_persisted", "file", e.cacheFile, "entries", e.cache.Len())
	return nil
}
