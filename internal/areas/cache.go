package areas

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"observation-processor/internal/model"
)

// Round5 将坐标四舍五入到 5 位小数（约 1 米）；-0 归一为 0
func Round5(v float64) float64 {
	r := math.Round(v*1e5) / 1e5
	if r == 0 {
		return 0
	}
	return r
}

// 文档注释：坐标桶缓存键
// 背景：经纬度各取 5 位小数后以 ":" 连接；与持久化文件的键格式一致。
func CacheKey(lon, lat float64) string {
	return strconv.FormatFloat(Round5(lon), 'f', 5, 64) + ":" + strconv.FormatFloat(Round5(lat), 'f', 5, 64)
}

// 文档注释：坐标桶 → 区域归属缓存
// 背景：并行分段并发读写；sync.Map 的 LoadOrStore 提供原子“取或插”，不对整表加锁。
// 约束：同一键的重复计算可以接受，但先写入者胜出，所有调用方拿到同一个实例。
type PositionCache struct {
	m sync.Map
	n atomic.Int64
}

func NewPositionCache() *PositionCache { return &PositionCache{} }

func (c *PositionCache) Get(key string) (*model.PositionLocation, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*model.PositionLocation), true
}

// LoadOrStore 返回键上的实际实例；stored 表示本次调用写入了 pos
func (c *PositionCache) LoadOrStore(key string, pos *model.PositionLocation) (*model.PositionLocation, bool) {
	v, loaded := c.m.LoadOrStore(key, pos)
	if !loaded {
		c.n.Add(1)
	}
	return v.(*model.PositionLocation), !loaded
}

func (c *PositionCache) Len() int { return int(c.n.Load()) }

// Snapshot 复制当前全部缓存项
func (c *PositionCache) Snapshot() map[string]*model.PositionLocation {
	out := make(map[string]*model.PositionLocation, c.Len())
	c.m.Range(func(k, v any) bool {
		out[k.(string)] = v.(*model.PositionLocation)
		return true
	})
	return out
}

// 文档注释：从本地 JSON 文件加载缓存
// 背景：复用之前运行解析过的坐标桶，避免重复空间查询。
// 约束：文件不存在返回空缓存且无错误；格式不兼容时返回空缓存与错误，由调用方记录后按空缓存继续，不中断进程。
func LoadCacheFile(path string) (*PositionCache, error) {
	c := NewPositionCache()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("reading position cache %s: %w", path, err)
	}
	var raw map[string]*model.PositionLocation
	if err := json.Unmarshal(b, &raw); err != nil {
		return c, fmt.Errorf("decoding position cache %s: %w", path, err)
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		c.LoadOrStore(k, v)
	}
	return c, nil
}

// 文档注释：将缓存整体写入本地 JSON 文件（覆盖旧文件）
// 背景：先写临时文件再重命名，避免中途失败留下截断文件。
func (c *PositionCache) WriteFile(path string) error {
	b, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding position cache: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".position-cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_, werr := tmp.Write(b)
	cerr := tmp.Close()
	if werr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing position cache: %w", werr)
	}
	if cerr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", cerr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
