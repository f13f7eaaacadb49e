package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunStatus：一次提供方处理运行的终态
type RunStatus int

const (
	RunStatusSuccess RunStatus = iota
	RunStatusFailed
	RunStatusCancelled
)

func (s RunStatus) String() string {
	switch s {
	case RunStatusSuccess:
		return "Success"
	case RunStatusFailed:
		return "Failed"
	case RunStatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("RunStatus(%d)", int(s))
	}
}

func (s RunStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *RunStatus) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "success":
		*s = RunStatusSuccess
	case "failed":
		*s = RunStatusFailed
	case "cancelled", "canceled":
		*s = RunStatusCancelled
	default:
		return fmt.Errorf("unknown run status %q", string(b))
	}
	return nil
}

// 文档注释：单次提供方处理运行的结果摘要
// 背景：在 Process 开始时记录起始时间，结束时定稿并返回给调用方；本模块不持久化。
// 约束：Failed/Cancelled 的 ProcessCount 恒为 0。
type RunInfo struct {
	RunID        uuid.UUID    `json:"runId"`
	DataProvider DataProvider `json:"dataProvider"`
	Status       RunStatus    `json:"status"`
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	ProcessCount int          `json:"processCount"`
}

func Succeeded(p DataProvider, start, end time.Time, count int) RunInfo {
	return RunInfo{DataProvider: p, Status: RunStatusSuccess, Start: start, End: end, ProcessCount: count}
}

func Failed(p DataProvider, start, end time.Time) RunInfo {
	return RunInfo{DataProvider: p, Status: RunStatusFailed, Start: start, End: end}
}

func Cancelled(p DataProvider, start, end time.Time) RunInfo {
	return RunInfo{DataProvider: p, Status: RunStatusCancelled, Start: start, End: end}
}

// WithRunID 返回带运行 id 的副本
func (r RunInfo) WithRunID(id uuid.UUID) RunInfo {
	r.RunID = id
	return r
}

// Duration 返回运行耗时
func (r RunInfo) Duration() time.Duration { return r.End.Sub(r.Start) }
