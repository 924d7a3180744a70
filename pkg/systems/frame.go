package systems

import (
	"time"

	"github.com/gonewx/driftfield/pkg/game"
)

// FrameContext 一个模拟 tick 的输入快照
//
// 同一 tick 内所有家族系统看到相同的时刻、滚动位置和视口。
type FrameContext struct {
	Now      time.Duration
	ScrollY  float64
	Viewport game.Viewport
	// Scan 本 tick 是否执行碰撞扫描
	Scan bool
}

// Stats 引擎运行计数
type Stats struct {
	Frames      int
	Ticks       int
	Scans       int
	Collisions  int
	Absorptions int
	Respawns    int
	Evictions   int
	Live        int
}
