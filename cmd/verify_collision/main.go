// verify_collision 在无界面环境下运行引擎，统计碰撞和吸收
//
// 用法:
//
//	go run ./cmd/verify_collision --seconds 20 --panels "100,100,300,200;700,300,400,250"
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/engine"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

const frameStep = 16 * time.Millisecond

var (
	verbose    = flag.Bool("verbose", false, "显示引擎日志")
	configPath = flag.String("config", "", "引擎配置文件路径（默认使用内置配置）")
	seconds    = flag.Float64("seconds", 20, "模拟时长（秒）")
	seed       = flag.Int64("seed", 1, "随机种子")
	width      = flag.Float64("width", 1280, "视口宽度")
	height     = flag.Float64("height", 720, "视口高度")
	document   = flag.Float64("document", 2880, "文档高度")
	scroll     = flag.Float64("scroll", 0, "滚动位置")
	panels     = flag.String("panels", "", `面板布局 "x,y,w,h;..."（视口坐标），为空时使用一个覆盖整个视口的面板`)
	ratio      = flag.Float64("ratio", -1, "覆盖碰撞体比例（0~1，负数表示使用配置值）")
)

// absorption 单个粒子的一次碰撞-吸收过程
type absorption struct {
	id         ecs.EntityID
	family     components.Family
	collidedAt time.Duration
	absorbedAt time.Duration
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultEngineConfig()
	if *configPath != "" {
		loaded, err := config.LoadEngineConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *ratio >= 0 {
		cfg.Collision.ColliderRatio = *ratio
	}

	layout := []utils.Bounds{utils.NewBounds(0, 0, *width, *height)}
	if *panels != "" {
		parsed, err := parsePanels(*panels)
		if err != nil {
			return err
		}
		layout = parsed
	}

	clock := game.NewManualClock(0)
	eng, err := engine.New(cfg,
		engine.WithClock(clock),
		engine.WithRand(rand.New(rand.NewSource(*seed))),
		engine.WithViewport(game.Viewport{Width: *width, Height: *height, DocumentHeight: *document}),
	)
	if err != nil {
		return err
	}
	defer eng.Close()

	for i, b := range layout {
		bounds := b
		eng.RegisterPanel(fmt.Sprintf("panel-%d", i+1), game.ElementFunc(func() utils.Bounds { return bounds }))
	}
	contacts := make(map[string]int)
	eng.OnCollision(func(panelID string, _ utils.Point) { contacts[panelID]++ })

	eng.NotifyScroll(*scroll)
	eng.Start()

	var (
		finished []absorption
		open     = make(map[ecs.EntityID]absorption)
		previous = make(map[ecs.EntityID]components.CollisionState)
	)
	total := time.Duration(*seconds * float64(time.Second))
	for clock.Now() < total {
		clock.Advance(frameStep)
		eng.Frame()

		for _, p := range eng.Snapshot() {
			before := previous[p.ID]
			previous[p.ID] = p.State
			switch {
			case p.State == components.CollisionColliding && before != components.CollisionColliding:
				open[p.ID] = absorption{id: p.ID, family: p.Family, collidedAt: clock.Now()}
			case p.State == components.CollisionAbsorbed && before == components.CollisionColliding:
				if a, ok := open[p.ID]; ok {
					a.absorbedAt = clock.Now()
					finished = append(finished, a)
					delete(open, p.ID)
				}
			}
		}
	}

	report(eng.Stats(), contacts, layout, finished, len(open), cfg.Collision.AbsorptionDuration)
	return nil
}

func report(st engine.Stats, contacts map[string]int, layout []utils.Bounds, finished []absorption, pending int, duration time.Duration) {
	fmt.Printf("=== 模拟统计 ===\n")
	fmt.Printf("帧数: %d  tick: %d  扫描: %d\n", st.Frames, st.Ticks, st.Scans)
	fmt.Printf("碰撞: %d  吸收: %d  重生: %d  淘汰: %d  存活: %d\n",
		st.Collisions, st.Absorptions, st.Respawns, st.Evictions, st.Live)

	fmt.Printf("\n=== 面板 ===\n")
	for i, b := range layout {
		id := fmt.Sprintf("panel-%d", i+1)
		fmt.Printf("  %-10s (%.0f, %.0f) %.0fx%.0f  接触: %d\n", id, b.Left, b.Top, b.Width, b.Height, contacts[id])
	}

	fmt.Printf("\n=== 吸收时序（期望 >= %v）===\n", duration)
	early := 0
	for _, a := range finished {
		delta := a.absorbedAt - a.collidedAt
		mark := ""
		if delta < duration {
			mark = "  ❌ 过早"
			early++
		}
		fmt.Printf("  #%-5d %-5s 碰撞 %8.0fms  吸收 %8.0fms  耗时 %5.0fms%s\n",
			a.id, a.family, ms(a.collidedAt), ms(a.absorbedAt), ms(delta), mark)
	}
	fmt.Printf("完成: %d  进行中: %d  过早: %d\n", len(finished), pending, early)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
