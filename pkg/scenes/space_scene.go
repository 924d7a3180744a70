package scenes

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gonewx/driftfield/pkg/engine"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

const (
	// documentScreens 虚拟文档高度（视口高度的倍数）
	documentScreens = 4.0

	wheelStep    = 60.0 // 每格滚轮滚动的像素
	keyStep      = 12.0 // 方向键按住时每次 Update 滚动的像素
	pageFraction = 0.9  // PageUp/PageDown 滚动的视口比例

	fadePowerStep = 0.5
)

// SpaceScene 查看器主场景
//
// 场景扮演"网页"的角色：一个高度为若干屏的虚拟文档，上面挂着若干面板。
// 滚动和窗口尺寸变化都报告给引擎，面板在挂载时注册、卸载时注销，
// 碰撞效果以涟漪的形式画在面板上。
type SpaceScene struct {
	engine   *engine.Engine
	clock    *game.PausableClock
	settings *game.SettingsManager

	width          float64
	height         float64
	documentHeight float64
	scrollY        float64

	slots       []PanelSlot
	panels      []*PanelWidget
	starfield   *Starfield
	unsubscribe func()

	rippleDuration time.Duration

	touchID    ebiten.TouchID
	touching   bool
	lastTouchY float64
}

// NewSpaceScene 创建场景
//
// clock 必须是 eng 使用的时钟，暂停通过冻结时钟实现。
// 面板在第一次 Resize 时挂载。
func NewSpaceScene(eng *engine.Engine, clock *game.PausableClock, settings *game.SettingsManager) *SpaceScene {
	s := &SpaceScene{
		engine:         eng,
		clock:          clock,
		settings:       settings,
		slots:          DefaultPanelSlots,
		starfield:      NewStarfield(starfieldCount, starfieldSeed),
		rippleDuration: eng.Config().Collision.RippleDuration,
	}
	s.unsubscribe = eng.OnCollision(s.handleCollision)

	vs := settings.GetSettings()
	if vs.Paused {
		clock.Pause()
	}
	if vs.FadePower > 0 {
		eng.SetFadePower(vs.FadePower)
	}
	return s
}

// Resize 更新视口尺寸，尺寸未变化时不做任何事
func (s *SpaceScene) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	first := s.width == 0 && s.height == 0
	s.width, s.height = width, height
	s.documentHeight = height * documentScreens

	if first {
		for range s.slots {
			s.AddPanel()
		}
	} else {
		for i, w := range s.panels {
			w.DocRect = SlotRect(s.slots[i], s.width, s.height, s.documentHeight)
		}
	}

	s.engine.NotifyResize(game.Viewport{
		Width:          width,
		Height:         height,
		DocumentHeight: s.documentHeight,
	})
	s.SetScroll(s.scrollY)
	log.Printf("[SpaceScene] Resized to %.0fx%.0f (document %.0f)", width, height, s.documentHeight)
}

// SetScroll 设置滚动位置（限制在文档范围内），变化时报告给引擎
func (s *SpaceScene) SetScroll(y float64) {
	y = utils.Clamp(y, 0, s.MaxScroll())
	if y == s.scrollY {
		return
	}
	s.scrollY = y
	s.engine.NotifyScroll(y)
}

// ScrollBy 相对滚动
func (s *SpaceScene) ScrollBy(dy float64) {
	s.SetScroll(s.scrollY + dy)
}

// ScrollY 当前滚动位置
func (s *SpaceScene) ScrollY() float64 {
	return s.scrollY
}

// MaxScroll 最大滚动位置
func (s *SpaceScene) MaxScroll() float64 {
	if s.documentHeight <= s.height {
		return 0
	}
	return s.documentHeight - s.height
}

// AddPanel 挂载下一个布局槽位上的面板，所有槽位都已挂载时返回 false
func (s *SpaceScene) AddPanel() bool {
	i := len(s.panels)
	if i >= len(s.slots) {
		return false
	}
	slot := s.slots[i]
	w := NewPanelWidget(
		fmt.Sprintf("panel-%d", i+1),
		slot.Title,
		SlotRect(slot, s.width, s.height, s.documentHeight),
		s.ScrollY,
	)
	s.panels = append(s.panels, w)
	s.engine.RegisterPanel(w.ID, w)
	log.Printf("[SpaceScene] Mounted %s", w)
	return true
}

// RemovePanel 卸载最后挂载的面板，没有面板时返回 false
func (s *SpaceScene) RemovePanel() bool {
	if len(s.panels) == 0 {
		return false
	}
	w := s.panels[len(s.panels)-1]
	s.panels = s.panels[:len(s.panels)-1]
	s.engine.UnregisterPanel(w.ID)
	log.Printf("[SpaceScene] Unmounted %s", w.ID)
	return true
}

// Panels 当前挂载的面板
func (s *SpaceScene) Panels() []*PanelWidget {
	return s.panels
}

// Panel 按 id 查找面板
func (s *SpaceScene) Panel(id string) (*PanelWidget, bool) {
	for _, w := range s.panels {
		if w.ID == id {
			return w, true
		}
	}
	return nil, false
}

// handleCollision 在面板上添加涟漪，并在 rippleDuration 后移除
func (s *SpaceScene) handleCollision(panelID string, local utils.Point) {
	w, ok := s.Panel(panelID)
	if !ok {
		return
	}
	id := w.AddRipple(local, s.engine.Now())
	s.engine.Timers().After(s.rippleDuration, func() { w.RemoveRipple(id) })
}

// TogglePause 切换暂停并持久化
func (s *SpaceScene) TogglePause() bool {
	paused := s.settings.TogglePaused()
	if paused {
		s.clock.Pause()
	} else {
		s.clock.Resume()
	}
	s.saveSettings()
	return paused
}

// AdjustFadePower 调整 field 家族的转向淡出指数并持久化
func (s *SpaceScene) AdjustFadePower(delta float64) float64 {
	s.settings.SetFadePower(s.FadePower() + delta)
	power := s.settings.GetSettings().FadePower
	s.engine.SetFadePower(power)
	s.saveSettings()
	return s.FadePower()
}

// FadePower 当前生效的淡出指数
func (s *SpaceScene) FadePower() float64 {
	if p := s.settings.GetSettings().FadePower; p > 0 {
		return p
	}
	return s.engine.Config().Field.FadePower
}

func (s *SpaceScene) saveSettings() {
	if err := s.settings.Save(); err != nil {
		log.Printf("[SpaceScene] Warning: failed to save settings: %v", err)
	}
}

// SaveOnExit 退出时保存查看器设置
func (s *SpaceScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[SpaceScene] Warning: failed to save settings on exit: %v", err)
		return false
	}
	return true
}

// Close 取消碰撞订阅
func (s *SpaceScene) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Update 处理输入并推进一帧模拟
func (s *SpaceScene) Update(deltaTime float64) {
	s.handleInput()
	if s.clock.Paused() {
		return
	}
	s.engine.Frame()
}

func (s *SpaceScene) handleInput() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		s.ScrollBy(-wy * wheelStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		s.ScrollBy(keyStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		s.ScrollBy(-keyStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		s.ScrollBy(s.height * pageFraction)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		s.ScrollBy(-s.height * pageFraction)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		s.SetScroll(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		s.SetScroll(s.MaxScroll())
	}
	s.handleTouch()

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		s.settings.ToggleOverlay()
		s.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		s.settings.TogglePanels()
		s.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		s.AddPanel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		s.RemovePanel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		s.AdjustFadePower(fadePowerStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		s.AdjustFadePower(-fadePowerStep)
	}
}

// handleTouch 单指拖动滚动
func (s *SpaceScene) handleTouch() {
	if !s.touching {
		justPressed := inpututil.AppendJustPressedTouchIDs(nil)
		if len(justPressed) == 0 {
			return
		}
		s.touchID = justPressed[0]
		s.touching = true
		_, y := ebiten.TouchPosition(s.touchID)
		s.lastTouchY = float64(y)
		return
	}

	if inpututil.IsTouchJustReleased(s.touchID) {
		s.touching = false
		return
	}
	_, y := ebiten.TouchPosition(s.touchID)
	s.ScrollBy(s.lastTouchY - float64(y))
	s.lastTouchY = float64(y)
}
