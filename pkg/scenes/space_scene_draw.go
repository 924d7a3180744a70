package scenes

import (
	"cmp"
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/engine"
	"github.com/gonewx/driftfield/pkg/utils"
)

var (
	backgroundColor  = color.RGBA{R: 6, G: 8, B: 20, A: 255}
	panelFillColor   = color.NRGBA{R: 30, G: 38, B: 64, A: 170}
	panelBorderColor = color.NRGBA{R: 110, G: 140, B: 210, A: 220}
	rippleColor      = color.NRGBA{R: 150, G: 210, B: 255, A: 255}
	scrollbarColor   = color.NRGBA{R: 120, G: 130, B: 160, A: 120}

	// 各家族的变体配色
	beltPalette = []color.NRGBA{
		{R: 140, G: 118, B: 96, A: 255},
		{R: 122, G: 104, B: 88, A: 255},
		{R: 160, G: 140, B: 112, A: 255},
		{R: 104, G: 92, B: 84, A: 255},
		{R: 176, G: 150, B: 120, A: 255},
		{R: 132, G: 126, B: 118, A: 255},
	}
	fieldPalette = []color.NRGBA{
		{R: 170, G: 200, B: 230, A: 255},
		{R: 150, G: 180, B: 220, A: 255},
		{R: 200, G: 220, B: 240, A: 255},
		{R: 130, G: 170, B: 210, A: 255},
		{R: 180, G: 210, B: 250, A: 255},
		{R: 160, G: 190, B: 200, A: 255},
	}
	freePalette = map[string][]color.NRGBA{
		"comet":     {{R: 230, G: 245, B: 255, A: 255}},
		"asteroid":  {{R: 150, G: 120, B: 90, A: 255}, {R: 120, G: 100, B: 80, A: 255}, {R: 170, G: 150, B: 130, A: 255}},
		"satellite": {{R: 200, G: 200, B: 210, A: 255}},
	}
	defaultFreeColor = color.NRGBA{R: 220, G: 220, B: 220, A: 255}

	// 调试覆盖层中碰撞体外圈的颜色
	stateColors = map[components.CollisionState]color.NRGBA{
		components.CollisionActive:    {R: 80, G: 220, B: 120, A: 255},
		components.CollisionColliding: {R: 250, G: 190, B: 60, A: 255},
		components.CollisionAbsorbed:  {R: 240, G: 80, B: 80, A: 255},
	}
)

const (
	// 普通粒子在面板之下，碰撞体按配置的层级绘制
	backgroundZIndex = 0
	panelZIndex      = 10
)

// drawLayer 按 z 从低到高绘制的一层
type drawLayer int

const (
	layerParticles drawLayer = iota
	layerPanels
	layerColliders
)

// layerOrder 返回各层的绘制顺序，z 相同时保持上面的声明顺序
func layerOrder(colliderZIndex int) []drawLayer {
	z := map[drawLayer]int{
		layerParticles: backgroundZIndex,
		layerPanels:    panelZIndex,
		layerColliders: colliderZIndex,
	}
	layers := []drawLayer{layerParticles, layerPanels, layerColliders}
	slices.SortStableFunc(layers, func(a, b drawLayer) int { return cmp.Compare(z[a], z[b]) })
	return layers
}

// Draw 绘制场景
func (s *SpaceScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.starfield.Draw(screen, s.width, s.height, s.scrollY, s.engine.Now())

	vs := s.settings.GetSettings()
	snapshot := s.engine.Snapshot()
	for _, layer := range layerOrder(s.engine.Config().Collision.ColliderZIndex) {
		switch layer {
		case layerParticles:
			s.drawParticles(screen, snapshot, vs.ShowOverlay, false)
		case layerPanels:
			if vs.ShowPanels {
				s.drawPanels(screen)
			}
		case layerColliders:
			s.drawParticles(screen, snapshot, vs.ShowOverlay, true)
		}
	}
	s.drawScrollbar(screen)
	if vs.ShowOverlay {
		s.drawOverlay(screen)
	}
}

func (s *SpaceScene) drawPanels(screen *ebiten.Image) {
	now := s.engine.Now()
	for _, w := range s.panels {
		b := w.Bounds()
		if !utils.IsVisible(b, s.width, s.height) {
			continue
		}
		x, y := float32(b.Left), float32(b.Top)
		vector.DrawFilledRect(screen, x, y, float32(b.Width), float32(b.Height), panelFillColor, true)
		vector.StrokeRect(screen, x, y, float32(b.Width), float32(b.Height), 1.5, panelBorderColor, true)
		ebitenutil.DebugPrintAt(screen, w.Title, int(b.Left)+8, int(b.Top)+6)

		for _, r := range w.Ripples() {
			p := r.Progress(now, s.rippleDuration)
			radius := 6 + 42*utils.EaseOutCubic(p)
			vector.StrokeCircle(screen,
				float32(b.Left+r.Local.X), float32(b.Top+r.Local.Y),
				float32(radius), 2, withAlpha(rippleColor, (1-p)*0.8), true)
		}
	}
}

// drawParticles 绘制碰撞体（colliders=true）或其余粒子
func (s *SpaceScene) drawParticles(screen *ebiten.Image, particles []engine.RenderState, overlay, colliders bool) {
	for _, p := range particles {
		if !p.Visible || p.IsCollider != colliders {
			continue
		}
		radius := p.Size * p.Scale / 2
		cx, cy := float32(p.X), float32(p.Y)

		if overlay && p.IsCollider {
			if c, ok := stateColors[p.State]; ok {
				vector.StrokeCircle(screen, cx, cy, float32(p.Size/2+3), 1, withAlpha(c, 0.6), true)
			}
		}
		if p.Opacity <= 0 || radius <= 0 {
			continue
		}

		base := particleColor(p)
		rad := p.RotationDeg * math.Pi / 180
		if p.Kind == "comet" {
			// 彗尾朝运动方向的反方向
			tail := radius * 4
			vector.StrokeLine(screen, cx, cy,
				cx-float32(math.Cos(rad)*tail), cy-float32(math.Sin(rad)*tail),
				float32(radius), withAlpha(base, p.Opacity*0.35), true)
		}
		vector.DrawFilledCircle(screen, cx, cy, float32(radius), withAlpha(base, p.Opacity), true)
		// 旋转标记
		vector.StrokeLine(screen, cx, cy,
			cx+float32(math.Cos(rad)*radius), cy+float32(math.Sin(rad)*radius),
			1, withAlpha(backgroundColor, p.Opacity*0.6), true)
	}
}

func (s *SpaceScene) drawScrollbar(screen *ebiten.Image) {
	if s.documentHeight <= s.height || s.height <= 0 {
		return
	}
	trackH := s.height - 8
	thumbH := math.Max(trackH*s.height/s.documentHeight, 16)
	thumbY := 4 + (trackH-thumbH)*s.scrollY/s.MaxScroll()
	vector.DrawFilledRect(screen, float32(s.width-8), float32(thumbY), 4, float32(thumbH), scrollbarColor, true)
}

func (s *SpaceScene) drawOverlay(screen *ebiten.Image) {
	st := s.engine.Stats()
	vp := s.engine.Viewport()
	text := fmt.Sprintf(
		"frames %d  ticks %d  scans %d\n"+
			"collisions %d  absorbed %d  respawns %d  evictions %d\n"+
			"live %d  panels %d  scroll %.0f/%.0f\n"+
			"viewport %.0fx%.0f  document %.0f  fade %.1f  paused %v\n"+
			"[O] overlay  [B] panels  [Space] pause  [=/-] panel  [ [ / ] ] fade",
		st.Frames, st.Ticks, st.Scans,
		st.Collisions, st.Absorptions, st.Respawns, st.Evictions,
		st.Live, len(s.panels), s.scrollY, s.MaxScroll(),
		vp.Width, vp.Height, vp.DocumentHeight, s.FadePower(), s.clock.Paused(),
	)
	ebitenutil.DebugPrintAt(screen, text, 8, 8)
}

func particleColor(p engine.RenderState) color.NRGBA {
	var palette []color.NRGBA
	switch p.Family {
	case components.FamilyBelt:
		palette = beltPalette
	case components.FamilyField:
		palette = fieldPalette
	default:
		palette = freePalette[p.Kind]
	}
	if len(palette) == 0 {
		return defaultFreeColor
	}
	return palette[p.Variant%len(palette)]
}

func withAlpha(c color.Color, alpha float64) color.NRGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return color.NRGBA{}
	}
	// RGBA() 返回预乘值，先还原为非预乘
	nr := uint8(r * 0xffff / a >> 8)
	ng := uint8(g * 0xffff / a >> 8)
	nb := uint8(b * 0xffff / a >> 8)
	return color.NRGBA{R: nr, G: ng, B: nb, A: uint8(utils.Clamp(alpha, 0, 1) * float64(a>>8))}
}
