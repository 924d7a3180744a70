package scenes

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/gonewx/driftfield/pkg/utils"
)

const (
	starfieldSeed     = 7
	starfieldCount    = 160
	starfieldParallax = 0.15 // 背景相对滚动的视差
	twinkleSpeed      = 0.6  // 噪声时间轴每秒前进量

	perlinAlpha = 2.0
	perlinBeta  = 2.0
	perlinN     = 3
)

var starColor = color.NRGBA{R: 220, G: 228, B: 255, A: 255}

type star struct {
	x, y   float64 // 比例坐标 [0, 1)
	radius float64
}

// Starfield 背景星空，亮度由 Perlin 噪声调制
type Starfield struct {
	stars []star
	noise *perlin.Perlin
}

// NewStarfield 用固定种子生成 count 颗星
func NewStarfield(count int, seed int64) *Starfield {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]star, count)
	for i := range stars {
		stars[i] = star{
			x:      rng.Float64(),
			y:      rng.Float64(),
			radius: 0.5 + rng.Float64()*1.2,
		}
	}
	return &Starfield{
		stars: stars,
		noise: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, seed),
	}
}

// Len 星星数量
func (f *Starfield) Len() int {
	return len(f.stars)
}

// Brightness 第 i 颗星在时刻 now 的亮度，范围 [0.2, 1]
func (f *Starfield) Brightness(i int, now time.Duration) float64 {
	n := f.noise.Noise2D(float64(i)*1.37, now.Seconds()*twinkleSpeed)
	return utils.Clamp(0.6+n*0.8, 0.2, 1)
}

// Position 第 i 颗星在视口中的位置，纵向随滚动视差循环
func (f *Starfield) Position(i int, width, height, scrollY float64) (float64, float64) {
	s := f.stars[i]
	if height <= 0 {
		return s.x * width, 0
	}
	y := s.y*height - scrollY*starfieldParallax
	y = math.Mod(y, height)
	if y < 0 {
		y += height
	}
	return s.x * width, y
}

// Draw 绘制星空
func (f *Starfield) Draw(screen *ebiten.Image, width, height, scrollY float64, now time.Duration) {
	for i, s := range f.stars {
		x, y := f.Position(i, width, height, scrollY)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(s.radius),
			withAlpha(starColor, f.Brightness(i, now)*0.7), false)
	}
}
