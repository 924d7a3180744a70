package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/driftfield/pkg/utils"
)

// ErrInvalidRange 区间配置非法（Min > Max 或超出允许范围）
var ErrInvalidRange = errors.New("invalid range")

// EngineConfig 粒子/碰撞引擎配置
//
// 配置文件位置: data/engine.yaml（默认配置同时嵌入到二进制中）
//
// 所有字段都有默认值，YAML 中只需要写出想覆盖的字段。
// 速度单位为 像素/毫秒，旋转速度单位为 度/秒，时长写作 Go duration 字符串（如 "800ms"）。
type EngineConfig struct {
	Collision CollisionConfig `yaml:"collision"`
	Parallax  ParallaxConfig  `yaml:"parallax"`
	Belt      BeltConfig      `yaml:"belt"`
	Field     FieldConfig     `yaml:"field"`
	Free      FreeConfig      `yaml:"free"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Signals   SignalConfig    `yaml:"signals"`
}

// CollisionConfig 碰撞检测与吸收动画配置
type CollisionConfig struct {
	// ColliderRatio 满足尺寸要求的粒子成为碰撞体的概率 (0-1)
	ColliderRatio float64 `yaml:"colliderRatio"`

	// ColliderZIndex 碰撞体的渲染层级，面板层级为 10，普通粒子为 0
	ColliderZIndex int `yaml:"colliderZIndex"`

	// CheckIntervalFrames 每 N 个 tick 执行一次完整碰撞扫描
	CheckIntervalFrames int `yaml:"checkIntervalFrames"`

	// AbsorptionDuration 吸收动画总时长
	AbsorptionDuration time.Duration `yaml:"absorptionDuration"`

	// SlowdownGrace 碰撞后先减速、再开始收缩的宽限期
	SlowdownGrace time.Duration `yaml:"slowdownGrace"`

	// RippleDuration 面板涟漪效果时长（表现层使用）
	RippleDuration time.Duration `yaml:"rippleDuration"`

	// MinColliderSize 成为碰撞体的最小尺寸（像素）
	MinColliderSize float64 `yaml:"minColliderSize"`

	// BoundsInvalidationDelay 滚动停止后多久让面板边界缓存失效
	BoundsInvalidationDelay time.Duration `yaml:"boundsInvalidationDelay"`

	// ColliderSpeedMultiplier 碰撞体速度倍率（更慢 = 更容易看清）
	ColliderSpeedMultiplier float64 `yaml:"colliderSpeedMultiplier"`

	// ColliderSizeMultiplier 碰撞体尺寸倍率（更大 = 看起来更近）
	ColliderSizeMultiplier float64 `yaml:"colliderSizeMultiplier"`

	// AbsorbScaleThreshold 收缩比例低于该值时视为完全消失
	AbsorbScaleThreshold float64 `yaml:"absorbScaleThreshold"`

	// DecelerationFactor 碰撞后残余速度系数
	DecelerationFactor float64 `yaml:"decelerationFactor"`
}

// ParallaxConfig 视差与可见性配置
type ParallaxConfig struct {
	SpaceMultiplier  float64 `yaml:"spaceMultiplier"`
	OpacityThreshold float64 `yaml:"opacityThreshold"`
	CenterRatio      float64 `yaml:"centerRatio"`
	MaxDistanceRatio float64 `yaml:"maxDistanceRatio"`
	EdgeFadeRatio    float64 `yaml:"edgeFadeRatio"`
}

// BeltConfig 带状家族（小行星带）配置
type BeltConfig struct {
	Enabled            bool          `yaml:"enabled"`
	Count              int           `yaml:"count"`
	JourneyRange       utils.Range   `yaml:"journeyRange"`
	JourneyMidpoint    float64       `yaml:"journeyMidpoint"`
	SizeRange          utils.Range   `yaml:"sizeRange"`
	SpeedRange         utils.Range   `yaml:"speedRange"`
	RotationSpeedRange utils.Range   `yaml:"rotationSpeedRange"`
	AngleRange         utils.Range   `yaml:"angleRange"`
	ParallaxSpeed      float64       `yaml:"parallaxSpeed"`
	MaxOpacity         float64       `yaml:"maxOpacity"`
	SpawnStagger       time.Duration `yaml:"spawnStagger"`
	Variants           int           `yaml:"variants"`
	Colliders          bool          `yaml:"colliders"`
}

// FieldConfig 振荡家族（外层带天体）配置
type FieldConfig struct {
	Enabled              bool          `yaml:"enabled"`
	Count                int           `yaml:"count"`
	JourneyRange         utils.Range   `yaml:"journeyRange"`
	JourneyMidpoint      float64       `yaml:"journeyMidpoint"`
	SizeRange            utils.Range   `yaml:"sizeRange"`
	SpeedRange           utils.Range   `yaml:"speedRange"`
	RotationSpeedRange   utils.Range   `yaml:"rotationSpeedRange"`
	ParallaxSpeed        float64       `yaml:"parallaxSpeed"`
	OscillationAmplitude utils.Range   `yaml:"oscillationAmplitude"`
	OscillationPeriodMs  utils.Range   `yaml:"oscillationPeriodMs"`
	MaxOpacity           float64       `yaml:"maxOpacity"`
	FadePower            float64       `yaml:"fadePower"`
	SpawnStagger         time.Duration `yaml:"spawnStagger"`
	Variants             int           `yaml:"variants"`
	Colliders            bool          `yaml:"colliders"`
}

// FreeConfig 自由家族（彗星、小行星、卫星）配置
type FreeConfig struct {
	Enabled     bool             `yaml:"enabled"`
	MaxLifetime time.Duration    `yaml:"maxLifetime"`
	MaxOpacity  float64          `yaml:"maxOpacity"`
	Kinds       []FreeKindConfig `yaml:"kinds"`
}

// FreeKindConfig 单个自由种类的生成参数
type FreeKindConfig struct {
	Name            string        `yaml:"name"`
	SpawnIntervalMs utils.Range   `yaml:"spawnIntervalMs"`
	InitialDelay    time.Duration `yaml:"initialDelay"`
	SpeedRange      utils.Range   `yaml:"speedRange"`
	SizeRange       utils.Range   `yaml:"sizeRange"`
	AngleRange      utils.Range   `yaml:"angleRange"`
	MaxActive       int           `yaml:"maxActive"`
	Variants        int           `yaml:"variants"`
	Colliders       bool          `yaml:"colliders"`
}

// SchedulerConfig 帧调度配置
type SchedulerConfig struct {
	// ThrottleFrames 每 N 个原生动画帧执行一次更新（2 ≈ 原生刷新率的一半）
	ThrottleFrames int `yaml:"throttleFrames"`
	// SweepInterval 批量清理过期粒子的间隔
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// SignalConfig 滚动/尺寸信号配置
type SignalConfig struct {
	ResizeDebounce time.Duration `yaml:"resizeDebounce"`
}

// DefaultEngineConfig 返回默认配置
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Collision: CollisionConfig{
			ColliderRatio:           0.1,
			ColliderZIndex:          15,
			CheckIntervalFrames:     3,
			AbsorptionDuration:      800 * time.Millisecond,
			SlowdownGrace:           200 * time.Millisecond,
			RippleDuration:          800 * time.Millisecond,
			MinColliderSize:         18,
			BoundsInvalidationDelay: 150 * time.Millisecond,
			ColliderSpeedMultiplier: 0.4,
			ColliderSizeMultiplier:  1.5,
			AbsorbScaleThreshold:    0.05,
			DecelerationFactor:      0.3,
		},
		Parallax: ParallaxConfig{
			SpaceMultiplier:  2,
			OpacityThreshold: 0.01,
			CenterRatio:      0.5,
			MaxDistanceRatio: 0.8,
			EdgeFadeRatio:    0.15,
		},
		Belt: BeltConfig{
			Enabled:            true,
			Count:              40,
			JourneyRange:       utils.Range{0.14, 0.17},
			JourneyMidpoint:    0.155,
			SizeRange:          utils.Range{12, 28},
			SpeedRange:         utils.Range{0.02, 0.06},
			RotationSpeedRange: utils.Range{10, 45},
			AngleRange:         utils.Range{2, 8},
			ParallaxSpeed:      0.35,
			MaxOpacity:         0.7,
			SpawnStagger:       30 * time.Second,
			Variants:           6,
			Colliders:          true,
		},
		Field: FieldConfig{
			Enabled:              true,
			Count:                25,
			JourneyRange:         utils.Range{0.88, 0.96},
			JourneyMidpoint:      0.92,
			SizeRange:            utils.Range{10, 22},
			SpeedRange:           utils.Range{0.008, 0.025},
			RotationSpeedRange:   utils.Range{5, 20},
			ParallaxSpeed:        0.45,
			OscillationAmplitude: utils.Range{15, 40},
			OscillationPeriodMs:  utils.Range{4000, 10000},
			MaxOpacity:           0.6,
			FadePower:            3,
			SpawnStagger:         30 * time.Second,
			Variants:             6,
			Colliders:            false,
		},
		Free: FreeConfig{
			Enabled:     true,
			MaxLifetime: 60 * time.Second,
			MaxOpacity:  0.85,
			Kinds: []FreeKindConfig{
				{
					Name:            "comet",
					SpawnIntervalMs: utils.Range{8000, 15000},
					InitialDelay:    3 * time.Second,
					SpeedRange:      utils.Range{0.15, 0.25},
					SizeRange:       utils.Range{50, 90},
					AngleRange:      utils.Range{20, 70},
					MaxActive:       2,
					Variants:        1,
				},
				{
					Name:            "asteroid",
					SpawnIntervalMs: utils.Range{5000, 10000},
					InitialDelay:    1 * time.Second,
					SpeedRange:      utils.Range{0.08, 0.15},
					SizeRange:       utils.Range{18, 35},
					AngleRange:      utils.Range{15, 75},
					MaxActive:       5,
					Variants:        3,
					Colliders:       true,
				},
				{
					Name:            "satellite",
					SpawnIntervalMs: utils.Range{15000, 25000},
					InitialDelay:    5 * time.Second,
					SpeedRange:      utils.Range{0.03, 0.06},
					SizeRange:       utils.Range{30, 50},
					AngleRange:      utils.Range{0, 20},
					MaxActive:       2,
					Variants:        1,
				},
			},
		},
		Scheduler: SchedulerConfig{
			ThrottleFrames: 2,
			SweepInterval:  500 * time.Millisecond,
		},
		Signals: SignalConfig{
			ResizeDebounce: 100 * time.Millisecond,
		},
	}
}

// LoadEngineConfig 加载引擎配置
//
// 参数:
//   - path: 配置文件路径（如 "data/engine.yaml"）
//
// 返回:
//   - *EngineConfig: 默认值叠加文件内容后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadEngineConfig(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	return ParseEngineConfig(data)
}

// ParseEngineConfig 解析 YAML 内容，未出现的字段保留默认值
func ParseEngineConfig(data []byte) (*EngineConfig, error) {
	config := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return config, nil
}

// Validate 验证配置合法性
func (c *EngineConfig) Validate() error {
	col := c.Collision
	if col.ColliderRatio < 0 || col.ColliderRatio > 1 {
		return fmt.Errorf("collision.colliderRatio %v: %w", col.ColliderRatio, ErrInvalidRange)
	}
	if col.CheckIntervalFrames < 1 {
		return fmt.Errorf("collision.checkIntervalFrames must be >= 1, got %d", col.CheckIntervalFrames)
	}
	if col.AbsorptionDuration <= col.SlowdownGrace {
		return fmt.Errorf("collision.absorptionDuration (%v) must exceed slowdownGrace (%v)",
			col.AbsorptionDuration, col.SlowdownGrace)
	}
	if col.SlowdownGrace < 0 || col.BoundsInvalidationDelay < 0 || col.RippleDuration < 0 {
		return fmt.Errorf("collision durations must not be negative")
	}
	if col.ColliderSizeMultiplier <= 0 || col.ColliderSpeedMultiplier <= 0 {
		return fmt.Errorf("collision multipliers must be positive")
	}

	if c.Parallax.MaxDistanceRatio <= 0 {
		return fmt.Errorf("parallax.maxDistanceRatio must be positive, got %v", c.Parallax.MaxDistanceRatio)
	}
	if c.Parallax.EdgeFadeRatio <= 0 || c.Parallax.EdgeFadeRatio >= 0.5 {
		return fmt.Errorf("parallax.edgeFadeRatio %v: %w", c.Parallax.EdgeFadeRatio, ErrInvalidRange)
	}

	if err := validateBand("belt", c.Belt.Count, c.Belt.JourneyRange, c.Belt.JourneyMidpoint,
		c.Belt.SizeRange, c.Belt.SpeedRange, c.Belt.RotationSpeedRange, c.Belt.AngleRange); err != nil {
		return err
	}
	if err := validateBand("field", c.Field.Count, c.Field.JourneyRange, c.Field.JourneyMidpoint,
		c.Field.SizeRange, c.Field.SpeedRange, c.Field.RotationSpeedRange,
		c.Field.OscillationAmplitude, c.Field.OscillationPeriodMs); err != nil {
		return err
	}
	if c.Field.OscillationPeriodMs.Min() <= 0 {
		return fmt.Errorf("field.oscillationPeriodMs must be positive: %w", ErrInvalidRange)
	}
	if c.Field.FadePower < 0 {
		return fmt.Errorf("field.fadePower must not be negative, got %v", c.Field.FadePower)
	}

	if c.Free.MaxLifetime <= 0 {
		return fmt.Errorf("free.maxLifetime must be positive")
	}
	seen := make(map[string]bool, len(c.Free.Kinds))
	for _, kind := range c.Free.Kinds {
		if kind.Name == "" {
			return fmt.Errorf("free.kinds: name is required")
		}
		if seen[kind.Name] {
			return fmt.Errorf("free.kinds: duplicate kind %q", kind.Name)
		}
		seen[kind.Name] = true
		for name, r := range map[string]utils.Range{
			"spawnIntervalMs": kind.SpawnIntervalMs,
			"speedRange":      kind.SpeedRange,
			"sizeRange":       kind.SizeRange,
			"angleRange":      kind.AngleRange,
		} {
			if !r.Valid() {
				return fmt.Errorf("free.kinds[%s].%s %v: %w", kind.Name, name, r, ErrInvalidRange)
			}
		}
		if kind.SpawnIntervalMs.Min() <= 0 {
			return fmt.Errorf("free.kinds[%s].spawnIntervalMs must be positive: %w", kind.Name, ErrInvalidRange)
		}
		if kind.MaxActive < 0 {
			return fmt.Errorf("free.kinds[%s].maxActive must not be negative", kind.Name)
		}
	}

	if c.Scheduler.ThrottleFrames < 1 {
		return fmt.Errorf("scheduler.throttleFrames must be >= 1, got %d", c.Scheduler.ThrottleFrames)
	}
	if c.Scheduler.SweepInterval <= 0 {
		return fmt.Errorf("scheduler.sweepInterval must be positive")
	}
	if c.Signals.ResizeDebounce < 0 {
		return fmt.Errorf("signals.resizeDebounce must not be negative")
	}

	return nil
}

func validateBand(name string, count int, journey utils.Range, midpoint float64, ranges ...utils.Range) error {
	if count < 0 {
		return fmt.Errorf("%s.count must not be negative, got %d", name, count)
	}
	if !journey.Valid() || journey.Min() < 0 || journey.Max() > 1 {
		return fmt.Errorf("%s.journeyRange %v: %w", name, journey, ErrInvalidRange)
	}
	if !journey.Contains(midpoint) {
		return fmt.Errorf("%s.journeyMidpoint %v outside %v: %w", name, midpoint, journey, ErrInvalidRange)
	}
	for _, r := range ranges {
		if !r.Valid() {
			return fmt.Errorf("%s: range %v: %w", name, r, ErrInvalidRange)
		}
	}
	return nil
}
