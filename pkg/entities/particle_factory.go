package entities

import (
	"math"
	"math/rand"
	"time"

	"github.com/gonewx/driftfield/pkg/components"
	"github.com/gonewx/driftfield/pkg/config"
	"github.com/gonewx/driftfield/pkg/ecs"
	"github.com/gonewx/driftfield/pkg/game"
	"github.com/gonewx/driftfield/pkg/utils"
)

// ParticleFactory 创建和重生三个家族的粒子
//
// 每个粒子实体都带有 ParticleComponent、CollisionComponent 和 RenderComponent，
// 另加家族专属组件：
//   - belt:  BeltComponent
//   - field: BeltComponent + OscillationComponent
//   - free:  FreeComponent
//
// 重生直接在同一个实体上重写组件（槽位复用），不分配新实体。
type ParticleFactory struct {
	em  *ecs.EntityManager
	cfg *config.EngineConfig
	rng *rand.Rand
}

// NewParticleFactory 创建粒子工厂
func NewParticleFactory(em *ecs.EntityManager, cfg *config.EngineConfig, rng *rand.Rand) *ParticleFactory {
	return &ParticleFactory{em: em, cfg: cfg, rng: rng}
}

// drawCollider 决定粒子是否成为碰撞体
//
// 返回:
//   - isCollider: 是否为碰撞体
//   - size: 最终尺寸（碰撞体放大）
//   - speedMultiplier: 速度倍率（碰撞体减速）
func (f *ParticleFactory) drawCollider(size float64, enabled bool) (bool, float64, float64) {
	col := f.cfg.Collision
	// 尺寸 <= 0 的粒子永远不能成为碰撞体
	isCollider := enabled &&
		size > 0 &&
		size >= col.MinColliderSize &&
		f.rng.Float64() < col.ColliderRatio
	if !isCollider {
		return false, size, 1
	}
	return true, size * col.ColliderSizeMultiplier, col.ColliderSpeedMultiplier
}

func (f *ParticleFactory) variant(n int) int {
	if n <= 1 {
		return 0
	}
	return f.rng.Intn(n)
}

func (f *ParticleFactory) newEntity(p *components.ParticleComponent) (ecs.EntityID, *components.CollisionComponent) {
	id := f.em.CreateEntity()
	coll := components.NewCollisionComponent(false)
	ecs.AddComponent(f.em, id, p)
	ecs.AddComponent(f.em, id, coll)
	ecs.AddComponent(f.em, id, &components.RenderComponent{Scale: 1})
	return id, coll
}

// ---------------------------------------------------------------------------
// belt 家族
// ---------------------------------------------------------------------------

// CreateBeltParticle 创建初始的 belt 粒子
//
// 初始粒子的生成时间在 [now-spawnStagger, now] 内错开，
// 起点 X 可以在 [-size, width+size] 内任意位置，避免所有粒子同时从左边缘出发。
func (f *ParticleFactory) CreateBeltParticle(now time.Duration, vp game.Viewport) ecs.EntityID {
	p := &components.ParticleComponent{Family: components.FamilyBelt}
	belt := &components.BeltComponent{}
	id, coll := f.newEntity(p)
	ecs.AddComponent(f.em, id, belt)

	f.rollBelt(p, belt, coll, now)

	stagger := components.Millis(f.cfg.Belt.SpawnStagger)
	p.SpawnTime = now - time.Duration(utils.RandomInRange(f.rng, 0, stagger)*float64(time.Millisecond))
	p.StartX = utils.RandomInRange(f.rng, -p.Size, vp.Width+p.Size)
	return id
}

// RespawnBelt 在原实体上重生 belt 粒子，从左边缘重新进入
func (f *ParticleFactory) RespawnBelt(id ecs.EntityID, now time.Duration) bool {
	p, ok := ecs.GetComponent[*components.ParticleComponent](f.em, id)
	if !ok {
		return false
	}
	belt, ok1 := ecs.GetComponent[*components.BeltComponent](f.em, id)
	coll, ok2 := ecs.GetComponent[*components.CollisionComponent](f.em, id)
	if !ok1 || !ok2 {
		return false
	}
	f.rollBelt(p, belt, coll, now)
	p.Generation++
	return true
}

func (f *ParticleFactory) rollBelt(p *components.ParticleComponent, belt *components.BeltComponent, coll *components.CollisionComponent, now time.Duration) {
	cfg := f.cfg.Belt
	size := cfg.SizeRange.Sample(f.rng)
	speed := cfg.SpeedRange.Sample(f.rng)
	angleRad := cfg.AngleRange.Sample(f.rng) * math.Pi / 180

	isCollider, finalSize, speedMul := f.drawCollider(size, cfg.Colliders)

	// 全部从左向右运动（顺行方向），纵向漂移方向随机
	p.SpawnTime = now
	p.StartX = -finalSize
	p.StartY = 0
	p.VelocityX = speed * speedMul
	p.VelocityY = utils.RandomSign(f.rng) * speed * speedMul * math.Tan(angleRad)
	p.Size = finalSize
	p.Variant = f.variant(cfg.Variants)
	p.RotationSpeed = cfg.RotationSpeedRange.Sample(f.rng)
	p.InitialRotation = utils.RandomInRange(f.rng, 0, 360)

	belt.JourneyPosition = utils.SampleBeltPosition(f.rng, cfg.JourneyRange, cfg.JourneyMidpoint)
	coll.Reset(isCollider)
}

// ---------------------------------------------------------------------------
// field 家族
// ---------------------------------------------------------------------------

// CreateFieldParticle 创建第 index 个初始 field 粒子
//
// 初始 X 在 [-100, width+100] 上均匀分布并加 ±40% 间距的抖动；
// 年龄随机错开，起点 X 由目标位置反推，使粒子此刻正好出现在目标位置。
func (f *ParticleFactory) CreateFieldParticle(index int, now time.Duration, vp game.Viewport) ecs.EntityID {
	p := &components.ParticleComponent{Family: components.FamilyField}
	belt := &components.BeltComponent{}
	osc := &components.OscillationComponent{}
	id, coll := f.newEntity(p)
	ecs.AddComponent(f.em, id, belt)
	ecs.AddComponent(f.em, id, osc)

	f.rollField(p, belt, osc, coll, now)

	count := max(f.cfg.Field.Count, 1)
	spacing := (vp.Width + 200) / float64(count)
	baseX := -100 + float64(index)*spacing
	targetX := baseX + utils.RandomInRange(f.rng, -spacing*0.4, spacing*0.4)

	ageMs := utils.RandomInRange(f.rng, 0, components.Millis(f.cfg.Field.SpawnStagger))
	p.SpawnTime = now - time.Duration(ageMs*float64(time.Millisecond))
	p.StartX = targetX - p.VelocityX*ageMs
	return id
}

// RespawnField 在原实体上重生 field 粒子
func (f *ParticleFactory) RespawnField(id ecs.EntityID, now time.Duration) bool {
	p, ok := ecs.GetComponent[*components.ParticleComponent](f.em, id)
	if !ok {
		return false
	}
	belt, ok1 := ecs.GetComponent[*components.BeltComponent](f.em, id)
	osc, ok2 := ecs.GetComponent[*components.OscillationComponent](f.em, id)
	coll, ok3 := ecs.GetComponent[*components.CollisionComponent](f.em, id)
	if !ok1 || !ok2 || !ok3 {
		return false
	}
	f.rollField(p, belt, osc, coll, now)
	p.Generation++
	return true
}

func (f *ParticleFactory) rollField(p *components.ParticleComponent, belt *components.BeltComponent, osc *components.OscillationComponent, coll *components.CollisionComponent, now time.Duration) {
	cfg := f.cfg.Field
	size := cfg.SizeRange.Sample(f.rng)
	speed := cfg.SpeedRange.Sample(f.rng)

	isCollider, finalSize, speedMul := f.drawCollider(size, cfg.Colliders)

	p.SpawnTime = now
	p.StartX = -finalSize
	p.StartY = 0
	p.VelocityX = speed * speedMul
	p.VelocityY = 0
	p.Size = finalSize
	p.Variant = f.variant(cfg.Variants)
	p.RotationSpeed = cfg.RotationSpeedRange.Sample(f.rng)
	p.InitialRotation = utils.RandomInRange(f.rng, 0, 360)

	belt.JourneyPosition = utils.SampleBeltPosition(f.rng, cfg.JourneyRange, cfg.JourneyMidpoint)

	osc.Amplitude = cfg.OscillationAmplitude.Sample(f.rng)
	osc.PeriodMs = cfg.OscillationPeriodMs.Sample(f.rng)
	osc.Phase = utils.RandomInRange(f.rng, 0, 2*math.Pi)

	coll.Reset(isCollider)
}

// ---------------------------------------------------------------------------
// free 家族
// ---------------------------------------------------------------------------

// CreateFreeParticle 在屏幕左右边缘之一生成一个 free 粒子
//
// 参数:
//   - kind: 种类配置（comet / asteroid / satellite）
//   - now: 当前时刻
//   - vp: 当前视口
//   - scrollY: 当前滚动位置，起点 Y 在文档坐标 [scrollY-0.2h, scrollY+1.2h] 内
func (f *ParticleFactory) CreateFreeParticle(kind config.FreeKindConfig, now time.Duration, vp game.Viewport, scrollY float64) ecs.EntityID {
	p := &components.ParticleComponent{Family: components.FamilyFree}
	free := &components.FreeComponent{Kind: kind.Name}
	id, coll := f.newEntity(p)
	ecs.AddComponent(f.em, id, free)

	f.rollFree(p, coll, kind, now, vp, scrollY)
	return id
}

// RespawnFree 在原实体上重生 free 粒子
func (f *ParticleFactory) RespawnFree(id ecs.EntityID, kind config.FreeKindConfig, now time.Duration, vp game.Viewport, scrollY float64) bool {
	p, ok := ecs.GetComponent[*components.ParticleComponent](f.em, id)
	if !ok {
		return false
	}
	coll, ok := ecs.GetComponent[*components.CollisionComponent](f.em, id)
	if !ok {
		return false
	}
	f.rollFree(p, coll, kind, now, vp, scrollY)
	p.Generation++
	return true
}

func (f *ParticleFactory) rollFree(p *components.ParticleComponent, coll *components.CollisionComponent, kind config.FreeKindConfig, now time.Duration, vp game.Viewport, scrollY float64) {
	size := kind.SizeRange.Sample(f.rng)
	speed := kind.SpeedRange.Sample(f.rng)
	angleRad := kind.AngleRange.Sample(f.rng) * math.Pi / 180

	isCollider, finalSize, speedMul := f.drawCollider(size, kind.Colliders)
	speed *= speedMul

	fromLeft := f.rng.Float64() > 0.5
	p.SpawnTime = now
	if fromLeft {
		p.StartX = -finalSize
		p.VelocityX = speed
	} else {
		p.StartX = vp.Width + finalSize
		p.VelocityX = -speed
	}
	p.StartY = scrollY + utils.RandomInRange(f.rng, -vp.Height*0.2, vp.Height*1.2)
	p.VelocityY = utils.RandomSign(f.rng) * speed * math.Tan(angleRad)
	p.Size = finalSize
	p.Variant = f.variant(kind.Variants)

	// 朝向与速度方向一致
	p.InitialRotation = math.Atan2(p.VelocityY, p.VelocityX) * 180 / math.Pi
	p.RotationSpeed = 0

	coll.Reset(isCollider)
}
