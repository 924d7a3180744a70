package components

import (
	"time"

	"github.com/gonewx/driftfield/pkg/utils"
)

// CollisionState 碰撞状态机的状态
type CollisionState uint8

const (
	// CollisionNone 非碰撞体，穿过面板不做检测
	CollisionNone CollisionState = iota
	// CollisionActive 可被碰撞检测命中
	CollisionActive
	// CollisionColliding 正在播放减速/收缩动画
	CollisionColliding
	// CollisionAbsorbed 吸收动画已完成，等待重生
	CollisionAbsorbed
)

// String 返回状态名称
func (s CollisionState) String() string {
	switch s {
	case CollisionNone:
		return "none"
	case CollisionActive:
		return "active"
	case CollisionColliding:
		return "colliding"
	case CollisionAbsorbed:
		return "absorbed"
	}
	return "unknown"
}

// CollisionComponent 粒子的碰撞子状态
//
// 不变式：
//   - Anchor 非 nil 当且仅当 State == CollisionColliding
//   - IsCollider == false 时 State 恒为 CollisionNone
//
// 字段只能通过下面的方法迁移，保证 None 永远无法进入 Colliding。
type CollisionComponent struct {
	IsCollider bool
	State      CollisionState
	StartTime  time.Duration // 进入 Colliding 的时刻
	Anchor     *utils.Point  // 碰撞时的位置（动画锚点）
}

// NewCollisionComponent 创建碰撞子状态
func NewCollisionComponent(isCollider bool) *CollisionComponent {
	c := &CollisionComponent{}
	c.Reset(isCollider)
	return c
}

// Reset 重生时重置碰撞子状态
func (c *CollisionComponent) Reset(isCollider bool) {
	c.IsCollider = isCollider
	if isCollider {
		c.State = CollisionActive
	} else {
		c.State = CollisionNone
	}
	c.StartTime = 0
	c.Anchor = nil
}

// CanCollide 是否参与碰撞检测
func (c *CollisionComponent) CanCollide() bool {
	return c.IsCollider && c.State == CollisionActive
}

// Begin 进入 Colliding 状态，记录锚点；仅允许从 Active 迁移
func (c *CollisionComponent) Begin(x, y float64, now time.Duration) bool {
	if !c.CanCollide() {
		return false
	}
	c.State = CollisionColliding
	c.StartTime = now
	c.Anchor = &utils.Point{X: x, Y: y}
	return true
}

// Absorb 进入 Absorbed 状态；仅允许从 Colliding 迁移
func (c *CollisionComponent) Absorb() bool {
	if c.State != CollisionColliding {
		return false
	}
	c.State = CollisionAbsorbed
	c.Anchor = nil
	return true
}
