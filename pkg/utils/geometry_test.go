package utils

import (
	"math"
	"math/rand"
	"testing"
)

func TestIntersects_Scenario(t *testing.T) {
	panel := BoundsFromEdges(90, 90, 150, 150)
	radius := 20.0 / 2

	if !Intersects(Point{X: 100, Y: 100}, radius, panel) {
		t.Error("circle centered inside the panel should intersect")
	}
	if got := ClosestPoint(Point{X: 100, Y: 100}, panel); got != (Point{X: 100, Y: 100}) {
		t.Errorf("closest point: got %+v, want (100,100)", got)
	}
	if Intersects(Point{X: 300, Y: 300}, radius, panel) {
		t.Error("circle far away from the panel should not intersect")
	}
}

func TestIntersects_EdgeCases(t *testing.T) {
	panel := NewBounds(0, 0, 100, 50)

	tests := []struct {
		name   string
		center Point
		radius float64
		want   bool
	}{
		{"touching left edge", Point{X: -10, Y: 25}, 10, true},
		{"just outside left edge", Point{X: -10.01, Y: 25}, 10, false},
		{"corner diagonal inside radius", Point{X: 103, Y: 54}, 5, true},
		{"corner diagonal outside radius", Point{X: 104, Y: 54}, 5, false},
		{"zero radius on border", Point{X: 100, Y: 50}, 0, true},
		{"zero radius outside", Point{X: 101, Y: 50}, 0, false},
		{"negative radius", Point{X: 50, Y: 25}, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.center, tt.radius, panel); got != tt.want {
				t.Errorf("Intersects(%+v, %v) = %v, want %v", tt.center, tt.radius, got, tt.want)
			}
		})
	}
}

// 圆完全在矩形内部时一定相交；最近点距离大于半径时一定不相交
func TestIntersects_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		b := NewBounds(RandomInRange(rng, -500, 500), RandomInRange(rng, -500, 500),
			RandomInRange(rng, 10, 400), RandomInRange(rng, 10, 400))

		// fully inside
		r := RandomInRange(rng, 0, 5)
		inside := Point{
			X: RandomInRange(rng, b.Left+r, b.Right-r),
			Y: RandomInRange(rng, b.Top+r, b.Bottom-r),
		}
		if !Intersects(inside, r, b) {
			t.Fatalf("circle %+v r=%v inside %+v should intersect", inside, r, b)
		}

		// closest point further than radius
		outside := Point{X: b.Right + r + 1 + rng.Float64()*100, Y: inside.Y}
		if Intersects(outside, r, b) {
			t.Fatalf("circle %+v r=%v outside %+v should not intersect", outside, r, b)
		}
	}
}

func TestToLocal_CollisionPointRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 2000; i++ {
		b := NewBounds(RandomInRange(rng, -1000, 1000), RandomInRange(rng, -1000, 1000),
			RandomInRange(rng, 0, 500), RandomInRange(rng, 0, 500))
		c := Point{X: RandomInRange(rng, -2000, 2000), Y: RandomInRange(rng, -2000, 2000)}

		local := ToLocal(CollisionPoint(c, b), b)
		if local.X < 0 || local.X > b.Width || local.Y < 0 || local.Y > b.Height {
			t.Fatalf("local point %+v outside [0,%v]x[0,%v]", local, b.Width, b.Height)
		}
	}
}

func TestToLocal_EdgeRounding(t *testing.T) {
	// 0.1+0.2 = 0.30000000000000004，减去 0.1 后大于 0.2
	b := NewBounds(0.1, 0.1, 0.2, 0.2)
	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"右下角", Point{X: 5, Y: 5}, Point{X: 0.2, Y: 0.2}},
		{"左上角", Point{X: -5, Y: -5}, Point{X: 0, Y: 0}},
		{"内部", Point{X: 0.15, Y: 0.2}, Point{X: 0.05, Y: 0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToLocal(CollisionPoint(tt.p, b), b)
			if math.Abs(got.X-tt.want.X) > 1e-12 || math.Abs(got.Y-tt.want.Y) > 1e-12 {
				t.Errorf("ToLocal(CollisionPoint(%+v)) = %+v, want %+v", tt.p, got, tt.want)
			}
			if got.X > b.Width || got.Y > b.Height {
				t.Errorf("local point %+v outside [0,%v]x[0,%v]", got, b.Width, b.Height)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		w, h float64
		want bool
	}{
		{"inside", NewBounds(10, 10, 50, 50), 800, 600, true},
		{"partially above", NewBounds(10, -40, 50, 50), 800, 600, true},
		{"fully above", NewBounds(10, -100, 50, 50), 800, 600, false},
		{"fully right", NewBounds(900, 10, 50, 50), 800, 600, false},
		{"fully below", NewBounds(10, 700, 50, 50), 800, 600, false},
		{"zero viewport", NewBounds(0, 0, 50, 50), 0, 0, false},
		{"negative viewport", NewBounds(0, 0, 50, 50), -10, 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.b, tt.w, tt.h); got != tt.want {
				t.Errorf("IsVisible(%+v, %v, %v) = %v, want %v", tt.b, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestBoundsFromEdges_Normalizes(t *testing.T) {
	b := BoundsFromEdges(150, 150, 90, 90)
	if b.Left != 90 || b.Top != 90 || b.Right != 150 || b.Bottom != 150 {
		t.Errorf("edges not normalized: %+v", b)
	}
	if b.Width != 60 || b.Height != 60 {
		t.Errorf("size: got %vx%v, want 60x60", b.Width, b.Height)
	}

	if n := NewBounds(0, 0, -5, -5); n.Width != 0 || n.Height != 0 || n.Right != 0 {
		t.Errorf("negative size should collapse to zero: %+v", n)
	}
}
