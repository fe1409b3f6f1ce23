package geometry

import (
	"math"
	"testing"
)

func TestPointDistance(t *testing.T) {
	p1 := NewPoint(0, 0)
	p2 := NewPoint(3, 4)

	if d := p1.Distance(p2); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Distance failed: expected 5.0, got %v", d)
	}
	if d := p2.Distance(p1); math.Abs(d-5.0) > 1e-10 {
		t.Errorf("Distance is not symmetric: got %v", d)
	}
}

func TestPointClamp(t *testing.T) {
	tests := []struct {
		name     string
		point    Point
		expected Point
	}{
		{"inside", NewPoint(10, 20), NewPoint(10, 20)},
		{"negative", NewPoint(-5, -1), NewPoint(0, 0)},
		{"beyond max", NewPoint(100, 200), NewPoint(99, 49)},
		{"on edge", NewPoint(99, 49), NewPoint(99, 49)},
	}

	for _, tt := range tests {
		if got := tt.point.Clamp(100, 50); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
	}
}

func TestVec2Round(t *testing.T) {
	tests := []struct {
		v        Vec2
		expected Point
	}{
		{NewVec2(1.4, 2.6), NewPoint(1, 3)},
		{NewVec2(-0.5, 0.5), NewPoint(-1, 1)},
		{NewVec2(10.0, 20.0), NewPoint(10, 20)},
	}

	for _, tt := range tests {
		if got := tt.v.Round(); got != tt.expected {
			t.Errorf("Round(%v): expected %v, got %v", tt.v, tt.expected, got)
		}
	}
}

func TestVec2Arithmetic(t *testing.T) {
	a := NewVec2(1, 2)
	b := NewVec2(3, 5)

	if got := a.Add(b); got != NewVec2(4, 7) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != NewVec2(2, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Mul(2); got != NewVec2(2, 4) {
		t.Errorf("Mul failed: got %v", got)
	}
	if d := a.Distance(b); math.Abs(d-math.Sqrt(13)) > 1e-10 {
		t.Errorf("Distance failed: got %v", d)
	}
}
