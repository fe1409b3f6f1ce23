package geometry

import "math"

// Point represents a 2D point in image-pixel space
type Point struct {
	X, Y int
}

// NewPoint creates a new point
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference between two points
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance returns the Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Clamp constrains the point to [0, width-1] x [0, height-1]
func (p Point) Clamp(width, height int) Point {
	x := p.X
	y := p.Y
	if x < 0 {
		x = 0
	}
	if x > width-1 {
		x = width - 1
	}
	if y < 0 {
		y = 0
	}
	if y > height-1 {
		y = height - 1
	}
	return Point{X: x, Y: y}
}

// Vec2 represents a 2D point or vector in screen space
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new 2D vector
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the difference between two vectors
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul multiplies the vector by a scalar
func (v Vec2) Mul(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

// Length returns the magnitude of the vector
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance between two points
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// Round converts the vector to an integer point by rounding half away from zero
func (v Vec2) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// ToVec2 converts an integer point to a float vector
func (p Point) ToVec2() Vec2 {
	return Vec2{X: float64(p.X), Y: float64(p.Y)}
}
