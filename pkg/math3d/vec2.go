package math3d

import "math"

// Vec2 represents a 2D vector. Texture coordinates use X as U and Y as V.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Wrap returns the fractional part of each component, mapping any
// coordinate into [0, 1). Used for repeat texture addressing.
func (a Vec2) Wrap() Vec2 {
	return Vec2{a.X - math.Floor(a.X), a.Y - math.Floor(a.Y)}
}

// Barycentric2 blends three 2D vectors with weights w0, w1, w2.
func Barycentric2(a, b, c Vec2, w0, w1, w2 float64) Vec2 {
	return Vec2{
		a.X*w0 + b.X*w1 + c.X*w2,
		a.Y*w0 + b.Y*w1 + c.Y*w2,
	}
}
