package math3d

// Vec4 is a homogeneous point or direction.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4FromV3 creates a Vec4 from v with the given W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// PerspectiveDivide returns xyz/w. A zero W leaves xyz undivided.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}
