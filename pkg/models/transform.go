package models

import "github.com/taigrr/meshview/pkg/math3d"

// Transform places a mesh in the world. Rotation holds Euler angles in
// radians applied X first, then Y, then Z. Scale is uniform.
type Transform struct {
	Translation math3d.Vec3
	Rotation    math3d.Vec3
	Scale       float64
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: 1}
}

// Matrix returns T * Rz * Ry * Rx * S.
func (t Transform) Matrix() math3d.Mat4 {
	return math3d.Translate(t.Translation).
		Mul(math3d.EulerZYX(t.Rotation)).
		Mul(math3d.ScaleUniform(t.Scale))
}

// Reset restores the identity transform.
func (t *Transform) Reset() {
	*t = NewTransform()
}

// Translate moves the transform by d.
func (t *Transform) Translate(d math3d.Vec3) {
	t.Translation = t.Translation.Add(d)
}

// Rotate adds d to the Euler angles.
func (t *Transform) Rotate(d math3d.Vec3) {
	t.Rotation = t.Rotation.Add(d)
}

// ScaleBy adds d to the scale, never letting it drop below minScale.
func (t *Transform) ScaleBy(d, minScale float64) {
	t.Scale = max(t.Scale+d, minScale)
}
