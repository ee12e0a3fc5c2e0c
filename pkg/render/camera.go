package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// maxPitch keeps the camera away from straight up or down, where yaw
// becomes meaningless.
const maxPitch = math.Pi/2 - 0.01

// Camera is a perspective camera oriented by yaw and pitch.
// Yaw 0 and pitch 0 look down -Z. Mutate it through its methods so the
// cached matrices stay in sync.
type Camera struct {
	Position math3d.Vec3

	Pitch float64 // around X, positive looks up
	Yaw   float64 // around Y, positive turns left

	FOV         float64 // vertical field of view in radians
	AspectRatio float64 // width / height
	Near        float64
	Far         float64

	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera at (0, 0, 5) looking at the origin with a
// 60° field of view.
func NewCamera() *Camera {
	return &Camera{
		Position:    math3d.V3(0, 0, 5),
		FOV:         math.Pi / 3,
		AspectRatio: 1,
		Near:        0.1,
		Far:         1000,
		viewDirty:   true,
		projDirty:   true,
	}
}

// NewCameraLookAt creates a camera at position aimed at target.
func NewCameraLookAt(position, target math3d.Vec3, fov, aspect, near, far float64) *Camera {
	c := &Camera{
		Position:    position,
		FOV:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		viewDirty:   true,
		projDirty:   true,
	}
	c.LookAt(target)
	return c
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch and yaw in radians. Pitch is clamped.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = clampPitch(pitch)
	c.Yaw = yaw
	c.viewDirty = true
}

// SetFOV sets the vertical field of view in radians.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect <= 0 || aspect == c.AspectRatio {
		return
	}
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the horizontal right vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the camera up vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns P * V.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Pose returns the camera-to-world placement as a mesh transform, used to
// draw a camera gizmo where the camera sits.
func (c *Camera) Pose() models.Transform {
	return models.Transform{
		Translation: c.Position,
		Rotation:    math3d.V3(c.Pitch, c.Yaw, 0),
		Scale:       1,
	}
}

// Frustum returns the current view frustum in world space.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// MoveForward moves along the view direction (backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.MovePosition(c.Forward().Scale(distance))
}

// MoveRight strafes right (left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.MovePosition(c.Right().Scale(distance))
}

// MoveUp moves along world up (down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.MovePosition(math3d.Up().Scale(distance))
}

// MovePosition translates the camera by delta in world space.
func (c *Camera) MovePosition(delta math3d.Vec3) {
	c.Position = c.Position.Add(delta)
	c.viewDirty = true
}

// AddYawPitch turns the camera by the given angles in radians.
func (c *Camera) AddYawPitch(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
	c.viewDirty = true
}

// LookAt aims the camera at target. A target equal to the position leaves
// the orientation unchanged.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.IsZero() {
		return
	}
	c.Pitch = clampPitch(math.Asin(dir.Y))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.viewDirty = true
}

// Target returns the point one unit ahead of the camera.
func (c *Camera) Target() math3d.Vec3 {
	return c.Position.Add(c.Forward())
}

func clampPitch(p float64) float64 {
	return min(max(p, -maxPitch), maxPitch)
}
