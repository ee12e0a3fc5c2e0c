package render

import (
	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// ScreenPoint is a projected vertex: pixel coordinates with Y growing
// downward, and NDC depth where smaller is closer.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// ModelViewProjection returns P * V * M for mesh seen through cam.
func ModelViewProjection(cam *Camera, mesh *models.Mesh) math3d.Mat4 {
	return cam.ViewProjectionMatrix().Mul(mesh.ModelMatrix())
}

// Project maps a model-space vertex to the screen of a width×height
// target. There is no clipping: vertices behind the camera still project,
// and a zero W skips the perspective divide.
func Project(mvp math3d.Mat4, v math3d.Vec3, width, height int) ScreenPoint {
	ndc := mvp.MulVec4(math3d.V4FromV3(v, 1)).PerspectiveDivide()
	return NDCToScreen(ndc, width, height)
}

// NDCToScreen converts normalized device coordinates to pixel space.
func NDCToScreen(ndc math3d.Vec3, width, height int) ScreenPoint {
	return ScreenPoint{
		X:     (ndc.X + 1) / 2 * float64(width),
		Y:     (1 - ndc.Y) / 2 * float64(height),
		Depth: ndc.Z,
	}
}
