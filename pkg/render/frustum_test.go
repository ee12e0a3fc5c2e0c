package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// placedCube returns a cube of edge 2 moved to pos and scaled by s.
func placedCube(pos math3d.Vec3, s float64) *models.Mesh {
	cube := models.NewCube(2)
	cube.Transform.Translation = pos
	cube.Transform.Scale = s
	return cube
}

func worldBounds(m *models.Mesh) AABB {
	return MeshBounds(m).Transform(m.ModelMatrix())
}

func TestPlaneNormalizeKeepsDistances(t *testing.T) {
	tests := []struct {
		name  string
		plane Plane
		point math3d.Vec3
		want  float64
	}{
		{"z facing", Plane{Normal: math3d.V3(0, 0, 2), D: -4}, math3d.V3(7, -3, 5), 3},
		{"tilted", Plane{Normal: math3d.V3(0, 3, 4), D: 10}, math3d.V3(0, 0, 0), 2},
		{"behind", Plane{Normal: math3d.V3(-5, 0, 0), D: 0}, math3d.V3(1, 0, 0), -1},
		{"degenerate left alone", Plane{D: 3}, math3d.V3(1, 1, 1), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.plane
			p.Normalize()
			assert.InDelta(t, tc.want, p.DistanceToPoint(tc.point), 1e-9)
			if !tc.plane.Normal.IsZero() {
				assert.InDelta(t, 1.0, p.Normal.Len(), 1e-9)
			}
		})
	}
}

func TestMeshBoundsFollowTransform(t *testing.T) {
	tests := []struct {
		name     string
		mesh     func() *models.Mesh
		min, max math3d.Vec3
	}{
		{
			name: "local",
			mesh: func() *models.Mesh { return models.NewCube(2) },
			min:  math3d.V3(-1, -1, -1),
			max:  math3d.V3(1, 1, 1),
		},
		{
			name: "moved and scaled",
			mesh: func() *models.Mesh { return placedCube(math3d.V3(10, -2, 3), 3) },
			min:  math3d.V3(7, -5, 0),
			max:  math3d.V3(13, 1, 6),
		},
		{
			name: "turned 45 degrees",
			mesh: func() *models.Mesh {
				m := models.NewCube(2)
				m.Transform.Rotation.Y = math.Pi / 4
				return m
			},
			min: math3d.V3(-math.Sqrt2, -1, -math.Sqrt2),
			max: math3d.V3(math.Sqrt2, 1, math.Sqrt2),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			box := worldBounds(tc.mesh())
			for _, pair := range [][2]math3d.Vec3{{tc.min, box.Min}, {tc.max, box.Max}} {
				assert.InDelta(t, pair[0].X, pair[1].X, 1e-9)
				assert.InDelta(t, pair[0].Y, pair[1].Y, 1e-9)
				assert.InDelta(t, pair[0].Z, pair[1].Z, 1e-9)
			}
			assert.InDelta(t, (tc.min.X+tc.max.X)/2, box.Center().X, 1e-9)
		})
	}
}

func TestCameraFrustumKeepsMeshes(t *testing.T) {
	// default camera: at (0, 0, 5) looking down -Z, near 0.1, far 1000
	cam := NewCamera()
	f := cam.Frustum()

	tests := []struct {
		name    string
		mesh    *models.Mesh
		visible bool
	}{
		{"at the origin", placedCube(math3d.Vec3{}, 1), true},
		{"around the camera", placedCube(math3d.V3(0, 0, 5), 1), true},
		{"enclosing everything", placedCube(math3d.Vec3{}, 5000), true},
		{"behind", placedCube(math3d.V3(0, 0, 10), 1), false},
		{"off to the right", placedCube(math3d.V3(50, 0, 0), 1), false},
		{"above", placedCube(math3d.V3(0, 50, 0), 1), false},
		{"past the far plane", placedCube(math3d.V3(0, 0, -2000), 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.visible, f.IntersectAABB(worldBounds(tc.mesh)))
		})
	}
}

func TestCameraFrustumTurnsWithCamera(t *testing.T) {
	cam := NewCamera()
	cam.SetPosition(math3d.Vec3{})
	cam.SetRotation(0, -math.Pi/2) // facing +X
	f := cam.Frustum()

	assert.True(t, f.ContainsPoint(math3d.V3(10, 0, 0)))
	assert.False(t, f.ContainsPoint(math3d.V3(-10, 0, 0)))
	assert.False(t, f.ContainsPoint(math3d.V3(0, 0, -10)))
	assert.False(t, f.ContainsPoint(math3d.V3(0.01, 0, 0)), "closer than the near plane")

	assert.True(t, f.IntersectAABB(worldBounds(placedCube(math3d.V3(10, 0, 0), 1))))
	assert.False(t, f.IntersectAABB(worldBounds(placedCube(math3d.V3(0, 0, -10), 1))))
}

func TestCompositorCullOption(t *testing.T) {
	scene := []*models.Mesh{
		placedCube(math3d.Vec3{}, 1),
		placedCube(math3d.V3(0, 0, 10), 1),
		placedCube(math3d.V3(50, 0, 0), 1),
	}

	tests := []struct {
		cull      bool
		culled    int
		triangles int
	}{
		{false, 0, 36},
		{true, 2, 12},
	}

	for _, tc := range tests {
		name := "off"
		if tc.cull {
			name = "on"
		}
		t.Run(name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Cull = tc.cull
			stats, err := NewCompositor(opts).Render(NewCamera(), 24, 24, scene...)
			assert.NoError(t, err)
			assert.Equal(t, 3, stats.Meshes)
			assert.Equal(t, tc.culled, stats.Culled)
			assert.Equal(t, tc.triangles, stats.Triangles)
		})
	}
}

func BenchmarkCameraFrustum(b *testing.B) {
	cam := NewCameraLookAt(math3d.V3(0, 10, 20), math3d.Vec3{}, math.Pi/3, 16.0/9.0, 0.1, 1000)

	for b.Loop() {
		cam.SetPosition(cam.Position)
		_ = cam.Frustum()
	}
}

func BenchmarkCullMesh(b *testing.B) {
	cam := NewCamera()
	f := cam.Frustum()
	cube := placedCube(math3d.V3(3, 0, -5), 1)
	cube.Transform.Rotation.Y = 0.5

	for b.Loop() {
		_ = f.IntersectAABB(worldBounds(cube))
	}
}
