package models

import "github.com/taigrr/meshview/pkg/math3d"

// NewCube returns an axis-aligned cube of edge length size centered at the
// origin: 8 vertices and 12 counter-clockwise triangles facing outward.
func NewCube(size float64) *Mesh {
	h := size / 2
	m := NewMesh("cube")
	m.Vertices = []math3d.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	m.Polygons = triangles(
		[3]int{4, 5, 6}, [3]int{4, 6, 7}, // +Z
		[3]int{1, 0, 3}, [3]int{1, 3, 2}, // -Z
		[3]int{7, 6, 2}, [3]int{7, 2, 3}, // +Y
		[3]int{0, 1, 5}, [3]int{0, 5, 4}, // -Y
		[3]int{0, 4, 7}, [3]int{0, 7, 3}, // -X
		[3]int{5, 1, 2}, [3]int{5, 2, 6}, // +X
	)
	return m
}

// NewCameraModel returns the gizmo drawn for inactive cameras: a truncated
// pyramid opening toward -Z with a small lens cone toward +Z.
func NewCameraModel() *Mesh {
	m := NewMesh("camera")
	m.Vertices = []math3d.Vec3{
		{-0.3, 0.3, 0.5}, {0.3, 0.3, 0.5}, {0.3, -0.3, 0.5}, {-0.3, -0.3, 0.5},
		{-1, 1, -2}, {1, 1, -2}, {1, -1, -2}, {-1, -1, -2},
		{0, 0, 1},
	}
	m.Polygons = triangles(
		[3]int{0, 1, 2}, [3]int{0, 2, 3},
		[3]int{4, 6, 5}, [3]int{4, 7, 6},
		[3]int{0, 5, 1}, [3]int{0, 4, 5},
		[3]int{3, 2, 6}, [3]int{3, 6, 7},
		[3]int{0, 3, 7}, [3]int{0, 7, 4},
		[3]int{1, 5, 6}, [3]int{1, 6, 2},
		// lens
		[3]int{8, 1, 0}, [3]int{8, 2, 1}, [3]int{8, 3, 2}, [3]int{8, 0, 3},
	)
	return m
}

// NewQuad returns a square of edge length size in the XY plane facing +Z,
// as one four-sided polygon with texture coordinates covering the unit
// square.
func NewQuad(size float64) *Mesh {
	h := size / 2
	m := NewMesh("quad")
	m.Vertices = []math3d.Vec3{{-h, -h, 0}, {h, -h, 0}, {h, h, 0}, {-h, h, 0}}
	m.TexCoords = []math3d.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	m.Polygons = []Polygon{{
		VertexIndices:   []int{0, 1, 2, 3},
		TexCoordIndices: []int{0, 1, 2, 3},
	}}
	return m
}

func triangles(faces ...[3]int) []Polygon {
	out := make([]Polygon, len(faces))
	for i, f := range faces {
		out[i] = NewPolygon(f[0], f[1], f[2])
	}
	return out
}
