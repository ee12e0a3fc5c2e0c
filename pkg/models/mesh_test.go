package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/math3d"
)

func TestTriangulatePolygon(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want int
	}{
		{"point", 1, 0},
		{"edge", 2, 0},
		{"triangle", 3, 1},
		{"quad", 4, 2},
		{"pentagon", 5, 3},
		{"decagon", 10, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Polygon{}
			for i := range tt.n {
				p.VertexIndices = append(p.VertexIndices, 10+i)
			}
			tris := TriangulatePolygon(p)
			require.Len(t, tris, tt.want)
			for _, tri := range tris {
				assert.True(t, tri.IsTriangle())
				assert.Equal(t, 10, tri.VertexIndices[0])
			}
		})
	}
}

func TestTriangulateQuadWithAttributes(t *testing.T) {
	m := NewMesh("quad")
	m.Polygons = []Polygon{{
		VertexIndices:   []int{0, 1, 2, 3},
		TexCoordIndices: []int{4, 5, 6, 7},
	}}
	Triangulate(m)

	require.Len(t, m.Polygons, 2)
	assert.Equal(t, []int{0, 1, 2}, m.Polygons[0].VertexIndices)
	assert.Equal(t, []int{0, 2, 3}, m.Polygons[1].VertexIndices)
	assert.Equal(t, []int{4, 6, 7}, m.Polygons[1].TexCoordIndices)
	assert.Empty(t, m.Polygons[0].NormalIndices)
}

func TestTriangulateDropsDegenerateAndIsIdempotent(t *testing.T) {
	m := NewMesh("mixed")
	m.Polygons = []Polygon{
		NewPolygon(0, 1),
		NewPolygon(0, 1, 2, 3, 4),
		NewPolygon(0, 1, 2),
	}
	Triangulate(m)
	require.Len(t, m.Polygons, 4)

	before := m.Clone().Polygons
	Triangulate(m)
	assert.Equal(t, before, m.Polygons)
}

func TestEstimateNormalsCube(t *testing.T) {
	m := NewCube(2)
	EstimateNormals(m)

	require.Len(t, m.Normals, 8)
	for i, n := range m.Normals {
		assert.InDelta(t, 1.0, n.Len(), 1e-4, "normal %d length", i)
		assert.Greater(t, n.Dot(m.Vertices[i]), 0.0, "normal %d points inward", i)
	}
	for _, p := range m.Polygons {
		assert.Equal(t, p.VertexIndices, p.NormalIndices)
	}
}

func TestEstimateNormalsIsolatedAndDegenerate(t *testing.T) {
	m := NewMesh("line")
	m.Vertices = []math3d.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {5, 5, 5}}
	m.Polygons = []Polygon{NewPolygon(0, 1, 2)}
	EstimateNormals(m)

	require.Len(t, m.Normals, 4)
	for _, n := range m.Normals {
		assert.True(t, n.IsZero())
	}
}

func TestFaceNormalWinding(t *testing.T) {
	m := NewMesh("tri")
	m.Vertices = []math3d.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	assert.Equal(t, math3d.V3(0, 0, 1), FaceNormal(m, NewPolygon(0, 1, 2)))
	assert.Equal(t, math3d.V3(0, 0, -1), FaceNormal(m, NewPolygon(0, 2, 1)))
}

func TestRemoveVertex(t *testing.T) {
	tests := []struct {
		name   string
		remove int
		polys  []Polygon
		want   [][]int
	}{
		{
			name:   "shifts higher indices",
			remove: 0,
			polys:  []Polygon{NewPolygon(1, 2, 3, 4)},
			want:   [][]int{{0, 1, 2, 3}},
		},
		{
			name:   "drops polygon below three",
			remove: 2,
			polys:  []Polygon{NewPolygon(0, 1, 2), NewPolygon(1, 3, 4)},
			want:   [][]int{{1, 2, 3}},
		},
		{
			name:   "quad becomes triangle",
			remove: 3,
			polys:  []Polygon{NewPolygon(0, 1, 3, 4)},
			want:   [][]int{{0, 1, 3}},
		},
		{
			name:   "out of range is ignored",
			remove: 9,
			polys:  []Polygon{NewPolygon(0, 1, 2)},
			want:   [][]int{{0, 1, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh("m")
			for i := range 5 {
				m.AddVertex(math3d.V3(float64(i), 0, 0))
			}
			m.Polygons = tt.polys
			m.RemoveVertex(tt.remove)

			var got [][]int
			for _, p := range m.Polygons {
				got = append(got, p.VertexIndices)
			}
			assert.Equal(t, tt.want, got)
			assert.NoError(t, m.Validate())
		})
	}
}

func TestRemoveVertexKeepsAttributesAligned(t *testing.T) {
	m := NewQuad(1)
	EstimateNormals(m)
	m.RemoveVertex(1)

	require.Len(t, m.Polygons, 1)
	p := m.Polygons[0]
	assert.Equal(t, []int{0, 1, 2}, p.VertexIndices)
	assert.Equal(t, []int{0, 2, 3}, p.TexCoordIndices)
	assert.Equal(t, []int{0, 2, 3}, p.NormalIndices)
	assert.Len(t, m.Vertices, 3)
}

func TestRemovePolygons(t *testing.T) {
	m := NewCube(1)
	first, last := m.Polygons[0], m.Polygons[11]

	m.RemovePolygons([]int{5, 1, 11, 3, 3, 42, -1})
	require.Len(t, m.Polygons, 8)
	assert.Equal(t, first, m.Polygons[0])
	assert.NotEqual(t, last, m.Polygons[len(m.Polygons)-1])

	m.RemovePolygon(0)
	m.RemovePolygon(100)
	assert.Len(t, m.Polygons, 7)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want error
	}{
		{"ok", NewPolygon(0, 1, 2), nil},
		{"short", NewPolygon(0, 1), ErrDegeneratePolygon},
		{"vertex range", NewPolygon(0, 1, 7), ErrIndexOutOfRange},
		{"texcoord length", Polygon{VertexIndices: []int{0, 1, 2}, TexCoordIndices: []int{0}}, ErrAttributeLength},
		{"normal range", Polygon{VertexIndices: []int{0, 1, 2}, NormalIndices: []int{0, 0, 0}}, ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh("m")
			m.Vertices = []math3d.Vec3{{}, {1, 0, 0}, {0, 1, 0}}
			m.Polygons = []Polygon{tt.poly}
			err := m.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestModelMatrixOrder(t *testing.T) {
	m := NewMesh("m")
	m.Transform.Translation = math3d.V3(10, 0, 0)
	m.Transform.Rotation = math3d.V3(0, 0, math.Pi/2)
	m.Transform.Scale = 2

	// Scale, then rotate +X onto +Y, then translate.
	got := m.ModelMatrix().MulVec3(math3d.V3(1, 0, 0))
	assert.InDelta(t, 10.0, got.X, 1e-9)
	assert.InDelta(t, 2.0, got.Y, 1e-9)
}

func TestApplyTransformAndBounds(t *testing.T) {
	m := NewCube(2)
	m.Transform.Translate(math3d.V3(1, 2, 3))
	m.Transform.ScaleBy(1, 0.01)
	m.ApplyTransform()

	assert.Equal(t, NewTransform(), m.Transform)
	lo, hi := m.Bounds()
	assert.Equal(t, math3d.V3(-1, 0, 1), lo)
	assert.Equal(t, math3d.V3(3, 4, 5), hi)
	assert.Equal(t, math3d.V3(1, 2, 3), m.Center())
	assert.Equal(t, math3d.V3(4, 4, 4), m.Size())
}

func TestScaleByClampsToMinimum(t *testing.T) {
	tr := NewTransform()
	tr.ScaleBy(-5, 0.01)
	assert.Equal(t, 0.01, tr.Scale)
}

func TestCloneIsDeep(t *testing.T) {
	m := NewCube(1)
	c := m.Clone()
	c.Vertices[0] = math3d.V3(9, 9, 9)
	c.Polygons[0].VertexIndices[0] = 7
	assert.NotEqual(t, c.Vertices[0], m.Vertices[0])
	assert.Equal(t, 4, m.Polygons[0].VertexIndices[0])
}

func TestPrimitives(t *testing.T) {
	cube := NewCube(1)
	assert.Len(t, cube.Vertices, 8)
	assert.Equal(t, 12, cube.TriangleCount())
	assert.NoError(t, cube.Validate())

	cam := NewCameraModel()
	assert.Len(t, cam.Vertices, 9)
	assert.Equal(t, 16, cam.TriangleCount())
	assert.NoError(t, cam.Validate())

	quad := NewQuad(1)
	assert.Equal(t, 0, quad.TriangleCount())
	assert.NoError(t, quad.Validate())
}
