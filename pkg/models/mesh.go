// Package models holds polygon meshes and the geometry passes that run on
// them between frames: editing, fan triangulation, normal estimation,
// procedural shapes and glTF import.
package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/taigrr/meshview/pkg/math3d"
)

var (
	// ErrIndexOutOfRange reports a polygon referencing a missing vertex,
	// texture coordinate or normal.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDegeneratePolygon reports a polygon with fewer than 3 vertices.
	ErrDegeneratePolygon = errors.New("polygon has fewer than 3 vertices")
	// ErrAttributeLength reports a texture or normal index list whose
	// length differs from the vertex index list.
	ErrAttributeLength = errors.New("attribute index count mismatch")
)

// Polygon is an ordered loop of vertex indices. TexCoordIndices and
// NormalIndices are either empty or parallel to VertexIndices.
type Polygon struct {
	VertexIndices   []int
	TexCoordIndices []int
	NormalIndices   []int
}

// NewPolygon creates a polygon with vertex indices only.
func NewPolygon(vertices ...int) Polygon {
	return Polygon{VertexIndices: vertices}
}

// Len returns the number of vertices in the polygon.
func (p Polygon) Len() int {
	return len(p.VertexIndices)
}

// IsTriangle reports whether the polygon has exactly three vertices.
func (p Polygon) IsTriangle() bool {
	return len(p.VertexIndices) == 3
}

// HasTexCoords reports whether every vertex carries a texture index.
func (p Polygon) HasTexCoords() bool {
	return len(p.TexCoordIndices) > 0 && len(p.TexCoordIndices) == len(p.VertexIndices)
}

// HasNormals reports whether every vertex carries a normal index.
func (p Polygon) HasNormals() bool {
	return len(p.NormalIndices) > 0 && len(p.NormalIndices) == len(p.VertexIndices)
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	return Polygon{
		VertexIndices:   slices.Clone(p.VertexIndices),
		TexCoordIndices: slices.Clone(p.TexCoordIndices),
		NormalIndices:   slices.Clone(p.NormalIndices),
	}
}

// Mesh is an indexed polygon mesh with its own model transform.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	TexCoords []math3d.Vec2
	Normals   []math3d.Vec3
	Polygons  []Polygon
	Transform Transform
}

// NewMesh creates an empty mesh with an identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Transform: NewTransform(),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v math3d.Vec3) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddTexCoord appends a texture coordinate and returns its index.
func (m *Mesh) AddTexCoord(uv math3d.Vec2) int {
	m.TexCoords = append(m.TexCoords, uv)
	return len(m.TexCoords) - 1
}

// AddNormal appends a normal and returns its index.
func (m *Mesh) AddNormal(n math3d.Vec3) int {
	m.Normals = append(m.Normals, n)
	return len(m.Normals) - 1
}

// AddPolygon appends a polygon and returns its index.
func (m *Mesh) AddPolygon(p Polygon) int {
	m.Polygons = append(m.Polygons, p)
	return len(m.Polygons) - 1
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of polygons with exactly 3 vertices.
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, p := range m.Polygons {
		if p.IsTriangle() {
			n++
		}
	}
	return n
}

// ModelMatrix returns the mesh's model-to-world matrix.
func (m *Mesh) ModelMatrix() math3d.Mat4 {
	return m.Transform.Matrix()
}

// RemoveVertex deletes vertex i. Polygons lose their reference to it
// (together with the parallel texture and normal index), indices above i
// shift down by one, and polygons left with fewer than 3 vertices are
// dropped. Out-of-range indices are ignored.
func (m *Mesh) RemoveVertex(i int) {
	if i < 0 || i >= len(m.Vertices) {
		return
	}
	m.Vertices = slices.Delete(m.Vertices, i, i+1)

	kept := m.Polygons[:0]
	for _, p := range m.Polygons {
		hasTex, hasNorm := p.HasTexCoords(), p.HasNormals()
		for k := len(p.VertexIndices) - 1; k >= 0; k-- {
			switch idx := p.VertexIndices[k]; {
			case idx == i:
				p.VertexIndices = slices.Delete(p.VertexIndices, k, k+1)
				if hasTex {
					p.TexCoordIndices = slices.Delete(p.TexCoordIndices, k, k+1)
				}
				if hasNorm {
					p.NormalIndices = slices.Delete(p.NormalIndices, k, k+1)
				}
			case idx > i:
				p.VertexIndices[k] = idx - 1
			}
		}
		if len(p.VertexIndices) >= 3 {
			kept = append(kept, p)
		}
	}
	clear(m.Polygons[len(kept):])
	m.Polygons = kept
}

// RemovePolygon deletes polygon i. Out-of-range indices are ignored.
func (m *Mesh) RemovePolygon(i int) {
	if i < 0 || i >= len(m.Polygons) {
		return
	}
	m.Polygons = slices.Delete(m.Polygons, i, i+1)
}

// RemovePolygons deletes every listed polygon. Indices refer to the
// polygon list before the call; duplicates and out-of-range values are
// ignored.
func (m *Mesh) RemovePolygons(indices []int) {
	sorted := slices.Clone(indices)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	for k := len(sorted) - 1; k >= 0; k-- {
		m.RemovePolygon(sorted[k])
	}
}

// Validate returns the first index or shape violation found, or nil.
func (m *Mesh) Validate() error {
	for pi, p := range m.Polygons {
		if len(p.VertexIndices) < 3 {
			return fmt.Errorf("polygon %d: %w", pi, ErrDegeneratePolygon)
		}
		if err := checkIndices(p.VertexIndices, len(m.Vertices)); err != nil {
			return fmt.Errorf("polygon %d vertex: %w", pi, err)
		}
		if len(p.TexCoordIndices) > 0 {
			if len(p.TexCoordIndices) != len(p.VertexIndices) {
				return fmt.Errorf("polygon %d texcoords: %w", pi, ErrAttributeLength)
			}
			if err := checkIndices(p.TexCoordIndices, len(m.TexCoords)); err != nil {
				return fmt.Errorf("polygon %d texcoord: %w", pi, err)
			}
		}
		if len(p.NormalIndices) > 0 {
			if len(p.NormalIndices) != len(p.VertexIndices) {
				return fmt.Errorf("polygon %d normals: %w", pi, ErrAttributeLength)
			}
			if err := checkIndices(p.NormalIndices, len(m.Normals)); err != nil {
				return fmt.Errorf("polygon %d normal: %w", pi, err)
			}
		}
	}
	return nil
}

func checkIndices(indices []int, n int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%d of %d: %w", idx, n, ErrIndexOutOfRange)
		}
	}
	return nil
}

// Bounds returns the local-space axis-aligned bounding box. An empty mesh
// reports a zero box.
func (m *Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return min, max
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// ApplyTransform bakes the model transform into the vertex and normal data
// and resets the transform to identity.
func (m *Mesh) ApplyTransform() {
	mat := m.Transform.Matrix()
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(v)
	}
	// Uniform scale keeps the rotation part usable for normals.
	for i, n := range m.Normals {
		m.Normals[i] = mat.MulVec3Dir(n).Normalize()
	}
	m.Transform.Reset()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Name:      m.Name,
		Vertices:  slices.Clone(m.Vertices),
		TexCoords: slices.Clone(m.TexCoords),
		Normals:   slices.Clone(m.Normals),
		Polygons:  make([]Polygon, len(m.Polygons)),
		Transform: m.Transform,
	}
	for i, p := range m.Polygons {
		c.Polygons[i] = p.Clone()
	}
	return c
}
