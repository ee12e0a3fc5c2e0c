package models

import "github.com/taigrr/meshview/pkg/math3d"

// FaceNormal returns the unit normal of p's first three vertices using
// counter-clockwise winding. Degenerate polygons give the zero vector.
func FaceNormal(m *Mesh, p Polygon) math3d.Vec3 {
	if len(p.VertexIndices) < 3 {
		return math3d.Vec3{}
	}
	v0 := m.Vertices[p.VertexIndices[0]]
	v1 := m.Vertices[p.VertexIndices[1]]
	v2 := m.Vertices[p.VertexIndices[2]]
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// EstimateNormals rebuilds m.Normals with one smooth normal per vertex:
// the renormalized, unweighted sum of the face normals of every polygon
// touching it. Vertices with no polygons get a zero normal. Each polygon's
// normal indices are rewritten to match its vertex indices.
func EstimateNormals(m *Mesh) {
	sums := make([]math3d.Vec3, len(m.Vertices))
	for _, p := range m.Polygons {
		n := FaceNormal(m, p)
		for _, vi := range p.VertexIndices {
			sums[vi] = sums[vi].Add(n)
		}
	}

	m.Normals = m.Normals[:0]
	for _, s := range sums {
		m.Normals = append(m.Normals, s.Normalize())
	}

	for i := range m.Polygons {
		p := &m.Polygons[i]
		p.NormalIndices = append(p.NormalIndices[:0], p.VertexIndices...)
	}
}
