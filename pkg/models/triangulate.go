package models

// TriangulatePolygon splits p into a fan of triangles sharing its first
// vertex. Triangles come back as-is and polygons with fewer than 3
// vertices yield nothing. Texture and normal indices are fanned only when
// present.
func TriangulatePolygon(p Polygon) []Polygon {
	n := len(p.VertexIndices)
	switch {
	case n < 3:
		return nil
	case n == 3:
		return []Polygon{p}
	}

	tris := make([]Polygon, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, Polygon{
			VertexIndices:   fan(p.VertexIndices, i),
			TexCoordIndices: fan(p.TexCoordIndices, i),
			NormalIndices:   fan(p.NormalIndices, i),
		})
	}
	return tris
}

func fan(indices []int, i int) []int {
	if len(indices) == 0 {
		return nil
	}
	return []int{indices[0], indices[i], indices[i+1]}
}

// Triangulate replaces every polygon of m with its fan triangulation.
// Running it twice is a no-op the second time.
func Triangulate(m *Mesh) {
	out := make([]Polygon, 0, len(m.Polygons))
	for _, p := range m.Polygons {
		out = append(out, TriangulatePolygon(p)...)
	}
	m.Polygons = out
}
