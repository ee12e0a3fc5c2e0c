package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/meshview/pkg/math3d"
)

// GLTFLoader imports glTF and GLB files into polygon meshes.
type GLTFLoader struct {
	// EstimateNormals runs EstimateNormals when the file carries none.
	EstimateNormals bool
}

// NewGLTFLoader creates a loader with normal estimation enabled.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{EstimateNormals: true}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load merges every triangle primitive of every mesh in the document into
// one Mesh named after the file. Node transforms are not applied.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.fromDocument(doc, filepath.Base(path))
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if l.EstimateNormals && len(mesh.Normals) == 0 {
		EstimateNormals(mesh)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", name, err)
	}
	return mesh, nil
}

// processMesh appends the geometry of one glTF mesh. glTF attributes are
// per vertex, so texture and normal indices mirror the vertex indices.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// lines and points have no area to fill
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []int
		if prim.Indices != nil {
			raw, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			indices = make([]int, len(raw))
			for i, v := range raw {
				indices[i] = int(v)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// Attributes shorter than the position list cannot be indexed
		// per vertex and are dropped for this primitive.
		withNormals := len(normals) == len(positions) && len(mesh.Normals) == len(mesh.Vertices)
		withUVs := len(uvs) == len(positions) && len(mesh.TexCoords) == len(mesh.Vertices)

		base := len(mesh.Vertices)
		for i, p := range positions {
			mesh.AddVertex(math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
			if withNormals {
				n := normals[i]
				mesh.AddNormal(math3d.V3(float64(n[0]), float64(n[1]), float64(n[2])))
			}
			if withUVs {
				// glTF puts V=0 at the top of the image.
				mesh.AddTexCoord(math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1])))
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			vi := []int{base + indices[i], base + indices[i+1], base + indices[i+2]}
			p := Polygon{VertexIndices: vi}
			if withNormals {
				p.NormalIndices = slices.Clone(vi)
			}
			if withUVs {
				p.TexCoordIndices = slices.Clone(vi)
			}
			mesh.AddPolygon(p)
		}
	}
	return nil
}

// LoadGLTFWithTexture loads a glTF/GLB file and decodes the first image it
// references, embedded or external. The image is nil when none decodes.
func LoadGLTFWithTexture(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	for _, data := range imageData(doc, filepath.Dir(path)) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err == nil {
			return mesh, img, nil
		}
	}
	return mesh, nil, nil
}

// imageData returns the encoded bytes of every image in document order.
func imageData(doc *gltf.Document, dir string) [][]byte {
	var out [][]byte
	for _, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil && bv.ByteOffset+bv.ByteLength <= len(buf.Data) {
				out = append(out, buf.Data[bv.ByteOffset:bv.ByteOffset+bv.ByteLength])
			}
		case img.URI != "":
			data, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err == nil {
				out = append(out, data)
			}
		}
	}
	return out
}
