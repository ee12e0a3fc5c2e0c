package render

import (
	"fmt"

	"github.com/taigrr/meshview/pkg/math3d"
	"github.com/taigrr/meshview/pkg/models"
)

// Options controls how the compositor draws a frame. Fill and Wireframe
// are independent; with both set the outline is drawn over the fill.
type Options struct {
	Fill       bool
	Wireframe  bool
	UseTexture bool
	Axes       bool

	// Cull skips meshes whose transformed bounds lie outside the view
	// frustum. Off by default so no geometry is ever discarded.
	Cull bool

	Ambient    float64
	FillColor  Color
	WireColor  Color
	Background Color

	// LightDir points from the surface toward the light, in world space.
	// The zero vector lights the scene from the camera.
	LightDir math3d.Vec3
}

// DefaultOptions returns filled, lit rendering with a camera headlight.
func DefaultOptions() Options {
	return Options{
		Fill:       true,
		UseTexture: true,
		Ambient:    0.2,
		FillColor:  ColorLightBlue,
		WireColor:  ColorWhite,
		Background: ColorBlack,
	}
}

// FrameStats counts the work done for one frame.
type FrameStats struct {
	Meshes          int // meshes submitted
	Culled          int // meshes rejected by frustum culling
	Triangles       int // triangles rasterized
	SkippedPolygons int // non-triangles and bad indices ignored by the fill pass
	Pixels          int // pixels that passed the depth test
	Edges           int // wireframe edges that reached the screen
}

// Compositor owns the frame's depth buffer and framebuffer and draws
// meshes into them. It is not safe for concurrent use; a frame runs to
// completion before the next begins.
type Compositor struct {
	opts    Options
	texture *Texture
	fb      *Framebuffer
	depth   *DepthBuffer
	stats   FrameStats
}

// NewCompositor creates a compositor. Buffers are allocated on the first
// frame.
func NewCompositor(opts Options) *Compositor {
	return &Compositor{
		opts:  opts,
		fb:    &Framebuffer{},
		depth: &DepthBuffer{},
	}
}

// Options returns the current options.
func (c *Compositor) Options() Options { return c.opts }

// SetOptions replaces every option.
func (c *Compositor) SetOptions(opts Options) { c.opts = opts }

// SetFill toggles the filled pass.
func (c *Compositor) SetFill(on bool) { c.opts.Fill = on }

// SetWireframe toggles the outline pass.
func (c *Compositor) SetWireframe(on bool) { c.opts.Wireframe = on }

// SetAmbient sets the ambient light term, clamped to [0, 1].
func (c *Compositor) SetAmbient(a float64) { c.opts.Ambient = min(max(a, 0), 1) }

// SetFillColor sets the untextured surface color.
func (c *Compositor) SetFillColor(col Color) { c.opts.FillColor = col }

// SetTexture sets the texture applied when UseTexture is on. nil disables
// texturing.
func (c *Compositor) SetTexture(tex *Texture) { c.texture = tex }

// Texture returns the texture in use, or nil.
func (c *Compositor) Texture() *Texture { return c.texture }

// Framebuffer returns the color target of the last frame.
func (c *Compositor) Framebuffer() *Framebuffer { return c.fb }

// DepthBuffer returns the depth target of the last frame.
func (c *Compositor) DepthBuffer() *DepthBuffer { return c.depth }

// Stats returns the counters of the frame in progress or last finished.
func (c *Compositor) Stats() FrameStats { return c.stats }

// Begin starts a frame of the given size. Buffers are reallocated when the
// size changed and cleared in place otherwise.
func (c *Compositor) Begin(width, height int) error {
	resized := width != c.depth.Width() || height != c.depth.Height()
	if err := c.depth.Resize(width, height); err != nil {
		return fmt.Errorf("depth buffer: %w", err)
	}
	if err := c.fb.Resize(width, height); err != nil {
		return fmt.Errorf("framebuffer: %w", err)
	}
	if !resized {
		c.depth.Clear()
	}
	c.fb.Clear(c.opts.Background)
	c.stats = FrameStats{}
	return nil
}

// Render draws meshes in order through cam into a width×height frame.
func (c *Compositor) Render(cam *Camera, width, height int, meshes ...*models.Mesh) (FrameStats, error) {
	if err := c.Begin(width, height); err != nil {
		return FrameStats{}, err
	}
	if c.opts.Axes {
		DrawAxes(cam.ViewProjectionMatrix(), 1, width, height, c.fb)
	}
	for _, m := range meshes {
		c.DrawMesh(cam, m)
	}
	Logger().Debug("frame rendered",
		"width", width, "height", height,
		"meshes", c.stats.Meshes, "culled", c.stats.Culled,
		"triangles", c.stats.Triangles, "pixels", c.stats.Pixels)
	return c.stats, nil
}

// DrawMesh draws one mesh into the current frame. Call Begin first.
func (c *Compositor) DrawMesh(cam *Camera, mesh *models.Mesh) {
	c.stats.Meshes++
	model := mesh.ModelMatrix()
	if c.opts.Cull && !cam.Frustum().IntersectAABB(MeshBounds(mesh).Transform(model)) {
		c.stats.Culled++
		return
	}

	mvp := cam.ViewProjectionMatrix().Mul(model)
	if c.opts.Fill {
		c.fillMesh(cam, mesh, model, mvp)
	}
	if c.opts.Wireframe {
		c.strokeMesh(mesh, mvp)
	}
}

func (c *Compositor) fillMesh(cam *Camera, mesh *models.Mesh, model, mvp math3d.Mat4) {
	w, h := c.depth.Width(), c.depth.Height()
	sh := Shading{
		BaseColor: c.opts.FillColor,
		LightDir:  c.lightDir(cam),
		Ambient:   c.opts.Ambient,
	}
	if c.opts.UseTexture {
		sh.Texture = c.texture
	}

	for _, p := range mesh.Polygons {
		if !p.IsTriangle() || !validIndices(mesh, p) {
			c.stats.SkippedPolygons++
			continue
		}

		var tri Triangle
		for k, vi := range p.VertexIndices {
			tri.V[k] = Project(mvp, mesh.Vertices[vi], w, h)
		}

		if p.HasNormals() {
			for k, ni := range p.NormalIndices {
				tri.Normals[k] = model.MulVec3Dir(mesh.Normals[ni]).Normalize()
			}
		} else {
			n := model.MulVec3Dir(models.FaceNormal(mesh, p)).Normalize()
			tri.Normals = [3]math3d.Vec3{n, n, n}
		}

		if p.HasTexCoords() {
			for k, ti := range p.TexCoordIndices {
				tri.UV[k] = mesh.TexCoords[ti]
			}
			tri.HasUV = true
		}

		c.stats.Triangles++
		c.stats.Pixels += RasterizeTriangle(tri, sh, c.depth, c.fb)
	}
}

func (c *Compositor) strokeMesh(mesh *models.Mesh, mvp math3d.Mat4) {
	w, h := c.fb.Width, c.fb.Height
	var pts []ScreenPoint
	for _, p := range mesh.Polygons {
		if !validIndices(mesh, p) {
			continue
		}
		pts = pts[:0]
		for _, vi := range p.VertexIndices {
			pts = append(pts, Project(mvp, mesh.Vertices[vi], w, h))
		}
		c.stats.Edges += StrokePolygon(pts, c.opts.WireColor, w, h, c.fb)
	}
}

func (c *Compositor) lightDir(cam *Camera) math3d.Vec3 {
	if c.opts.LightDir.IsZero() {
		return cam.Forward().Negate()
	}
	return c.opts.LightDir.Normalize()
}

// validIndices reports whether every index of p refers to an existing
// attribute, so a malformed mesh skips polygons instead of panicking.
func validIndices(mesh *models.Mesh, p models.Polygon) bool {
	return inRange(p.VertexIndices, len(mesh.Vertices)) &&
		inRange(p.TexCoordIndices, len(mesh.TexCoords)) &&
		inRange(p.NormalIndices, len(mesh.Normals))
}

func inRange(indices []int, n int) bool {
	for _, i := range indices {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// SceneSource supplies the meshes of a frame in draw order.
type SceneSource interface {
	Drawables() []*models.Mesh
}

// RenderScene draws every mesh src yields through cam.
func (c *Compositor) RenderScene(cam *Camera, width, height int, src SceneSource) (FrameStats, error) {
	return c.Render(cam, width, height, src.Drawables()...)
}
