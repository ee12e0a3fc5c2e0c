package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

const (
	// degenerateEpsilon is the smallest signed-area denominator a triangle
	// may have before it is treated as a line or point.
	degenerateEpsilon = 1e-6
	// edgeEpsilon admits pixels sitting exactly on a shared edge so
	// neighbouring triangles leave no seam.
	edgeEpsilon = 1e-5
)

// Triangle is a projected triangle with per-vertex lighting attributes.
// UV is only read when HasUV is set.
type Triangle struct {
	V       [3]ScreenPoint
	Normals [3]math3d.Vec3
	UV      [3]math3d.Vec2
	HasUV   bool
}

// Shading holds the per-triangle lighting inputs. LightDir points toward
// the light and should be unit length. A nil Texture shades with
// BaseColor.
type Shading struct {
	BaseColor Color
	LightDir  math3d.Vec3
	Ambient   float64
	Texture   *Texture
}

// Barycentric returns the area-ratio weights of point (px, py) with
// respect to the triangle a, b, c. ok is false when the triangle is
// degenerate.
func Barycentric(a, b, c ScreenPoint, px, py float64) (w0, w1, w2 float64, ok bool) {
	denom := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(denom) < degenerateEpsilon {
		return 0, 0, 0, false
	}
	w0 = ((b.Y-c.Y)*(px-c.X) + (c.X-b.X)*(py-c.Y)) / denom
	w1 = ((c.Y-a.Y)*(px-c.X) + (a.X-c.X)*(py-c.Y)) / denom
	w2 = 1 - w0 - w1
	return w0, w1, w2, true
}

// RasterizeTriangle fills tri into out, testing every candidate pixel
// against depth, and returns the number of pixels written. The pixel
// rectangle is the depth buffer's. Attributes are interpolated linearly in
// screen space.
func RasterizeTriangle(tri Triangle, sh Shading, depth *DepthBuffer, out PixelWriter) int {
	a, b, c := tri.V[0], tri.V[1], tri.V[2]
	if !finite(a) || !finite(b) || !finite(c) {
		return 0
	}
	if _, _, _, ok := Barycentric(a, b, c, a.X, a.Y); !ok {
		return 0
	}

	minX, maxX := pixelSpan(min(a.X, b.X, c.X), max(a.X, b.X, c.X), depth.Width())
	minY, maxY := pixelSpan(min(a.Y, b.Y, c.Y), max(a.Y, b.Y, c.Y), depth.Height())

	textured := sh.Texture != nil && tri.HasUV
	written := 0
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			w0, w1, w2, _ := Barycentric(a, b, c, float64(x)+0.5, py)
			if w0 < -edgeEpsilon || w1 < -edgeEpsilon || w2 < -edgeEpsilon {
				continue
			}

			z := a.Depth*w0 + b.Depth*w1 + c.Depth*w2
			if !depth.TestAndSet(x, y, z) {
				continue
			}

			n := math3d.Barycentric3(tri.Normals[0], tri.Normals[1], tri.Normals[2], w0, w1, w2).Normalize()
			diffuse := max(0, n.Dot(sh.LightDir))
			intensity := min(1, sh.Ambient+(1-sh.Ambient)*diffuse)

			base := sh.BaseColor
			if textured {
				uv := math3d.Barycentric2(tri.UV[0], tri.UV[1], tri.UV[2], w0, w1, w2)
				base = sh.Texture.Sample(uv)
			}

			out.SetPixel(x, y, Shade(base, intensity))
			written++
		}
	}
	return written
}

// pixelSpan converts a float extent into the inclusive pixel range it
// touches, clipped to [0, size). Clamping happens before the int
// conversion so far-off vertices cannot overflow.
func pixelSpan(lo, hi float64, size int) (int, int) {
	last := float64(size - 1)
	lo = min(max(math.Floor(lo), 0), last+1)
	hi = min(max(math.Ceil(hi), -1), last)
	return int(lo), int(hi)
}

func finite(p ScreenPoint) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Depth) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Depth, 0)
}
