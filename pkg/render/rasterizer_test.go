package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/meshview/pkg/math3d"
)

func newTarget(t testing.TB, w, h int) (*DepthBuffer, *Framebuffer) {
	t.Helper()
	db, err := NewDepthBuffer(w, h)
	require.NoError(t, err)
	fb, err := NewFramebuffer(w, h)
	require.NoError(t, err)
	return db, fb
}

// flatTriangle faces the viewer, so with a head-on light it shades at full
// intensity.
func flatTriangle(a, b, c ScreenPoint) Triangle {
	n := math3d.V3(0, 0, 1)
	return Triangle{V: [3]ScreenPoint{a, b, c}, Normals: [3]math3d.Vec3{n, n, n}}
}

func unlit(c Color) Shading {
	return Shading{BaseColor: c, LightDir: math3d.V3(0, 0, 1)}
}

func TestBarycentric(t *testing.T) {
	a := ScreenPoint{X: 0, Y: 0}
	b := ScreenPoint{X: 10, Y: 0}
	c := ScreenPoint{X: 0, Y: 10}

	tests := []struct {
		name       string
		px, py     float64
		w0, w1, w2 float64
	}{
		{"vertex a", 0, 0, 1, 0, 0},
		{"vertex b", 10, 0, 0, 1, 0},
		{"vertex c", 0, 10, 0, 0, 1},
		{"centroid", 10.0 / 3, 10.0 / 3, 1.0 / 3, 1.0 / 3, 1.0 / 3},
		{"edge midpoint", 5, 5, 0, 0.5, 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w0, w1, w2, ok := Barycentric(a, b, c, tc.px, tc.py)
			require.True(t, ok)
			assert.InDelta(t, tc.w0, w0, 1e-9)
			assert.InDelta(t, tc.w1, w1, 1e-9)
			assert.InDelta(t, tc.w2, w2, 1e-9)
			assert.InDelta(t, 1, w0+w1+w2, 1e-9)
		})
	}

	t.Run("outside", func(t *testing.T) {
		w0, w1, w2, ok := Barycentric(a, b, c, -1, -1)
		require.True(t, ok)
		assert.True(t, w0 < 0 || w1 < 0 || w2 < 0)
	})

	t.Run("degenerate", func(t *testing.T) {
		_, _, _, ok := Barycentric(a, b, ScreenPoint{X: 20, Y: 0}, 1, 1)
		assert.False(t, ok)
	})
}

func TestRasterizeTriangleCoversInterior(t *testing.T) {
	db, fb := newTarget(t, 10, 10)
	tri := flatTriangle(
		ScreenPoint{X: 0, Y: 0, Depth: 0.5},
		ScreenPoint{X: 10, Y: 0, Depth: 0.5},
		ScreenPoint{X: 0, Y: 10, Depth: 0.5},
	)

	n := RasterizeTriangle(tri, unlit(ColorRed), db, fb)
	assert.Positive(t, n)

	assert.Equal(t, ColorRed, fb.GetPixel(1, 1))
	assert.InDelta(t, 0.5, db.At(1, 1), 1e-9)
	// the far corner is outside the hypotenuse
	assert.Equal(t, Color{}, fb.GetPixel(9, 9))
	assert.True(t, math.IsInf(db.At(9, 9), 1))
}

func TestRasterizeTriangleDepthOrder(t *testing.T) {
	near := flatTriangle(
		ScreenPoint{X: 0, Y: 0, Depth: 0.2},
		ScreenPoint{X: 20, Y: 0, Depth: 0.2},
		ScreenPoint{X: 0, Y: 20, Depth: 0.2},
	)
	far := flatTriangle(
		ScreenPoint{X: 0, Y: 0, Depth: 0.5},
		ScreenPoint{X: 20, Y: 0, Depth: 0.5},
		ScreenPoint{X: 0, Y: 20, Depth: 0.5},
	)

	tests := []struct {
		name  string
		order []Triangle
		shade []Color
	}{
		{"near first", []Triangle{near, far}, []Color{ColorRed, ColorBlue}},
		{"far first", []Triangle{far, near}, []Color{ColorBlue, ColorRed}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, fb := newTarget(t, 8, 8)
			for i, tri := range tc.order {
				RasterizeTriangle(tri, unlit(tc.shade[i]), db, fb)
			}
			assert.Equal(t, ColorRed, fb.GetPixel(2, 2))
			assert.InDelta(t, 0.2, db.At(2, 2), 1e-9)
		})
	}
}

func TestRasterizeTriangleRejects(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle
	}{
		{"collinear", flatTriangle(
			ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 5, Y: 5}, ScreenPoint{X: 9, Y: 9},
		)},
		{"single point", flatTriangle(
			ScreenPoint{X: 3, Y: 3}, ScreenPoint{X: 3, Y: 3}, ScreenPoint{X: 3, Y: 3},
		)},
		{"nan vertex", flatTriangle(
			ScreenPoint{X: math.NaN(), Y: 0}, ScreenPoint{X: 9, Y: 0}, ScreenPoint{X: 0, Y: 9},
		)},
		{"infinite depth", flatTriangle(
			ScreenPoint{X: 0, Y: 0, Depth: math.Inf(-1)}, ScreenPoint{X: 9, Y: 0}, ScreenPoint{X: 0, Y: 9},
		)},
		{"off screen", flatTriangle(
			ScreenPoint{X: -50, Y: -50}, ScreenPoint{X: -40, Y: -50}, ScreenPoint{X: -50, Y: -40},
		)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, fb := newTarget(t, 10, 10)
			assert.Zero(t, RasterizeTriangle(tc.tri, unlit(ColorRed), db, fb))
			for y := range 10 {
				for x := range 10 {
					require.True(t, math.IsInf(db.At(x, y), 1), "depth at (%d, %d) was written", x, y)
				}
			}
		})
	}
}

func TestRasterizeTriangleHugeCoordinates(t *testing.T) {
	db, fb := newTarget(t, 4, 4)
	tri := flatTriangle(
		ScreenPoint{X: -1e20, Y: -1e20},
		ScreenPoint{X: 1e20, Y: -1e20},
		ScreenPoint{X: 0, Y: 1e20},
	)
	n := RasterizeTriangle(tri, unlit(ColorGreen), db, fb)
	assert.Equal(t, 16, n)
}

func TestRasterizeTriangleLighting(t *testing.T) {
	gray := RGB(200, 200, 200)
	tests := []struct {
		name    string
		base    Color
		light   math3d.Vec3
		ambient float64
		want    Color
	}{
		{"head on", gray, math3d.V3(0, 0, 1), 0, gray},
		{"from behind uses ambient", gray, math3d.V3(0, 0, -1), 0.5, RGB(100, 100, 100)},
		{"grazing", gray, math3d.V3(1, 0, 0), 0.25, RGB(50, 50, 50)},
		{"alpha kept", RGBA(200, 100, 50, 77), math3d.V3(1, 0, 0), 0.5, RGBA(100, 50, 25, 77)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, fb := newTarget(t, 8, 8)
			tri := flatTriangle(
				ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 20, Y: 0}, ScreenPoint{X: 0, Y: 20},
			)
			sh := Shading{BaseColor: tc.base, LightDir: tc.light, Ambient: tc.ambient}
			RasterizeTriangle(tri, sh, db, fb)
			assert.Equal(t, tc.want, fb.GetPixel(1, 1))
		})
	}
}

func TestRasterizeTriangleTexture(t *testing.T) {
	// left half red, right half blue
	tex := NewTexture("split", 4, 1)
	copy(tex.Pixels, []Color{ColorRed, ColorRed, ColorBlue, ColorBlue})

	tri := flatTriangle(
		ScreenPoint{X: 0, Y: 0}, ScreenPoint{X: 20, Y: 0}, ScreenPoint{X: 0, Y: 20},
	)
	tri.UV = [3]math3d.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 0}}

	t.Run("sampled when uv present", func(t *testing.T) {
		db, fb := newTarget(t, 20, 20)
		tri := tri
		tri.HasUV = true
		sh := unlit(ColorGreen)
		sh.Texture = tex
		RasterizeTriangle(tri, sh, db, fb)
		assert.Equal(t, ColorRed, fb.GetPixel(1, 1))
		assert.Equal(t, ColorBlue, fb.GetPixel(18, 0))
	})

	t.Run("base color without uv", func(t *testing.T) {
		db, fb := newTarget(t, 20, 20)
		sh := unlit(ColorGreen)
		sh.Texture = tex
		RasterizeTriangle(tri, sh, db, fb)
		assert.Equal(t, ColorGreen, fb.GetPixel(1, 1))
	})
}

func BenchmarkRasterizeTriangle(b *testing.B) {
	db, fb := newTarget(b, 320, 240)
	tri := flatTriangle(
		ScreenPoint{X: 10, Y: 10, Depth: 0.5},
		ScreenPoint{X: 300, Y: 40, Depth: 0.5},
		ScreenPoint{X: 150, Y: 230, Depth: 0.5},
	)
	sh := unlit(ColorWhite)

	for b.Loop() {
		db.Clear()
		RasterizeTriangle(tri, sh, db, fb)
	}
}
