package render

import (
	"math"

	"github.com/taigrr/meshview/pkg/math3d"
)

// StrokePolygon draws the outline of a projected polygon: each consecutive
// edge plus the edge closing the loop. Segments are clipped to the
// width×height target first. It returns the number of edges that reached
// the target.
func StrokePolygon(pts []ScreenPoint, c Color, width, height int, out PixelWriter) int {
	n := len(pts)
	if n < 2 {
		return 0
	}
	drawn := 0
	for i := range n {
		a, b := pts[i], pts[(i+1)%n]
		if strokeSegment(a.X, a.Y, b.X, b.Y, c, width, height, out) {
			drawn++
		}
	}
	return drawn
}

// DrawLine3D projects a world-space segment through viewProj and draws
// it. Segments with an endpoint behind the camera are skipped.
func DrawLine3D(viewProj math3d.Mat4, p0, p1 math3d.Vec3, c Color, width, height int, out PixelWriter) bool {
	c0 := viewProj.MulVec4(math3d.V4FromV3(p0, 1))
	c1 := viewProj.MulVec4(math3d.V4FromV3(p1, 1))
	if c0.W <= 0 || c1.W <= 0 {
		return false
	}
	a := NDCToScreen(c0.PerspectiveDivide(), width, height)
	b := NDCToScreen(c1.PerspectiveDivide(), width, height)
	return strokeSegment(a.X, a.Y, b.X, b.Y, c, width, height, out)
}

// DrawAxes draws the world X, Y and Z axes from the origin in red, green
// and blue.
func DrawAxes(viewProj math3d.Mat4, length float64, width, height int, out PixelWriter) {
	origin := math3d.Vec3{}
	DrawLine3D(viewProj, origin, math3d.V3(length, 0, 0), ColorRed, width, height, out)
	DrawLine3D(viewProj, origin, math3d.V3(0, length, 0), ColorGreen, width, height, out)
	DrawLine3D(viewProj, origin, math3d.V3(0, 0, length), ColorBlue, width, height, out)
}

func strokeSegment(x0, y0, x1, y1 float64, c Color, width, height int, out PixelWriter) bool {
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, float64(width), float64(height))
	if !ok {
		return false
	}
	drawLine(out, pixel(x0, width), pixel(y0, height), pixel(x1, width), pixel(y1, height), c)
	return true
}

func pixel(v float64, size int) int {
	return min(max(int(math.Floor(v)), 0), size-1)
}

// clipSegment clips a segment to [0, w]×[0, h] with the Liang-Barsky
// algorithm.
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	for _, v := range [...]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, w - x0},
		{-dy, y0},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
