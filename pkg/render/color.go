package render

import "image/color"

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack     = color.RGBA{0, 0, 0, 255}
	ColorWhite     = color.RGBA{255, 255, 255, 255}
	ColorRed       = color.RGBA{255, 0, 0, 255}
	ColorGreen     = color.RGBA{0, 255, 0, 255}
	ColorBlue      = color.RGBA{0, 0, 255, 255}
	ColorGray      = color.RGBA{128, 128, 128, 255}
	ColorLightBlue = color.RGBA{128, 179, 255, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA creates a color with alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

// Shade scales the RGB channels by intensity, clamped to [0, 1], and keeps
// alpha unchanged.
func Shade(c Color, intensity float64) Color {
	intensity = min(max(intensity, 0), 1)
	return Color{
		R: uint8(float64(c.R) * intensity),
		G: uint8(float64(c.G) * intensity),
		B: uint8(float64(c.B) * intensity),
		A: c.A,
	}
}
