package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock shows the top pixel as foreground and the bottom as background.
const halfBlock = "▀"

// Draw presents the framebuffer on a terminal screen. Each cell in area
// shows two stacked pixels, so the framebuffer should be area.Dx() wide
// and 2*area.Dy() tall. Pixel (0, 0) lands in the top-left cell of area.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, topY+1)),
				},
			})
		}
	}
}

// DrawText writes a single line of text starting at (x, y), clipped to the
// screen bounds.
func DrawText(scr uv.Screen, x, y int, text string, fg, bg Color) {
	bounds := scr.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	style := uv.Style{Fg: cellColor(fg), Bg: cellColor(bg)}
	for _, r := range text {
		if x >= bounds.Max.X {
			return
		}
		if x >= bounds.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
}

// cellColor maps fully transparent pixels to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
