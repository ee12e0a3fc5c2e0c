package render

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Texture is a decoded RGBA image, row-major with (0, 0) at the top left.
// It is not modified after creation.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates a blank texture.
func NewTexture(name string, width, height int) *Texture {
	return &Texture{
		Name:   name,
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes an image file into a texture named after the file.
func LoadTexture(path string) (*Texture, error) {
	img, err := OpenImage(path)
	if err != nil {
		return nil, err
	}
	tex := TextureFromImage(img)
	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("load texture %q: %w", path, ErrEmptyTexture)
	}
	tex.Name = filepath.Base(path)
	return tex, nil
}

// TextureFromImage converts any image into a texture.
func TextureFromImage(img image.Image) *Texture {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	tex := NewTexture("", b.Dx(), b.Dy())
	for y := range tex.Height {
		row := rgba.Pix[y*rgba.Stride:]
		for x := range tex.Width {
			p := row[x*4 : x*4+4]
			tex.Pixels[y*tex.Width+x] = Color{p[0], p[1], p[2], p[3]}
		}
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture("checker", width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Pixels[y*width+x] = c1
			} else {
				tex.Pixels[y*width+x] = c2
			}
		}
	}
	return tex
}

// GetPixel returns the texel at (x, y), or transparent black out of bounds.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the nearest texel for uv. Coordinates repeat outside
// [0, 1) and V runs bottom to top.
func (t *Texture) Sample(uv math3d.Vec2) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	w := uv.Wrap()
	x := int(w.X * float64(t.Width-1))
	y := int((1 - w.Y) * float64(t.Height-1))
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}
