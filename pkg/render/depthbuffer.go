package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when a buffer is asked for non-positive or
// unallocatable dimensions.
var ErrInvalidSize = errors.New("invalid buffer size")

// maxBufferCells bounds width*height so the backing slice length cannot
// overflow int on any platform.
const maxBufferCells = 1 << 28

// DepthBuffer holds one depth value per pixel in row-major order. Cells
// start at +Inf; smaller values are closer to the viewer.
type DepthBuffer struct {
	width, height int
	depth         []float64
}

// NewDepthBuffer allocates a cleared width×height buffer.
func NewDepthBuffer(width, height int) (*DepthBuffer, error) {
	db := &DepthBuffer{}
	if err := db.Resize(width, height); err != nil {
		return nil, err
	}
	return db, nil
}

func checkSize(width, height int) error {
	if width <= 0 || height <= 0 || width > maxBufferCells/height {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	return nil
}

// Width returns the buffer width in pixels.
func (db *DepthBuffer) Width() int { return db.width }

// Height returns the buffer height in pixels.
func (db *DepthBuffer) Height() int { return db.height }

// Clear resets every cell to +Inf.
func (db *DepthBuffer) Clear() {
	n := len(db.depth)
	if n == 0 {
		return
	}
	db.depth[0] = math.Inf(1)
	for i := 1; i < n; i *= 2 {
		copy(db.depth[i:], db.depth[:i])
	}
}

// Resize reallocates and clears the buffer when the dimensions differ from
// the current ones. Matching dimensions leave contents untouched.
func (db *DepthBuffer) Resize(width, height int) error {
	if width == db.width && height == db.height && db.depth != nil {
		return nil
	}
	if err := checkSize(width, height); err != nil {
		return err
	}
	db.width, db.height = width, height
	db.depth = make([]float64, width*height)
	db.Clear()
	Logger().Debug("depth buffer resized", "width", width, "height", height)
	return nil
}

// At returns the stored depth at (x, y), or +Inf outside the buffer.
func (db *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= db.width || y < 0 || y >= db.height {
		return math.Inf(1)
	}
	return db.depth[y*db.width+x]
}

// TestAndSet stores depth at (x, y) and returns true when it is strictly
// closer than the current value. Out-of-bounds coordinates and ties return
// false, so the first fragment at a given depth wins.
func (db *DepthBuffer) TestAndSet(x, y int, depth float64) bool {
	if x < 0 || x >= db.width || y < 0 || y >= db.height {
		return false
	}
	i := y*db.width + x
	// written as !(<) so NaN depths are rejected too
	if !(depth < db.depth[i]) {
		return false
	}
	db.depth[i] = depth
	return true
}
