// Package mapper converts between screenshot pixels and positions inside a
// display area the screenshot is letterboxed into.
package mapper

import (
	"image"
	"math"
)

// eps absorbs floating point error so exact pixel boundaries do not truncate
// to the previous pixel.
const eps = 1e-9

// Outside is returned for positions that do not land on the screenshot.
var Outside = image.Pt(-1, -1)

// Mapper describes a screenshot of size Image drawn into an area of size
// Display, scaled to fit while preserving aspect ratio and centered.
type Mapper struct {
	Image   image.Point
	Display image.Point
}

// New returns a Mapper for the given image and display sizes.
func New(imageSize, displaySize image.Point) Mapper {
	return Mapper{Image: imageSize, Display: displaySize}
}

// Empty reports whether there is nothing to map against.
func (m Mapper) Empty() bool {
	return m.Image.X <= 0 || m.Image.Y <= 0 || m.Display.X <= 0 || m.Display.Y <= 0
}

// Fit returns the uniform scale and the centering offset on each axis.
// Exactly one axis has a zero offset unless the aspect ratios match.
func (m Mapper) Fit() (scale, offX, offY float64) {
	if m.Empty() {
		return 0, 0, 0
	}
	iw, ih := float64(m.Image.X), float64(m.Image.Y)
	dw, dh := float64(m.Display.X), float64(m.Display.Y)
	scale = math.Min(dw/iw, dh/ih)
	offX = (dw - iw*scale) / 2
	offY = (dh - ih*scale) / 2
	return scale, offX, offY
}

// ToImage maps a display position to screenshot pixels. Positions in the
// letterbox bars, outside the area, or with no screenshot yield Outside.
func (m Mapper) ToImage(x, y float64) image.Point {
	if m.Empty() {
		return Outside
	}
	scale, offX, offY := m.Fit()
	ix := math.Floor((x-offX)/scale + eps)
	iy := math.Floor((y-offY)/scale + eps)
	if ix < 0 || iy < 0 || ix >= float64(m.Image.X) || iy >= float64(m.Image.Y) {
		return Outside
	}
	return image.Pt(int(ix), int(iy))
}

// ToDisplay maps screenshot pixels to a display position. ok is false when
// there is no screenshot or p is not a picked position.
func (m Mapper) ToDisplay(p image.Point) (x, y float64, ok bool) {
	if m.Empty() || p.X < 0 || p.Y < 0 {
		return 0, 0, false
	}
	scale, offX, offY := m.Fit()
	return float64(p.X)*scale + offX, float64(p.Y)*scale + offY, true
}

// Visible returns the display rectangle actually covered by the screenshot.
func (m Mapper) Visible() image.Rectangle {
	if m.Empty() {
		return image.Rectangle{}
	}
	scale, offX, offY := m.Fit()
	return image.Rect(
		int(math.Ceil(offX)), int(math.Ceil(offY)),
		int(offX+float64(m.Image.X)*scale), int(offY+float64(m.Image.Y)*scale),
	)
}
