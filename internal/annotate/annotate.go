// Package annotate draws point markers onto screenshots and prepares images
// for output.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/mj1618/scoopick/internal/model"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelMode controls what text is drawn next to each point.
type LabelMode int

const (
	// LabelNames draws the point name.
	LabelNames LabelMode = iota
	// LabelCoords draws "(x,y)".
	LabelCoords
	// LabelIdx draws "[idx]".
	LabelIdx
	// LabelNone draws only the crosshair.
	LabelNone
)

// ParseLabelMode accepts name, coords, idx or none.
func ParseLabelMode(s string) (LabelMode, error) {
	switch strings.ToLower(s) {
	case "name", "names", "":
		return LabelNames, nil
	case "coords":
		return LabelCoords, nil
	case "idx", "ids":
		return LabelIdx, nil
	case "none":
		return LabelNone, nil
	default:
		return LabelNames, fmt.Errorf("unknown label mode %q (expected name, coords, idx, or none)", s)
	}
}

// CrossArm is the half length of a crosshair in pixels.
const CrossArm = 10

var (
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Points draws a crosshair in each set point's indicator color plus a label.
// Unset points are skipped. The input image is not modified.
func Points(img image.Image, points []model.Point, mode LabelMode) *image.RGBA {
	rgba := ToRGBA(img)
	origin := rgba.Bounds().Min
	for _, p := range points {
		if !p.IsSet() {
			continue
		}
		x, y := origin.X+p.X, origin.Y+p.Y
		drawCrosshair(rgba, x, y, p.Color.RGBA())

		var label string
		switch mode {
		case LabelNames:
			label = p.Name
		case LabelCoords:
			label = fmt.Sprintf("(%d,%d)", p.X, p.Y)
		case LabelIdx:
			label = fmt.Sprintf("[%d]", p.Idx)
		}
		if label != "" {
			drawTextWithOutline(rgba, label, x+CrossArm+2, y-CrossArm, textColor, outlineColor)
		}
	}
	return rgba
}

// ToRGBA converts any image to RGBA
func ToRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// Scale resizes img by factor. Factors outside (0, 1) return img unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		return img
	}
	b := img.Bounds()
	w, h := int(float64(b.Dx())*factor), int(float64(b.Dy())*factor)
	if w < 1 || h < 1 {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Encode writes img as png or jpg.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch strings.ToLower(format) {
	case "png", "":
		return png.Encode(w, img)
	case "jpg", "jpeg":
		if quality < 1 || quality > 100 {
			quality = 80
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("unsupported image format %q (expected png or jpg)", format)
	}
}

// MIMEType returns the content type Encode produces for format.
func MIMEType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "image/png"
	}
}

func drawCrosshair(img *image.RGBA, x, y int, c color.Color) {
	// outline first so the colored arms stay visible on any background
	for d := -1; d <= 1; d += 2 {
		drawLine(img, x-CrossArm, y+d, x+CrossArm, y+d, outlineColor)
		drawLine(img, x+d, y-CrossArm, x+d, y+CrossArm, outlineColor)
	}
	drawLine(img, x-CrossArm, y, x+CrossArm, y, c)
	drawLine(img, x, y-CrossArm, x, y+CrossArm, c)
}

// drawLine draws a horizontal or vertical line, clipped to the image.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			if image.Pt(x, y).In(bounds) {
				img.Set(x, y, c)
			}
		}
	}
}

// drawTextWithOutline draws text with its top-left corner near (x, y).
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	// basicfont.Face7x13 ascent
	baseline := y + 11

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, x+dx, baseline+dy, outlineColor)
		}
	}
	drawString(img, text, x, baseline, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
