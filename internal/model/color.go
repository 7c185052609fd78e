package model

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an RGB triple. It serializes as a three element array.
type Color [3]uint8

// DefaultColor is the indicator color of points created without one.
var DefaultColor = Color{255, 0, 0}

// RGB builds a Color from channel values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// ColorOf converts any color.Color, dropping alpha.
func ColorOf(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// RGBA returns the opaque color.RGBA equivalent.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// Hex formats the color as rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("%02x%02x%02x", c[0], c[1], c[2])
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c[0], c[1], c[2])
}

// Distance is the sum of absolute per-channel differences.
func Distance(a, b Color) int {
	d := 0
	for i := 0; i < 3; i++ {
		diff := int(a[i]) - int(b[i])
		if diff < 0 {
			diff = -diff
		}
		d += diff
	}
	return d
}

// ParseColor accepts "r,g,b" or a hex string with an optional leading '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return Color{}, fmt.Errorf("invalid color %q: expected r,g,b", s)
		}
		var c Color
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || v < 0 || v > 255 {
				return Color{}, fmt.Errorf("invalid color %q: channel %d out of range", s, i)
			}
			c[i] = uint8(v)
		}
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: expected r,g,b or rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}
