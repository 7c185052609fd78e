package model

import (
	"fmt"
	"image"
)

// Unset is the coordinate value of a point whose position has not been picked.
const Unset = -1

// Point is a named screen coordinate in the pixel space of a captured screenshot.
type Point struct {
	Idx   int    `json:"idx"   yaml:"idx"`
	Name  string `json:"name"  yaml:"name"`
	X     int    `json:"x"     yaml:"x"`
	Y     int    `json:"y"     yaml:"y"`
	Color Color  `json:"color" yaml:"color"` // Indicator color, only used for rendering
}

// NewPoint returns an unset point with the default indicator color.
func NewPoint(name string) Point {
	return Point{Name: name, X: Unset, Y: Unset, Color: DefaultColor}
}

// IsSet reports whether both coordinates have been picked.
func (p Point) IsSet() bool {
	return p.X >= 0 && p.Y >= 0
}

// Pos returns the position as an image.Point.
func (p Point) Pos() image.Point {
	return image.Pt(p.X, p.Y)
}

// Cleared returns a copy of p with its position reset to Unset.
func (p Point) Cleared() Point {
	p.X, p.Y = Unset, Unset
	return p
}

func (p Point) String() string {
	if !p.IsSet() {
		return fmt.Sprintf("%s (not set)", p.Name)
	}
	return fmt.Sprintf("%s (%d, %d)", p.Name, p.X, p.Y)
}

// FindByName returns the first point with the given name.
func FindByName(points []Point, name string) (Point, bool) {
	for _, p := range points {
		if p.Name == name {
			return p, true
		}
	}
	return Point{}, false
}
