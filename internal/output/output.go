package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/scoopick/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s (expected yaml or json)", s)
	}
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// PointsResult lists points, optionally with the file they came from.
type PointsResult struct {
	File   string        `yaml:"file,omitempty" json:"file,omitempty"`
	Points []model.Point `yaml:"points"         json:"points"`
}

// ActionResult reports a single mutation or action.
type ActionResult struct {
	OK     bool         `yaml:"ok"               json:"ok"`
	Action string       `yaml:"action"           json:"action"`
	Point  *model.Point `yaml:"point,omitempty"  json:"point,omitempty"`
	File   string       `yaml:"file,omitempty"   json:"file,omitempty"`
	Error  string       `yaml:"error,omitempty"  json:"error,omitempty"`
}

// Sample is the live color under one point.
type Sample struct {
	Idx   int         `yaml:"idx"             json:"idx"`
	Name  string      `yaml:"name"            json:"name"`
	X     int         `yaml:"x"               json:"x"`
	Y     int         `yaml:"y"               json:"y"`
	Color model.Color `yaml:"color,flow"      json:"color"`
	Hex   string      `yaml:"hex"             json:"hex"`
	Error string      `yaml:"error,omitempty" json:"error,omitempty"`
}

// NewSample builds a Sample from a point and the color read under it.
func NewSample(p model.Point, c model.Color) Sample {
	return Sample{Idx: p.Idx, Name: p.Name, X: p.X, Y: p.Y, Color: c, Hex: "#" + c.Hex()}
}

// MapResult is one coordinate conversion between screenshot pixels and a
// display area the screenshot is letterboxed into.
type MapResult struct {
	Image        [2]int      `yaml:"image,flow"                   json:"image"`
	Display      [2]int      `yaml:"display,flow"                 json:"display"`
	Input        [2]float64  `yaml:"input,flow"                   json:"input"`
	ImagePoint   *[2]int     `yaml:"image_point,flow,omitempty"   json:"image_point,omitempty"`
	DisplayPoint *[2]float64 `yaml:"display_point,flow,omitempty" json:"display_point,omitempty"`
	Outside      bool        `yaml:"outside"                      json:"outside"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v as single-line JSON, or indented when pretty.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
