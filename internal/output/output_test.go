package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mj1618/scoopick/internal/model"
	"gopkg.in/yaml.v3"
)

var testPoints = PointsResult{
	File: "points.json",
	Points: []model.Point{
		{Idx: 0, Name: "Play", X: 10, Y: 20, Color: model.RGB(0, 255, 0)},
		{Idx: 1, Name: "Quit", X: -1, Y: -1, Color: model.RGB(255, 0, 0)},
	},
}

func TestPrint_YAMLToStdout(t *testing.T) {
	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	OutputFormat = FormatYAML
	err := Print(testPoints)
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded PointsResult
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.File != "points.json" {
		t.Errorf("file: got %q", decoded.File)
	}
	if len(decoded.Points) != 2 || decoded.Points[0].Color != model.RGB(0, 255, 0) {
		t.Errorf("points did not round trip: %+v", decoded.Points)
	}
}

func TestFprint_JSONCompactAndPretty(t *testing.T) {
	defer func() { OutputFormat, PrettyOutput = FormatYAML, false }()
	OutputFormat = FormatJSON

	var buf bytes.Buffer
	if err := Fprint(&buf, testPoints); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 1 {
		t.Errorf("compact JSON should be a single line, got %d newlines", n)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	buf.Reset()
	PrettyOutput = true
	if err := Fprint(&buf, testPoints); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("pretty JSON should be indented:\n%s", buf.String())
	}
}

func TestActionResult_OmitEmpty(t *testing.T) {
	data, err := yaml.Marshal(ActionResult{OK: true, Action: "clear"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"point", "file", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("empty %s should be omitted", key)
		}
	}
	if _, ok := m["ok"]; !ok {
		t.Error("ok should always be present")
	}
}

func TestNewSample(t *testing.T) {
	s := NewSample(model.Point{Idx: 3, Name: "Tile", X: 4, Y: 5}, model.RGB(83, 141, 78))
	if s.Hex != "#538d4e" || s.Idx != 3 || s.X != 4 {
		t.Errorf("sample = %+v", s)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml should be rejected")
	}
}
