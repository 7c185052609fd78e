package model

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestPoint_String(t *testing.T) {
	tests := []struct {
		p    Point
		want string
	}{
		{Point{Name: "Play", X: 10, Y: 20}, "Play (10, 20)"},
		{Point{Name: "Play", X: 0, Y: 0}, "Play (0, 0)"},
		{Point{Name: "Play", X: -1, Y: 20}, "Play (not set)"},
		{Point{Name: "Play", X: 10, Y: -1}, "Play (not set)"},
		{NewPoint("Fresh"), "Fresh (not set)"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestNewPoint_Defaults(t *testing.T) {
	p := NewPoint("A")
	if p.IsSet() {
		t.Error("new point should not be set")
	}
	if p.Color != DefaultColor {
		t.Errorf("color = %v, want %v", p.Color, DefaultColor)
	}
}

func TestPoint_Cleared(t *testing.T) {
	p := Point{Idx: 2, Name: "A", X: 5, Y: 6, Color: RGB(1, 2, 3)}
	c := p.Cleared()
	if c.IsSet() {
		t.Error("cleared point should not be set")
	}
	if c.Idx != 2 || c.Name != "A" || c.Color != RGB(1, 2, 3) {
		t.Errorf("cleared changed other fields: %+v", c)
	}
	if !p.IsSet() {
		t.Error("Cleared must not modify the receiver")
	}
}

func TestPoint_JSONShape(t *testing.T) {
	p := Point{Idx: 0, Name: "A", X: 1, Y: 2, Color: RGB(0, 255, 0)}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"idx", "name", "x", "y", "color"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected key %q in JSON output", key)
		}
	}
	arr, ok := m["color"].([]interface{})
	if !ok || len(arr) != 3 {
		t.Fatalf("color should be a 3 element array, got %v", m["color"])
	}
	if arr[1].(float64) != 255 {
		t.Errorf("green channel = %v, want 255", arr[1])
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(RGB(158, 116, 206), RGB(158, 116, 206)); d != 0 {
		t.Errorf("identical colors distance = %d", d)
	}
	if d := Distance(RGB(10, 20, 30), RGB(20, 10, 35)); d != 25 {
		t.Errorf("distance = %d, want 25", d)
	}
	if d := Distance(RGB(0, 0, 0), RGB(255, 255, 255)); d != 765 {
		t.Errorf("max distance = %d, want 765", d)
	}
}

func TestColorOf(t *testing.T) {
	c := ColorOf(color.RGBA{R: 83, G: 141, B: 78, A: 255})
	if c != RGB(83, 141, 78) {
		t.Errorf("ColorOf = %v", c)
	}
	if c.RGBA() != (color.RGBA{R: 83, G: 141, B: 78, A: 255}) {
		t.Errorf("RGBA round trip = %v", c.RGBA())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"158,116,206", RGB(158, 116, 206)},
		{" 1, 2 , 3 ", RGB(1, 2, 3)},
		{"#538d4e", RGB(83, 141, 78)},
		{"ff00ff", RGB(255, 0, 255)},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "1,2", "1,2,300", "zzzzzz", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestFindByName(t *testing.T) {
	pts := []Point{{Idx: 0, Name: "A"}, {Idx: 1, Name: "B"}}
	p, ok := FindByName(pts, "B")
	if !ok || p.Idx != 1 {
		t.Errorf("FindByName(B) = %+v, %v", p, ok)
	}
	if _, ok := FindByName(pts, "C"); ok {
		t.Error("FindByName(C) should miss")
	}
}
