package annotate

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mj1618/scoopick/internal/model"
)

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}
	return img
}

func TestPoints_DrawsCrosshairInPointColor(t *testing.T) {
	src := blank(100, 100)
	pts := []model.Point{
		{Idx: 0, Name: "A", X: 50, Y: 50, Color: model.RGB(0, 255, 0)},
		{Idx: 1, Name: "B", X: -1, Y: -1, Color: model.RGB(255, 0, 0)},
	}
	out := Points(src, pts, LabelNone)

	if got := model.ColorOf(out.At(50, 50)); got != model.RGB(0, 255, 0) {
		t.Errorf("center = %v, want green", got)
	}
	if got := model.ColorOf(out.At(50+CrossArm, 50)); got != model.RGB(0, 255, 0) {
		t.Errorf("arm end = %v, want green", got)
	}
	if got := model.ColorOf(out.At(10, 10)); got != model.RGB(40, 40, 40) {
		t.Errorf("untouched pixel = %v", got)
	}
	if got := model.ColorOf(src.At(50, 50)); got != model.RGB(40, 40, 40) {
		t.Error("source image must not be modified")
	}
}

func TestPoints_NearEdgeDoesNotPanic(t *testing.T) {
	pts := []model.Point{{Name: "Corner point with a long label", X: 0, Y: 0, Color: model.DefaultColor}}
	out := Points(blank(5, 5), pts, LabelCoords)
	if out.Bounds().Dx() != 5 {
		t.Errorf("bounds changed: %v", out.Bounds())
	}
}

func TestPoints_LabelDrawsText(t *testing.T) {
	pts := []model.Point{{Name: "Play", X: 10, Y: 30, Color: model.DefaultColor}}
	out := Points(blank(100, 60), pts, LabelNames)
	white := 0
	for x := 20; x < 100; x++ {
		for y := 15; y < 40; y++ {
			if model.ColorOf(out.At(x, y)) == model.RGB(255, 255, 255) {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("expected label pixels to the right of the crosshair")
	}
}

func TestScale(t *testing.T) {
	img := blank(200, 100)
	out := Scale(img, 0.5)
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("scaled bounds = %v", b)
	}
	if Scale(img, 1) != image.Image(img) {
		t.Error("factor 1 should return the input")
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, blank(4, 4), "png", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	buf.Reset()
	if err := Encode(&buf, blank(4, 4), "jpg", 50); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&buf, blank(4, 4), "bmp", 0); err == nil {
		t.Error("bmp should be rejected")
	}
	if MIMEType("jpg") != "image/jpeg" || MIMEType("png") != "image/png" {
		t.Error("unexpected mime types")
	}
}

func TestParseLabelMode(t *testing.T) {
	for in, want := range map[string]LabelMode{"": LabelNames, "coords": LabelCoords, "idx": LabelIdx, "none": LabelNone} {
		got, err := ParseLabelMode(in)
		if err != nil || got != want {
			t.Errorf("ParseLabelMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLabelMode("bogus"); err == nil {
		t.Error("expected error")
	}
}
