package mapper

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit_HeightBound(t *testing.T) {
	m := New(image.Pt(1920, 1080), image.Pt(800, 400))
	scale, offX, offY := m.Fit()
	assert.InDelta(t, 0.3704, scale, 0.0001)
	assert.InDelta(t, 44.44, offX, 0.01)
	assert.Zero(t, offY)
}

func TestFit_WidthBound(t *testing.T) {
	m := New(image.Pt(1000, 500), image.Pt(500, 500))
	scale, offX, offY := m.Fit()
	assert.Equal(t, 0.5, scale)
	assert.Zero(t, offX)
	assert.Equal(t, 125.0, offY)
}

func TestToImage_CenterMapsToImageCenter(t *testing.T) {
	m := New(image.Pt(1920, 1080), image.Pt(800, 400))
	assert.Equal(t, image.Pt(960, 540), m.ToImage(400, 200))
}

func TestToImage_NoScreenshot(t *testing.T) {
	var m Mapper
	assert.Equal(t, Outside, m.ToImage(10, 10))
	m = New(image.Pt(0, 0), image.Pt(800, 400))
	assert.Equal(t, Outside, m.ToImage(400, 200))
	_, _, ok := m.ToDisplay(image.Pt(1, 1))
	assert.False(t, ok)
}

func TestToImage_LetterboxBarsAreOutside(t *testing.T) {
	m := New(image.Pt(1920, 1080), image.Pt(800, 400))
	for _, x := range []float64{0, 10, 44, 44.3, 756, 799} {
		assert.Equal(t, Outside, m.ToImage(x, 200), "x=%v", x)
	}
	vert := New(image.Pt(1000, 500), image.Pt(500, 500))
	for _, y := range []float64{0, 124.9, 375, 499} {
		assert.Equal(t, Outside, vert.ToImage(250, y), "y=%v", y)
	}
	assert.Equal(t, Outside, m.ToImage(-5, 200))
	assert.Equal(t, Outside, m.ToImage(400, 401))
}

func TestToImage_Corners(t *testing.T) {
	m := New(image.Pt(1000, 500), image.Pt(500, 500))
	assert.Equal(t, image.Pt(0, 0), m.ToImage(0, 125))
	assert.Equal(t, image.Pt(999, 499), m.ToImage(499.9, 374.9))
}

func TestRoundTrip(t *testing.T) {
	cases := []struct{ img, disp image.Point }{
		{image.Pt(1920, 1080), image.Pt(800, 400)},
		{image.Pt(1000, 500), image.Pt(500, 500)},
		{image.Pt(640, 480), image.Pt(1280, 960)},
		{image.Pt(2560, 1440), image.Pt(333, 777)},
		{image.Pt(300, 300), image.Pt(300, 300)},
	}
	for _, tc := range cases {
		m := New(tc.img, tc.disp)
		for _, p := range []image.Point{{0, 0}, {tc.img.X / 2, tc.img.Y / 3}, {tc.img.X - 1, tc.img.Y - 1}, {17, 5}} {
			dx, dy, ok := m.ToDisplay(p)
			require.True(t, ok)
			back := m.ToImage(dx, dy)
			require.NotEqual(t, Outside, back, "img=%v disp=%v p=%v", tc.img, tc.disp, p)
			assert.LessOrEqual(t, math.Abs(float64(back.X-p.X)), 1.0, "x for %v", p)
			assert.LessOrEqual(t, math.Abs(float64(back.Y-p.Y)), 1.0, "y for %v", p)
		}
	}
}

func TestToDisplay_UnsetPoint(t *testing.T) {
	m := New(image.Pt(100, 100), image.Pt(100, 100))
	_, _, ok := m.ToDisplay(image.Pt(-1, -1))
	assert.False(t, ok)
	x, y, ok := m.ToDisplay(image.Pt(10, 20))
	assert.True(t, ok)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 20.0, y)
}

func TestVisible(t *testing.T) {
	m := New(image.Pt(1000, 500), image.Pt(500, 500))
	assert.Equal(t, image.Rect(0, 125, 500, 375), m.Visible())
	assert.Equal(t, image.Rectangle{}, Mapper{}.Visible())
}
