package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/mj1618/scoopick/internal/script/scripttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeScreen struct {
	calls int
	img   image.Image
}

func (f *fakeScreen) Capture(_ context.Context, _ platform.CaptureOptions) (image.Image, error) {
	f.calls++
	return f.img, nil
}

type fixture struct {
	srv    *Server
	screen *fakeScreen
	pixels *scripttest.Pixels
	input  *scripttest.Input
	pts    *points.Collection
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		screen: &fakeScreen{img: image.NewRGBA(image.Rect(0, 0, 200, 100))},
		pixels: scripttest.NewPixels(),
		input:  &scripttest.Input{},
		pts:    points.NewDefault(),
	}
	provider := &platform.Provider{Inputter: f.input, Pixels: f.pixels, Screenshotter: f.screen, Capture: "fake"}
	host := script.NewHost(script.Deps{Input: f.input, Pixels: f.pixels})
	cfg := Config{Transport: "stdio", CacheTTL: ttl, PointsFile: filepath.Join(t.TempDir(), "points.json")}
	f.srv = New(cfg, provider, f.pts, host, nil)
	return f
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestListPoints(t *testing.T) {
	f := newFixture(t, 0)
	res := call(t, f.srv.handleListPoints, nil)
	require.False(t, res.IsError)

	var got output.PointsResult
	require.NoError(t, yaml.Unmarshal([]byte(text(t, res)), &got))
	assert.Len(t, got.Points, len(points.DefaultPoints))
	assert.Equal(t, "Point 1", got.Points[0].Name)
}

func TestPointLifecycle(t *testing.T) {
	f := newFixture(t, 0)

	res := call(t, f.srv.handleAddPoint, map[string]interface{}{"name": "Play", "x": 10.0, "y": 20.0, "color": "0,0,255"})
	require.False(t, res.IsError, text(t, res))
	p, err := f.pts.At(6)
	require.NoError(t, err)
	assert.Equal(t, model.Point{Idx: 6, Name: "Play", X: 10, Y: 20, Color: model.RGB(0, 0, 255)}, p)

	res = call(t, f.srv.handleSetPoint, map[string]interface{}{"name": "Play", "x": 30.0, "rename": "Start"})
	require.False(t, res.IsError, text(t, res))
	p, _ = f.pts.At(6)
	assert.Equal(t, "Start", p.Name)
	assert.Equal(t, 30, p.X)
	assert.Equal(t, 20, p.Y, "unspecified coordinates are kept")

	res = call(t, f.srv.handleClearPoint, map[string]interface{}{"idx": 6.0})
	require.False(t, res.IsError)
	p, _ = f.pts.At(6)
	assert.False(t, p.IsSet())

	res = call(t, f.srv.handleRemovePoint, map[string]interface{}{"idx": 0.0})
	require.False(t, res.IsError)
	assert.Equal(t, 6, f.pts.Len())
	p, _ = f.pts.At(5)
	assert.Equal(t, "Start", p.Name, "later points are re-indexed")
}

func TestPointErrors(t *testing.T) {
	f := newFixture(t, 0)
	assert.True(t, call(t, f.srv.handleSetPoint, map[string]interface{}{"name": "missing"}).IsError)
	assert.True(t, call(t, f.srv.handleClearPoint, map[string]interface{}{"idx": 42.0}).IsError)
	assert.True(t, call(t, f.srv.handleRemovePoint, nil).IsError)
	assert.True(t, call(t, f.srv.handleAddPoint, map[string]interface{}{"name": "x", "color": "nope"}).IsError)
	assert.True(t, call(t, f.srv.handleAddPoint, nil).IsError)
}

func TestSaveAndLoadPoints(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.pts.UpdatePosition(0, 5, 6))
	require.False(t, call(t, f.srv.handleSavePoints, nil).IsError)

	f.pts.Remove(f.pts.Points()...)
	res := call(t, f.srv.handleLoadPoints, nil)
	require.False(t, res.IsError, text(t, res))
	p, err := f.pts.At(0)
	require.NoError(t, err)
	assert.Equal(t, 5, p.X)

	res = call(t, f.srv.handleLoadPoints, map[string]interface{}{"path": filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, res.IsError)
}

func TestMapCoords(t *testing.T) {
	f := newFixture(t, 0)
	res := call(t, f.srv.handleMapCoords, map[string]interface{}{
		"image_width": 1920.0, "image_height": 1080.0,
		"display_width": 800.0, "display_height": 600.0,
		"x": 400.0, "y": 200.0,
	})
	var got output.MapResult
	require.NoError(t, yaml.Unmarshal([]byte(text(t, res)), &got))
	require.NotNil(t, got.ImagePoint)
	assert.Equal(t, [2]int{960, 540}, *got.ImagePoint)
	assert.False(t, got.Outside)

	res = call(t, f.srv.handleMapCoords, map[string]interface{}{
		"image_width": 1920.0, "image_height": 1080.0,
		"display_width": 800.0, "display_height": 600.0,
		"x": 400.0, "y": 10.0,
	})
	got = output.MapResult{}
	require.NoError(t, yaml.Unmarshal([]byte(text(t, res)), &got))
	assert.True(t, got.Outside)
}

func TestScreenshot_AnnotatedAndCached(t *testing.T) {
	f := newFixture(t, time.Minute)
	require.NoError(t, f.pts.UpdatePosition(0, 50, 50))

	res := call(t, f.srv.handleScreenshot, map[string]interface{}{"scale": 1.0})
	require.False(t, res.IsError)
	ic, ok := res.Content[0].(mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", ic.MIMEType)

	data, err := base64.StdEncoding.DecodeString(ic.Data)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, points.DefaultPoints[0].Color, model.ColorOf(img.At(50, 50)))

	call(t, f.srv.handleScreenshot, nil)
	assert.Equal(t, 1, f.screen.calls, "second capture within TTL is served from cache")
}

func TestSamplePixels(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.pts.UpdatePosition(1, 3, 4))
	f.pixels.Set(3, 4, model.RGB(83, 141, 78))

	res := call(t, f.srv.handleSamplePixels, nil)
	var got []output.Sample
	require.NoError(t, yaml.Unmarshal([]byte(text(t, res)), &got))
	require.Len(t, got, 1, "unset points are skipped")
	assert.Equal(t, "#538d4e", got[0].Hex)
	assert.Equal(t, 1, got[0].Idx)
}

func TestRunScript(t *testing.T) {
	script.Register("server-test-capture", "captures twice", 0, func(d script.Deps) (script.Script, error) {
		return script.Func(func(_ context.Context, pts []model.Point, capture script.CaptureFunc) error {
			if _, err := capture(); err != nil {
				return err
			}
			_, err := capture()
			return err
		}), nil
	})
	f := newFixture(t, time.Minute)

	res := call(t, f.srv.handleRunScript, map[string]interface{}{"script": "server-test-capture"})
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "server-test-capture")
	assert.Equal(t, 2, f.screen.calls, "script captures always bypass the cache")

	res = call(t, f.srv.handleListScripts, nil)
	assert.Contains(t, text(t, res), "loaded:")
}

func TestRunScript_NothingLoaded(t *testing.T) {
	f := newFixture(t, 0)
	res := call(t, f.srv.handleRunScript, nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), script.ErrNotLoaded.Error())
}

func TestCaptureCache_TTL(t *testing.T) {
	screen := &fakeScreen{img: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	now := time.Unix(0, 0)
	c := NewCaptureCache(time.Second)
	c.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := c.Capture(context.Background(), screen)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, screen.calls)

	now = now.Add(2 * time.Second)
	_, _ = c.Capture(context.Background(), screen)
	assert.Equal(t, 2, screen.calls)

	c.Invalidate()
	_, _ = c.Capture(context.Background(), screen)
	assert.Equal(t, 3, screen.calls)

	off := NewCaptureCache(0)
	_, _ = off.Capture(context.Background(), screen)
	_, _ = off.Capture(context.Background(), screen)
	assert.Equal(t, 5, screen.calls)
}

func TestServe_UnknownTransport(t *testing.T) {
	f := newFixture(t, 0)
	f.srv.cfg.Transport = "carrier-pigeon"
	assert.Error(t, f.srv.Serve(context.Background()))
}
