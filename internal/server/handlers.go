package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/scoopick/internal/annotate"
	"github.com/mj1618/scoopick/internal/mapper"
	"github.com/mj1618/scoopick/internal/model"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// textResult serializes v to YAML for an MCP response.
func textResult(v interface{}) *mcp.CallToolResult {
	b, err := yaml.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("yaml encode: %v", err))
	}
	return mcp.NewToolResultText(string(b))
}

func errorResult(action string, err error) *mcp.CallToolResult {
	b, _ := yaml.Marshal(output.ActionResult{OK: false, Action: action, Error: err.Error()})
	return mcp.NewToolResultError(string(b))
}

// resolvePoint finds the point addressed by idx, or by name when idx is absent.
func (s *Server) resolvePoint(request mcp.CallToolRequest) (model.Point, error) {
	if _, ok := request.GetArguments()["idx"]; ok {
		return s.points.At(request.GetInt("idx", -1))
	}
	name := request.GetString("name", "")
	if name == "" {
		return model.Point{}, errors.New("idx or name is required")
	}
	p, ok := model.FindByName(s.points.Points(), name)
	if !ok {
		return model.Point{}, fmt.Errorf("no point named %q", name)
	}
	return p, nil
}

func (s *Server) handleListPoints(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(output.PointsResult{File: s.cfg.PointsFile, Points: s.points.Points()}), nil
}

func (s *Server) handleAddPoint(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := model.NewPoint(request.GetString("name", ""))
	if p.Name == "" {
		return errorResult("add_point", errors.New("name is required")), nil
	}
	p.X = request.GetInt("x", model.Unset)
	p.Y = request.GetInt("y", model.Unset)
	if c := request.GetString("color", ""); c != "" {
		color, err := model.ParseColor(c)
		if err != nil {
			return errorResult("add_point", err), nil
		}
		p.Color = color
	}
	p.Idx = s.points.Add(p)
	s.log.Debug("added point", zap.Stringer("point", p))
	return textResult(output.ActionResult{OK: true, Action: "add_point", Point: &p}), nil
}

func (s *Server) handleSetPoint(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolvePoint(request)
	if err != nil {
		return errorResult("set_point", err), nil
	}
	p.X = request.GetInt("x", p.X)
	p.Y = request.GetInt("y", p.Y)
	p.Name = request.GetString("rename", p.Name)
	if c := request.GetString("color", ""); c != "" {
		color, err := model.ParseColor(c)
		if err != nil {
			return errorResult("set_point", err), nil
		}
		p.Color = color
	}
	if err := s.points.UpdateFields(p); err != nil {
		return errorResult("set_point", err), nil
	}
	return textResult(output.ActionResult{OK: true, Action: "set_point", Point: &p}), nil
}

func (s *Server) handleClearPoint(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolvePoint(request)
	if err != nil {
		return errorResult("clear_point", err), nil
	}
	if err := s.points.UpdatePosition(p.Idx, model.Unset, model.Unset); err != nil {
		return errorResult("clear_point", err), nil
	}
	p = p.Cleared()
	return textResult(output.ActionResult{OK: true, Action: "clear_point", Point: &p}), nil
}

func (s *Server) handleRemovePoint(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolvePoint(request)
	if err != nil {
		return errorResult("remove_point", err), nil
	}
	s.points.Remove(p)
	return textResult(output.ActionResult{OK: true, Action: "remove_point", Point: &p}), nil
}

func (s *Server) pathParam(request mcp.CallToolRequest) (string, error) {
	path := request.GetString("path", s.cfg.PointsFile)
	if path == "" {
		return "", errors.New("path is required when no points file is configured")
	}
	return path, nil
}

func (s *Server) handleSavePoints(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.pathParam(request)
	if err != nil {
		return errorResult("save_points", err), nil
	}
	if err := s.points.SaveToFile(path); err != nil {
		return errorResult("save_points", err), nil
	}
	return textResult(output.ActionResult{OK: true, Action: "save_points", File: path}), nil
}

func (s *Server) handleLoadPoints(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := s.pathParam(request)
	if err != nil {
		return errorResult("load_points", err), nil
	}
	ok, err := s.points.LoadFromFile(path)
	if err != nil {
		return errorResult("load_points", err), nil
	}
	if !ok {
		return errorResult("load_points", fmt.Errorf("%s is not a valid points document", path)), nil
	}
	return textResult(output.PointsResult{File: path, Points: s.points.Points()}), nil
}

func (s *Server) handleMapCoords(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := mapper.New(
		image.Pt(request.GetInt("image_width", 0), request.GetInt("image_height", 0)),
		image.Pt(request.GetInt("display_width", 0), request.GetInt("display_height", 0)),
	)
	x, y := request.GetFloat("x", 0), request.GetFloat("y", 0)
	res := output.MapResult{
		Image:   [2]int{m.Image.X, m.Image.Y},
		Display: [2]int{m.Display.X, m.Display.Y},
		Input:   [2]float64{x, y},
	}
	if request.GetBool("reverse", false) {
		dx, dy, ok := m.ToDisplay(image.Pt(int(x), int(y)))
		res.DisplayPoint = &[2]float64{dx, dy}
		res.Outside = !ok
	} else {
		p := m.ToImage(x, y)
		res.ImagePoint = &[2]int{p.X, p.Y}
		res.Outside = p == mapper.Outside
	}
	return textResult(res), nil
}

// capture grabs the screen through the cache. The caller holds providerMu.
func (s *Server) capture(ctx context.Context) (image.Image, error) {
	if s.provider == nil || s.provider.Screenshotter == nil {
		return nil, errors.New("screen capture not available on this platform")
	}
	return s.cache.Capture(ctx, s.provider.Screenshotter)
}

func (s *Server) handleScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := request.GetString("format", "png")
	quality := request.GetInt("quality", 80)
	scale := request.GetFloat("scale", 0.5)
	labels, err := annotate.ParseLabelMode(request.GetString("labels", "name"))
	if err != nil {
		return errorResult("screenshot", err), nil
	}

	s.providerMu.Lock()
	img, err := s.capture(ctx)
	s.providerMu.Unlock()
	if err != nil {
		return errorResult("screenshot", err), nil
	}

	if request.GetBool("annotate", true) {
		img = annotate.Points(img, s.points.Points(), labels)
	}
	img = annotate.Scale(img, scale)

	var buf bytes.Buffer
	if err := annotate.Encode(&buf, img, format, quality); err != nil {
		return errorResult("screenshot", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
				MIMEType: annotate.MIMEType(format),
			},
		},
	}, nil
}

func (s *Server) handleSamplePixels(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.provider == nil || s.provider.Pixels == nil {
		return errorResult("sample_pixels", errors.New("pixel reads not available on this platform")), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	samples := make([]output.Sample, 0, s.points.Len())
	for _, p := range s.points.Points() {
		if !p.IsSet() {
			continue
		}
		c, err := s.provider.Pixels.PixelColor(p.X, p.Y)
		smp := output.NewSample(p, c)
		if err != nil {
			smp.Error = err.Error()
		}
		samples = append(samples, smp)
	}
	return textResult(samples), nil
}

type scriptsResult struct {
	Scripts []script.Entry `yaml:"scripts"`
	Loaded  *script.Loaded `yaml:"loaded,omitempty"`
}

func (s *Server) handleListScripts(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := scriptsResult{Scripts: script.Entries()}
	if l, ok := s.host.Loaded(); ok {
		res.Loaded = &l
	}
	return textResult(res), nil
}

type runResult struct {
	OK      bool   `yaml:"ok"`
	Action  string `yaml:"action"`
	Script  string `yaml:"script,omitempty"`
	Elapsed string `yaml:"elapsed"`
	Error   string `yaml:"error,omitempty"`
}

func (s *Server) handleRunScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ref := request.GetString("script", ""); ref != "" {
		if _, err := s.host.Load(ref); err != nil {
			return errorResult("run_script", err), nil
		}
	}
	if timeout := request.GetInt("timeout", 0); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	capture := func() (image.Image, error) {
		s.providerMu.Lock()
		defer s.providerMu.Unlock()
		s.cache.Invalidate()
		return s.capture(ctx)
	}

	start := time.Now()
	err := s.host.Start(ctx, s.points.Points(), capture)
	s.cache.Invalidate()

	res := runResult{OK: err == nil, Action: "run_script", Elapsed: time.Since(start).Round(time.Millisecond).String()}
	if l, ok := s.host.Loaded(); ok {
		res.Script = l.Name
	}
	if err != nil {
		res.Error = err.Error()
		b, _ := yaml.Marshal(res)
		return mcp.NewToolResultError(string(b)), nil
	}
	return textResult(res), nil
}
