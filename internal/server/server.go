// Package server exposes points, captures and scripts as MCP tools.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/scoopick/internal/platform"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/script"
	"go.uber.org/zap"
)

// Config holds MCP server configuration.
type Config struct {
	Transport  string
	Port       int
	CacheTTL   time.Duration
	PointsFile string
	Version    string
}

// Server wraps the MCP server with the platform provider, points and cache.
type Server struct {
	provider   *platform.Provider
	providerMu sync.Mutex
	points     *points.Collection
	host       *script.Host
	cache      *CaptureCache
	cfg        Config
	log        *zap.Logger
	mcp        *mcpserver.MCPServer
}

// New creates and configures an MCP server with all scoopick tools.
func New(cfg Config, provider *platform.Provider, pts *points.Collection, host *script.Host, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	s := &Server{
		provider: provider,
		points:   pts,
		host:     host,
		cache:    NewCaptureCache(cfg.CacheTTL),
		cfg:      cfg,
		log:      log.Named("mcp"),
	}
	s.mcp = mcpserver.NewMCPServer("scoopick", cfg.Version)
	s.registerTools()
	return s
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving", zap.String("transport", s.cfg.Transport), zap.Int("port", s.cfg.Port))
	switch s.cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errc := make(chan error, 1)
		go func() { errc <- httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port)) }()
		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func pointParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("idx", mcp.Description("Point index")),
		mcp.WithString("name", mcp.Description("Point name (used when idx is absent)")),
	}
}

func withOptions(name string, base []mcp.ToolOption, extra ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append(base, extra...)...)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_points",
			mcp.WithDescription("List every recorded point with its idx, name, screenshot coordinates and indicator color. Unset coordinates are -1."),
		),
		s.handleListPoints,
	)

	s.mcp.AddTool(
		mcp.NewTool("add_point",
			mcp.WithDescription("Append a new point"),
			mcp.WithString("name", mcp.Description("Point name"), mcp.Required()),
			mcp.WithNumber("x", mcp.Description("X in screenshot pixels (default: unset)")),
			mcp.WithNumber("y", mcp.Description("Y in screenshot pixels (default: unset)")),
			mcp.WithString("color", mcp.Description("Indicator color as r,g,b or #rrggbb")),
		),
		s.handleAddPoint,
	)

	s.mcp.AddTool(
		withOptions("set_point", pointParams(),
			mcp.WithDescription("Update a point's position, name or indicator color"),
			mcp.WithNumber("x", mcp.Description("New X in screenshot pixels")),
			mcp.WithNumber("y", mcp.Description("New Y in screenshot pixels")),
			mcp.WithString("rename", mcp.Description("New name")),
			mcp.WithString("color", mcp.Description("New indicator color as r,g,b or #rrggbb")),
		),
		s.handleSetPoint,
	)

	s.mcp.AddTool(
		withOptions("clear_point", pointParams(),
			mcp.WithDescription("Reset a point's position to unset"),
		),
		s.handleClearPoint,
	)

	s.mcp.AddTool(
		withOptions("remove_point", pointParams(),
			mcp.WithDescription("Delete a point; later points are re-indexed"),
		),
		s.handleRemovePoint,
	)

	s.mcp.AddTool(
		mcp.NewTool("save_points",
			mcp.WithDescription("Write the points to a JSON file"),
			mcp.WithString("path", mcp.Description("File path (default: configured points file)")),
		),
		s.handleSavePoints,
	)

	s.mcp.AddTool(
		mcp.NewTool("load_points",
			mcp.WithDescription("Replace the points with a JSON file's contents. Invalid documents are rejected and leave the points unchanged."),
			mcp.WithString("path", mcp.Description("File path (default: configured points file)")),
		),
		s.handleLoadPoints,
	)

	s.mcp.AddTool(
		mcp.NewTool("map_coords",
			mcp.WithDescription("Map a position in a letterboxed display area to screenshot pixels, or back with reverse"),
			mcp.WithNumber("image_width", mcp.Description("Screenshot width"), mcp.Required()),
			mcp.WithNumber("image_height", mcp.Description("Screenshot height"), mcp.Required()),
			mcp.WithNumber("display_width", mcp.Description("Display area width"), mcp.Required()),
			mcp.WithNumber("display_height", mcp.Description("Display area height"), mcp.Required()),
			mcp.WithNumber("x", mcp.Description("X to map"), mcp.Required()),
			mcp.WithNumber("y", mcp.Description("Y to map"), mcp.Required()),
			mcp.WithBoolean("reverse", mcp.Description("Map screenshot pixels to display coordinates")),
		),
		s.handleMapCoords,
	)

	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the screen, optionally marking every set point with a crosshair"),
			mcp.WithBoolean("annotate", mcp.Description("Draw point crosshairs (default: true)")),
			mcp.WithString("labels", mcp.Description("Label mode: name, coords, idx, none (default: name)")),
			mcp.WithString("format", mcp.Description("Image format: png, jpg (default: png)")),
			mcp.WithNumber("quality", mcp.Description("JPEG quality 1-100 (default: 80)")),
			mcp.WithNumber("scale", mcp.Description("Scale factor 0.1-1.0 (default: 0.5)")),
		),
		s.handleScreenshot,
	)

	s.mcp.AddTool(
		mcp.NewTool("sample_pixels",
			mcp.WithDescription("Read the live screen color under every set point"),
		),
		s.handleSamplePixels,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_scripts",
			mcp.WithDescription("List built-in automation scripts and the loaded one"),
		),
		s.handleListScripts,
	)

	s.mcp.AddTool(
		mcp.NewTool("run_script",
			mcp.WithDescription("Load a script (built-in name, .so plugin or .yaml step file) and run it with the current points. Blocks until the script ends."),
			mcp.WithString("script", mcp.Description("Script to load; omit to run the loaded one")),
			mcp.WithNumber("timeout", mcp.Description("Stop the script after N seconds (0 = no limit)")),
		),
		s.handleRunScript,
	)
}
