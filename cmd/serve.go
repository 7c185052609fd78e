package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/scoopick/internal/script"
	"github.com/mj1618/scoopick/internal/server"
	"github.com/mj1618/scoopick/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing points, capture and scripts",
	Long: `Start a Model Context Protocol (MCP) server that exposes the points file,
coordinate mapping, screenshots, pixel sampling and script runs as tools.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Flags default to the serve section of the config file.

Examples:
  scoopick serve
  scoopick serve --transport streamable-http --port 8080
  scoopick serve --cache-ttl 0 --script balatro`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 0, "Capture cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().String("script", "", "Script to preload (default script.default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := server.Config{
		Transport:  appConfig.Serve.Transport,
		Port:       appConfig.Serve.Port,
		CacheTTL:   appConfig.CacheTTL(),
		PointsFile: pointsPath(),
		Version:    version.Version,
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport, _ = cmd.Flags().GetString("transport")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("cache-ttl") {
		ms, _ := cmd.Flags().GetInt("cache-ttl")
		cfg.CacheTTL = time.Duration(ms) * time.Millisecond
	}

	pts, _, err := openPoints()
	if err != nil {
		return err
	}
	provider, err := newProvider(true)
	if err != nil {
		// Point editing and mapping still work without a desktop session.
		appLog.Warn("platform unavailable, capture and script tools will fail", zap.Error(err))
		provider = nil
	}

	host := script.NewHost(scriptDeps(provider))
	ref := appConfig.Script.Default
	if cmd.Flags().Changed("script") {
		ref, _ = cmd.Flags().GetString("script")
	}
	if ref != "" {
		if _, err := host.Load(ref); err != nil {
			return err
		}
	}

	srv := server.New(cfg, provider, pts, host, appLog)
	if err := srv.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
