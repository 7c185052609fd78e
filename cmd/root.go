package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/scoopick/internal/config"
	"github.com/mj1618/scoopick/internal/logger"
	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// appConfig and appLog are set by the root PersistentPreRunE before any
	// subcommand runs.
	appConfig = config.DefaultConfig()
	appLog    = zap.NewNop()
)

// annotationNoConfigFile marks commands that must run before --config exists.
const annotationNoConfigFile = "scoopick/no-config-file"

var rootCmd = &cobra.Command{
	Use:   "scoopick",
	Short: "Pick screen points and drive scripts against them",
	Long: `Scoopick records named screen coordinates on a screenshot and hands them to
automation scripts that click, type and read pixel colors at those points.

Run "scoopick gui" for the point picker, or use the subcommands to edit points,
capture the screen and run scripts headless.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context,
// which stops running scripts and servers.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringP("points", "p", "", "Points file (default points.file from config)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		path, _ := rootCmd.PersistentFlags().GetString("config")
		if _, ok := cmd.Annotations[annotationNoConfigFile]; ok {
			path = ""
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
			cfg.Log.Level = level
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		l, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}
		appConfig, appLog = cfg, l
		cmd.SetContext(logger.ContextWithLogger(cmd.Context(), l))
		return nil
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = appLog.Sync()
	}
}
