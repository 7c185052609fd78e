package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/mj1618/scoopick/internal/output"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run [SCRIPT]",
	Short: "Run a script against the points",
	Long: `Run a script with the current points. SCRIPT is a built-in name (see
"scoopick scripts"), a Go plugin (.so) exporting Run, or a YAML step file.
Without SCRIPT, script.default from config is used.

A plugin exports
  func Run(ctx context.Context, points []model.Point, capture script.CaptureFunc) error
Those types live in scoopick's internal packages, so build plugins from a
package inside the scoopick module: go build -buildmode=plugin ./myscripts/foo

The script runs until it returns, --timeout expires, or Ctrl-C is pressed.

Examples:
  scoopick run logging
  scoopick run balatro --timeout 30m
  scoopick run ./menu.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Duration("timeout", 0, "Stop the script after this long (0 = no limit)")
}

func runRun(cmd *cobra.Command, args []string) error {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	ref := appConfig.Script.Default
	if len(args) == 1 {
		ref = args[0]
	}
	if ref == "" {
		return errors.New("no script given and script.default is not configured")
	}

	c, _, err := openPoints()
	if err != nil {
		return err
	}
	provider, err := newProvider(true)
	if err != nil {
		return err
	}

	host := script.NewHost(scriptDeps(provider))
	loaded, err := host.Load(ref)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err = host.Start(ctx, c.Points(), captureFunc(ctx, provider))
	appLog.Debug("run finished", zap.String("script", loaded.Name), zap.Duration("elapsed", time.Since(start)))

	res := output.ActionResult{OK: err == nil, Action: "run " + loaded.Name}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Stopped by the user or --timeout; not a failure.
		res.OK = true
		res.Error = err.Error()
	default:
		res.Error = err.Error()
		if perr := output.Print(res); perr != nil {
			return perr
		}
		return err
	}
	return output.Print(res)
}
