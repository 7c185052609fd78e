package cmd

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/mj1618/scoopick/internal/gui"
	"github.com/mj1618/scoopick/internal/logger"
	"github.com/mj1618/scoopick/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// appID identifies scoopick to fyne for preferences and notifications.
const appID = "io.github.mj1618.scoopick"

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Open the point picker",
	Long: `Open the point picker window. Update the screenshot, tick the points to place,
click on the screenshot to set them, then save the points and start a script.
Delete or Backspace clears the ticked points. Log messages of level info and
above are shown as desktop notifications.`,
	Args: cobra.NoArgs,
	RunE: runGUI,
}

func init() {
	rootCmd.AddCommand(guiCmd)
	guiCmd.Flags().String("script", "", "Script to load at startup (default script.default from config)")
}

func runGUI(cmd *cobra.Command, args []string) error {
	a := app.NewWithID(appID)
	log := logger.With(appLog, logger.NewNotifyCore(gui.Notifier(a), zapcore.InfoLevel))

	pts, path, err := openPoints()
	if err != nil {
		return err
	}
	provider, err := newProvider(true)
	if err != nil {
		log.Error("platform unavailable", zap.Error(err))
		provider = nil
	}

	deps := scriptDeps(provider)
	deps.Logger = log.Named("script")
	host := script.NewHost(deps)

	ref := appConfig.Script.Default
	if cmd.Flags().Changed("script") {
		ref, _ = cmd.Flags().GetString("script")
	}
	if ref != "" {
		// A bad default should not keep the window from opening.
		_, _ = host.Load(ref)
	}

	g := gui.New(cmd.Context(), a, provider, pts, host, gui.Options{
		Width:        float32(appConfig.GUI.Width),
		Height:       float32(appConfig.GUI.Height),
		CaptureDelay: appConfig.CaptureDelay(),
		PointsFile:   path,
		Logger:       log,
	})
	go func() {
		<-cmd.Context().Done()
		fyne.Do(a.Quit)
	}()
	g.ShowAndRun()
	return nil
}
