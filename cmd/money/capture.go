package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wapinheiro/money/internal/broadcast"
	"github.com/wapinheiro/money/internal/common"
	"github.com/wapinheiro/money/internal/haptics"
	"github.com/wapinheiro/money/internal/tui"
	"github.com/wapinheiro/money/internal/tui/themes"
)

func captureCmd(a *app) *cobra.Command {
	var themeName string

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Open the capture wheel",
		Long: `Open the rotary capture screen. Type the amount, press enter, then
review the predicted merchant, category and account before saving.

Drag around the dial or use the arrow keys to turn it. Logs are written to
logging.file while the screen is open.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings := a.settings

			if err := os.MkdirAll(settings.LogDir(), 0750); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
			logFile, err := os.OpenFile(settings.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer func() { _ = logFile.Close() }()

			level, err := common.ParseLevel(settings.Logging.Level)
			if err != nil {
				return err
			}
			if err := common.SetupLoggerTo(logFile, level, settings.Logging.Format); err != nil {
				return fmt.Errorf("failed to setup logging: %w", err)
			}
			defer func() { _ = common.SetupLogger(level, settings.Logging.Format) }()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			opts := []tui.Option{
				tui.WithStorage(store),
				tui.WithTheme(themes.GetTheme(themeName)),
				tui.WithPulser(haptics.New(settings.Haptics, os.Stdout)),
				tui.WithWheel(settings.WheelConfig(), settings.Wheel.FrameInterval),
				tui.WithCapture(settings.CaptureConfig()),
				tui.WithCloseOnSave(settings.Capture.CloseOnSave),
			}

			if addr := settings.Presentation.WSAddr; addr != "" {
				hub := broadcast.NewHub(slog.Default())
				bound, err := broadcast.Serve(ctx, hub, addr)
				if err != nil {
					return err
				}
				defer hub.Close()
				common.LogInfo("presentation server started", common.Fields{
					"url": fmt.Sprintf("ws://%s%s", bound, broadcast.FramesPath),
				})
				opts = append(opts, tui.WithPublisher(hub))
			}

			saved, err := tui.Run(ctx, opts...)
			if err != nil {
				common.LogError(err, "capture session failed", common.Fields{"saved": saved})
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("✓ Saved %d transaction(s)", saved)))
			return nil
		},
	}

	cmd.Flags().StringVar(&themeName, "theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}
