package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scheerer/mystic-light-controller/internal/screen"
	"github.com/scheerer/mystic-light-controller/screensync"
)

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror the dominant screen color onto the LEDs until interrupted",
		Long: `Captures SCREEN_NUMBER every CAPTURE_INTERVAL, reduces it to one color with COLOR_ALGO ` +
			`(sampling every PIXEL_GRID_SIZE-th pixel) and sets every LED of SYNC_DEVICES, or of every device, to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			algo, err := screen.Lookup(a.config.ColorAlgo)
			if err != nil {
				return err
			}

			logger.With(
				zap.Int("SCREEN_NUMBER", a.config.ScreenNumber),
				zap.Int("PIXEL_GRID_SIZE", a.config.PixelGridSize),
				zap.Stringer("CAPTURE_INTERVAL", a.config.CaptureInterval),
				zap.String("COLOR_ALGO", a.config.ColorAlgo),
				zap.Strings("SYNC_DEVICES", a.config.SyncDevices)).
				Info("Starting screen sync")
			logger.Info("Adjust PIXEL_GRID_SIZE to increase performance or accuracy. Lower values are slower but more accurate. 1 being the most accurate.")
			logger.Infof("Adjust COLOR_ALGO to change color algorithm. Valid values are: %v", screen.Names())
			logger.Info("Press Ctrl+C to stop")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = screensync.Run(ctx, screensync.Config{
				CaptureInterval: a.config.CaptureInterval,
				Algorithm:       algo,
				PixelGridSize:   a.config.PixelGridSize,
				ScreenNumber:    a.config.ScreenNumber,
				Devices:         a.config.SyncDevices,
			}, a.controller, screen.Capture)
			if err == nil {
				logger.Info("Shutting down")
			}
			return err
		},
	}
}
