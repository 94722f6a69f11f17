// Package screensync mirrors the dominant color of a display onto LEDs.
package screensync

import (
	"context"
	"errors"
	"image"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/scheerer/mystic-light-controller/internal/logging"
	"github.com/scheerer/mystic-light-controller/internal/screen"
	"github.com/scheerer/mystic-light-controller/lights"
)

var logger = logging.New("screensync")

const warnEvery = 10 * time.Second

// Target is the part of lights.Controller the loop drives.
type Target interface {
	Devices() []string
	SetAllColors(device string, color lights.Color) error
}

// CaptureFunc grabs one frame of the given display.
type CaptureFunc func(screenNumber int) (*image.RGBA, error)

type Config struct {
	CaptureInterval time.Duration
	Algorithm       screen.Algorithm
	PixelGridSize   int
	ScreenNumber    int
	// Devices limits the sync to these device types, empty means all.
	Devices []string
}

func (c Config) targets(t Target) []string {
	all := t.Devices()
	if len(c.Devices) == 0 {
		return all
	}
	var out []string
	for _, d := range all {
		if slices.Contains(c.Devices, d) {
			out = append(out, d)
		}
	}
	return out
}

// Run captures the screen every CaptureInterval and pushes the computed
// color to every targeted device until ctx is done. It only fails on an
// unusable config; capture and LED failures are logged and retried on the
// next tick.
func Run(ctx context.Context, config Config, target Target, capture CaptureFunc) error {
	if config.Algorithm == nil {
		return errors.New("no color algorithm configured")
	}
	if config.CaptureInterval <= 0 {
		return errors.New("capture interval must be positive")
	}

	var lastWarning time.Time
	for {
		if ctx.Err() != nil {
			return nil
		}

		devices := config.targets(target)
		if len(devices) == 0 {
			if !sleep(ctx, config.CaptureInterval) {
				return nil
			}
			continue
		}

		startTime := time.Now()
		img, err := capture(config.ScreenNumber)
		captureScreenDuration := time.Since(startTime)
		if err != nil {
			logger.With(zap.Error(err)).Error("Failed to capture screen")
			if !sleep(ctx, config.CaptureInterval-captureScreenDuration) {
				return nil
			}
			continue
		}

		colorCalculationStart := time.Now()
		c := lights.FromRGBA(config.Algorithm(img, config.PixelGridSize))
		colorCalculationDuration := time.Since(colorCalculationStart)

		if ctx.Err() != nil {
			return nil
		}

		setColorStart := time.Now()
		for _, device := range devices {
			if err := target.SetAllColors(device, c); err != nil {
				logger.With(zap.String("device", device), zap.Stringer("color", c), zap.Error(err)).
					Warn("Failed to set device color")
			}
		}
		setColorDuration := time.Since(setColorStart)

		totalDuration := time.Since(startTime)
		if totalDuration > config.CaptureInterval {
			if time.Since(lastWarning) > warnEvery {
				logger.With(
					zap.Stringer("captureScreenDuration", captureScreenDuration),
					zap.Stringer("colorCalculationDuration", colorCalculationDuration),
					zap.Stringer("setColorDuration", setColorDuration),
					zap.Stringer("totalDuration", totalDuration)).
					Warn("Cannot keep up with CAPTURE_INTERVAL. Consider increasing PIXEL_GRID_SIZE or increasing CAPTURE_INTERVAL.")
				lastWarning = time.Now()
			}
			continue
		}
		if !sleep(ctx, config.CaptureInterval-totalDuration) {
			return nil
		}
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
