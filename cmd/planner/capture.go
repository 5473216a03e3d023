package main

import (
	"time"

	"github.com/spf13/cobra"

	"planner/internal/capture"
	appLog "planner/internal/log"
)

var captureOpts capture.Options

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Screenshot a running planner page to PNG with headless Chromium",
	Args:  cobra.NoArgs,
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureOpts.URL, "url", "http://127.0.0.1:8080/", "Planner page URL")
	captureCmd.Flags().StringVar(&captureOpts.OutputPath, "out", "preview.png", "Output PNG path")
	captureCmd.Flags().IntVar(&captureOpts.Width, "width", capture.DefaultWidth, "Viewport width in pixels")
	captureCmd.Flags().IntVar(&captureOpts.Height, "height", capture.DefaultHeight, "Viewport height in pixels")
	captureCmd.Flags().DurationVar(&captureOpts.Timeout, "timeout", capture.DefaultTimeoutSec*time.Second, "Overall capture timeout")
}

func runCapture(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	appLog.Info("capture start", "url", captureOpts.URL, "out", captureOpts.OutputPath)
	if err := capture.PagePNG(ctx, captureOpts); err != nil {
		appLog.Error("capture failed", err, "url", captureOpts.URL)
		return err
	}
	appLog.Info("capture done", "out", captureOpts.OutputPath)
	return nil
}
