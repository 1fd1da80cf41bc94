package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energycalc/internal/snapshot"
)

var (
	snapshotFlags   profileFlags
	snapshotURL     string
	snapshotOutput  string
	snapshotVisible bool
	snapshotSettle  time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a PNG of the result page for a household",
	Long: `Opens the result page of a running 'energycalc serve' instance in headless
Chrome for the household given by flags and saves a full-page screenshot,
charts included.`,
	RunE: runSnapshot,
}

func init() {
	snapshotFlags.register(snapshotCmd)
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "http://localhost:8501", "base URL of the running calculator")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "energy-report.png", "output PNG file")
	snapshotCmd.Flags().BoolVar(&snapshotVisible, "visible", false, "Show browser window (for debugging)")
	snapshotCmd.Flags().DurationVar(&snapshotSettle, "settle", 2*time.Second, "time to let charts draw before capturing")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	profile, err := snapshotFlags.profile()
	if err != nil {
		return err
	}
	// fail fast instead of waiting on a page that will only show the form error
	if err := profile.Validate(); err != nil {
		return err
	}

	pageURL, err := snapshot.ResultURL(snapshotURL, profile)
	if err != nil {
		return err
	}

	width, height := cfg.GetSnapshotSize()
	fmt.Printf("Capturing %s...\n", pageURL)

	png, err := snapshot.Capture(cmd.Context(), pageURL, snapshot.Options{
		Width:   width,
		Height:  height,
		Visible: snapshotVisible,
		Settle:  snapshotSettle,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(snapshotOutput, png, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", snapshotOutput, err)
	}

	fmt.Printf("✓ Saved %s (%d bytes)\n", snapshotOutput, len(png))
	return nil
}
