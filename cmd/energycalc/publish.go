package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/publisher"
	"github.com/jgoulah/energycalc/pkg/models"
)

var (
	publishID    string
	publishAll   bool
	publishLimit int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish recorded estimates to Home Assistant and/or MQTT",
	Long: `Reads recorded estimates from the history database and publishes them to the
targets enabled in config (Home Assistant HTTP API, MQTT broker).`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishID, "id", "", "Publish a single estimate by ID")
	publishCmd.Flags().BoolVar(&publishAll, "all", false, "Force republish all records (ignore published flag)")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	pub, err := publisher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	var records []models.EstimateRecord
	switch {
	case publishID != "":
		rec, err := db.GetEstimate(publishID)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("no estimate with id %s", publishID)
		}
		records = append(records, *rec)
	case publishAll:
		records, err = db.ListEstimates(0)
	default:
		records, err = db.ListUnpublishedEstimates()
	}
	if err != nil {
		return fmt.Errorf("listing estimates: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No unpublished estimates found")
		return nil
	}

	if publishLimit > 0 && len(records) > publishLimit {
		records = records[:publishLimit]
		fmt.Printf("Limiting to %d records (--limit flag)\n", publishLimit)
	}

	ctx := context.Background()
	published := 0
	for i, rec := range records {
		fmt.Printf("[%d/%d] Publishing %s (%.2f kWh/day)... ", i+1, len(records), rec.ID, rec.DailyKWh)
		if err := pub.Publish(ctx, rec); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			logger.Warn("publish failed", zap.String("id", rec.ID), zap.Error(err))
			continue
		}

		if err := db.MarkPublished(rec.ID); err != nil {
			fmt.Printf("✓ (warning: failed to mark as published: %v)\n", err)
		} else {
			fmt.Printf("✓\n")
		}
		published++
	}

	fmt.Printf("\nSuccessfully published %d/%d estimates\n", published, len(records))
	return nil
}
