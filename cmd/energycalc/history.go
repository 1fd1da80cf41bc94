package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jgoulah/energycalc/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded estimates",
	Long:  `Displays estimates stored in the history database, newest first.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of estimates to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	records, err := db.ListEstimates(historyLimit)
	if err != nil {
		return fmt.Errorf("listing estimates: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No estimates recorded")
		return nil
	}

	fmt.Println("\nRecorded Estimates:")
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("%-16s  %-16s  %-6s  %-28s  %10s  %3s\n", "When", "Name", "Home", "Appliances", "kWh/day", "Pub")
	fmt.Println("--------------------------------------------------------------------------------")

	var total float64
	for _, rec := range records {
		appliances := strings.Join(rec.Appliances, ",")
		if appliances == "" {
			appliances = "none"
		}
		published := ""
		if rec.Published {
			published = "✓"
		}
		fmt.Printf("%-16s  %-16s  %-6s  %-28s  %10s  %3s\n",
			humanize.Time(rec.CreatedAt),
			truncate(rec.Name, 16),
			rec.Housing,
			truncate(appliances, 28),
			report.FormatKWh(rec.DailyKWh),
			published,
		)
		total += rec.DailyKWh
	}

	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("Average: %s kWh/day (%d estimates)\n", report.FormatKWh(total/float64(len(records))), len(records))

	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
