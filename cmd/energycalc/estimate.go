package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energycalc/internal/estimator"
	"github.com/jgoulah/energycalc/internal/report"
	"github.com/jgoulah/energycalc/pkg/models"
)

var (
	estimateFlags  profileFlags
	estimatePolicy string
	estimateJSON   bool
	estimateSave   bool
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate consumption for one household",
	Long: `Computes the daily energy breakdown and projections for a household given on
the command line and prints them as a table (or JSON with --json).

Example:
  energycalc estimate --name "Priya" --city Mumbai --area "Bandra West" \
    --dwelling Flat --housing 2BHK --appliance ac --appliance fridge`,
	RunE: runEstimate,
}

func init() {
	estimateFlags.register(estimateCmd)
	estimateCmd.Flags().StringVar(&estimatePolicy, "policy", "", "coefficient policy (differentiated or uniform)")
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "print the report as JSON")
	estimateCmd.Flags().BoolVar(&estimateSave, "save", false, "record the estimate in the history database")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	est, err := newEstimator(cfg, estimatePolicy)
	if err != nil {
		return err
	}

	profile, err := estimateFlags.profile()
	if err != nil {
		return err
	}

	b, err := est.Estimate(profile)
	if err != nil {
		var incomplete *models.IncompleteProfileError
		if errors.As(err, &incomplete) {
			return fmt.Errorf("please fill in all required fields before calculating: missing %v", incomplete.Missing)
		}
		return err
	}

	proj := estimator.Project(b, tariffFromConfig(cfg))
	rep := report.Build(profile, b, proj)

	if estimateSave {
		db, err := openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		rec := report.NewRecord(profile, b, proj, time.Now())
		if err := db.InsertEstimate(&rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved estimate %s\n", rec.ID)
	}

	if estimateJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	printReport(rep)
	return nil
}

func printReport(rep report.Report) {
	fmt.Printf("\n%s\n", rep.Headline)
	fmt.Printf("Policy: %s\n", rep.Breakdown.Policy)

	fmt.Println("\nEnergy Breakdown:")
	fmt.Println("----------------------------------------")
	fmt.Printf("%-24s  %12s\n", "Category", "kWh/day")
	fmt.Println("----------------------------------------")
	for _, c := range rep.Categories {
		fmt.Printf("%-24s  %12s\n", c.Label, report.FormatKWh(c.KWh))
	}
	fmt.Println("----------------------------------------")

	fmt.Println()
	for _, t := range rep.Tiles {
		fmt.Printf("%-24s  %12s\n", t.Label, t.Value)
	}

	fmt.Println("\nSeasonal Pattern (simulated):")
	for _, m := range rep.Projection.Seasonal {
		fmt.Printf("  %s  %10s kWh\n", m.Label, report.FormatKWh(m.KWh))
	}

	fmt.Println("\nSummary:")
	fmt.Printf("  Name: %s\n", rep.Summary.Name)
	fmt.Printf("  Age: %d years\n", rep.Summary.Age)
	fmt.Printf("  Location: %s\n", rep.Summary.Location)
	fmt.Printf("  Housing: %s\n", rep.Summary.Housing)
	fmt.Printf("  Appliances: %s\n", rep.Summary.Appliances)

	fmt.Println("\nEnergy Saving Tips:")
	for _, tip := range rep.Tips {
		fmt.Printf("  • %s\n", tip)
	}
}
