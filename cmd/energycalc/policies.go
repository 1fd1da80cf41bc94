package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/energycalc/internal/estimator"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List appliance coefficient policies",
	RunE:  runPolicies,
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}

func runPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	active, err := estimator.PolicyByName(cfg.GetPolicy())
	if err != nil {
		return err
	}

	for _, p := range estimator.Policies() {
		marker := " "
		if p.Name == active.Name {
			marker = "*"
		}
		fmt.Printf("%s %s: %s\n", marker, p.Name, p.Description)
		for _, a := range p.Supported() {
			c, _ := p.Coefficient(a)
			fmt.Printf("    %-18s %4.1f kWh/day\n", a.Label(), c)
		}
	}
	return nil
}
