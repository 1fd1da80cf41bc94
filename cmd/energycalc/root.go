package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/config"
	"github.com/jgoulah/energycalc/internal/database"
	"github.com/jgoulah/energycalc/internal/estimator"
	"github.com/jgoulah/energycalc/internal/logging"
)

var (
	cfgFile string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "energycalc",
	Short: "Estimate household energy consumption",
	Long: `EnergyCalc estimates a home's daily, monthly and yearly electricity use from
its size and the appliances in use. It serves a web form with charts, and can
also estimate from the command line, keep a local SQLite history of submissions
and publish estimates to Home Assistant or MQTT.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database file (default is ./history.db)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// getDBPath returns the database file path, flag first then config
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.GetDBPath()
}

// openDB opens the history database
func openDB(cfg *config.Config) (*database.DB, error) {
	path := getDBPath(cfg)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newLogger builds the structured logger from config
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(cfg.GetLogLevel())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// newEstimator builds the estimator for the configured policy, or the override if set
func newEstimator(cfg *config.Config, override string) (*estimator.Estimator, error) {
	name := cfg.GetPolicy()
	if override != "" {
		name = override
	}
	policy, err := estimator.PolicyByName(name)
	if err != nil {
		return nil, err
	}
	return estimator.New(policy), nil
}

// tariffFromConfig returns the cost and emission factors to project with
func tariffFromConfig(cfg *config.Config) estimator.Tariff {
	return estimator.Tariff{
		CostPerKWh:     cfg.GetCostPerKWh(),
		EmissionFactor: cfg.GetEmissionFactor(),
	}
}
