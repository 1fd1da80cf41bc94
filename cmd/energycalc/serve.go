package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energycalc/internal/web"
)

var (
	serveAddr    string
	servePolicy  string
	serveHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculator web page",
	Long: `Serves the household form and result page with charts, plus a JSON API
under /api. Submissions are recorded in the history database when history is
enabled in config or with --history.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8501)")
	serveCmd.Flags().StringVar(&servePolicy, "policy", "", "coefficient policy (differentiated or uniform)")
	serveCmd.Flags().BoolVar(&serveHistory, "history", false, "record submissions in the history database")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	est, err := newEstimator(cfg, servePolicy)
	if err != nil {
		return err
	}

	var history web.HistoryStore
	if serveHistory || cfg.History.Enabled {
		db, err := openDB(cfg)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		history = db
		logger.Info("recording history", zap.String("db", getDBPath(cfg)))
	}

	handlers, err := web.NewHandlers(est, tariffFromConfig(cfg), history, logger)
	if err != nil {
		return err
	}

	addr := cfg.GetListenAddr()
	if serveAddr != "" {
		addr = serveAddr
	}

	server := web.NewServer(
		addr,
		web.NewRouter(handlers, cfg.Server.Metrics),
		logger,
		web.RecoveryMiddleware(logger),
		web.LoggingMiddleware(logger),
	)

	logger.Info("estimator ready",
		zap.String("policy", est.Policy().Name),
		zap.Float64("cost_per_kwh", cfg.GetCostPerKWh()),
		zap.Float64("emission_factor", cfg.GetEmissionFactor()),
	)

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
