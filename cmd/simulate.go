package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/bessim/config"
	"github.com/kilianp07/bessim/infra/logger"
	"github.com/kilianp07/bessim/metrics"
	"github.com/kilianp07/bessim/pkg/export"
	"github.com/kilianp07/bessim/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a battery scenario",
	RunE:  simulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("simulate")
	sink, err := metrics.NewSink(cfg.Metrics, logg)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Output.Dir != "" {
		csv, err := export.NewCSVWriter(cfg.Output.Dir)
		if err != nil {
			return fmt.Errorf("csv writer: %w", err)
		}
		sink = metrics.NewMultiSink(sink, csv)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logg.Errorf("sink close: %v", err)
		}
	}()

	if cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, cfg.Metrics.PrometheusAddr); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	runner, err := sim.Build(cfg, sink, logg)
	if err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}

	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d steps (%s simulated)\n", sum.RunID, sum.Steps, sum.Simulated)
	fmt.Printf("  soc=%.4f soh_q=%.6f soh_r=%.6f temp=%.2fK\n", sum.FinalSoC, sum.FinalSoHQ, sum.FinalSoHR, sum.FinalTemp)
	fmt.Printf("  energy in=%.1fWh out=%.1fWh loss=%.1fWh fec=%.3f\n", sum.EnergyIn, sum.EnergyOut, sum.EnergyLoss, sum.TotalFEC)
	return nil
}
