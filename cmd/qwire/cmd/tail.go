package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamlens/qwire/internal/csvtail"
)

var (
	tailInterval    time.Duration
	tailLogFile     string
	tailMetricsAddr string
)

var tailCmd = &cobra.Command{
	Use:   "tail <input.csv> <output.jsonl>",
	Short: "Follow a stream-quality CSV file and append new records as JSONL",
	Long: "Follow a stream-quality CSV file and convert every new record to a\n" +
		"JSON line appended to the output file. This is the worker the generated\n" +
		"parser units execute; it runs until stopped.",
	Args: cobra.ExactArgs(2),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().DurationVar(&tailInterval, "interval", csvtail.DefaultInterval, "delay between polls of the input file")
	tailCmd.Flags().StringVar(&tailLogFile, "log-file", "", "also append log output to this file")
	tailCmd.Flags().StringVar(&tailMetricsAddr, "metrics-addr", "", "listen address for Prometheus metrics (disabled when empty)")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg := csvtail.Config{
		InputPath:   args[0],
		OutputPath:  args[1],
		Interval:    tailInterval,
		MetricsAddr: tailMetricsAddr,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("qwire tail: %w", err)
	}

	logWriter := io.Writer(cmd.ErrOrStderr())
	if tailLogFile != "" {
		f, err := os.OpenFile(tailLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("qwire tail: open log file: %w", err)
		}
		defer f.Close()
		logWriter = io.MultiWriter(logWriter, f)
	}
	logger := setupLogger(logWriter)

	metrics := csvtail.NewMetrics()
	tailer := csvtail.NewTailer(cfg, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var wg sync.WaitGroup
	if cfg.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := metrics.Serve(ctx, cfg.MetricsAddr); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	err := tailer.Run(ctx)
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		return nil // clean shutdown on signal
	}
	return err
}
