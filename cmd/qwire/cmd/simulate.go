package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamlens/qwire/internal/simulate"
)

var simulateInterval time.Duration

var simulateCmd = &cobra.Command{
	Use:   "simulate <logfile>",
	Short: "Append synthetic log lines to a file for pipeline testing",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&simulateInterval, "interval", simulate.DefaultInterval, "delay between generated lines")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	gen := simulate.NewGenerator(args[0], simulateInterval, setupLogger(cmd.ErrOrStderr()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := gen.Run(ctx); !errors.Is(err, context.Canceled) {
		return fmt.Errorf("qwire simulate: %w", err)
	}
	return nil
}
