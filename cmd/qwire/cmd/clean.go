package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streamlens/qwire/internal/unitgen"
)

var cleanUnitDir string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Stop, disable, and remove all generated parser units",
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanUnitDir, "unit-dir", "", "unit directory (overrides config)")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := loadGeneratorConfig()
	if err != nil {
		return fmt.Errorf("qwire clean: %w", err)
	}
	if cleanUnitDir != "" {
		cfg.UnitDir = cleanUnitDir
	}

	gen := unitgen.NewGenerator(*cfg, unitgen.NewInitController(), unitgen.NewPrivilegeChecker(), setupLogger(cmd.ErrOrStderr()))

	summary, err := gen.Clean()
	if err != nil {
		return fmt.Errorf("qwire clean: %w", err)
	}

	out := cmd.OutOrStdout()
	removed := 0
	for _, r := range summary.Results {
		if r.Outcome == unitgen.OutcomeRemoved {
			fmt.Fprintf(out, "removed %s\n", r.UnitName)
			removed++
		} else {
			fmt.Fprintf(out, "failed to remove %s: %v\n", r.UnitName, r.Err)
		}
	}
	fmt.Fprintf(out, "done: %d removed\n", removed)
	return nil
}
