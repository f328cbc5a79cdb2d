package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/streamlens/qwire/internal/unitgen"
)

var (
	generateUnitDir        string
	generateDataDir        string
	generateDiscovery      string
	generateSkipActivation bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and activate parser units for every probe service",
	Long: "Scan the unit directory for stream-quality probe services, write one\n" +
		"CSV parser unit per instance, enable and start each unit, and reload\n" +
		"the systemd daemon once. Instances whose data file cannot be resolved\n" +
		"are skipped with a warning; the run keeps going.",
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateUnitDir, "unit-dir", "", "unit directory (overrides config)")
	generateCmd.Flags().StringVar(&generateDataDir, "data-dir", "", "CSV data directory (overrides config)")
	generateCmd.Flags().StringVar(&generateDiscovery, "discovery", "", "data file discovery mode: glob or fixed (overrides config)")
	generateCmd.Flags().BoolVar(&generateSkipActivation, "skip-activation", false, "write unit files without enabling or starting them")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadGeneratorConfig()
	if err != nil {
		return fmt.Errorf("qwire generate: %w", err)
	}

	// Apply CLI flag overrides.
	if generateUnitDir != "" {
		cfg.UnitDir = generateUnitDir
	}
	if generateDataDir != "" {
		cfg.DataDir = generateDataDir
	}
	if generateDiscovery != "" {
		cfg.Discovery = unitgen.DiscoveryMode(generateDiscovery)
	}
	if generateSkipActivation {
		cfg.SkipActivation = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("qwire generate: %w", err)
	}

	gen := unitgen.NewGenerator(*cfg, unitgen.NewInitController(), unitgen.NewPrivilegeChecker(), setupLogger(cmd.ErrOrStderr()))

	summary, err := gen.Run()
	if err != nil {
		return fmt.Errorf("qwire generate: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range summary.Results {
		switch r.Outcome {
		case unitgen.OutcomeGenerated:
			fmt.Fprintf(out, "generated %s (data: %s)\n", r.UnitName, r.DataPath)
		case unitgen.OutcomeActivationFailed:
			fmt.Fprintf(out, "generated %s but activation failed: %v\n", r.UnitName, r.Err)
		default:
			fmt.Fprintf(out, "skipped %s: %s\n", r.BaseUnit, r.Outcome)
		}
	}
	generated, skipped, activationFailed := summary.Counts()
	fmt.Fprintf(out, "done: %d generated, %d skipped, %d activation failures\n",
		generated, skipped, activationFailed)
	return nil
}

// loadGeneratorConfig parses the config file. A missing file at the default
// location is not an error: the built-in naming conventions apply.
func loadGeneratorConfig() (*unitgen.Config, error) {
	cfg, err := unitgen.ParseConfig(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && cfgFile == defaultConfigPath {
			c := unitgen.Config{}
			c.ApplyDefaults()
			return &c, nil
		}
		return nil, err
	}
	return cfg, nil
}
